package todo

import (
	"database/sql"
	"time"
)

// Audit carries bookkeeping columns.
type Audit struct {
	CreatedBy int64
	CTime     time.Time `sqlb:"ctime"`
}

type meta struct {
	Version int
}

// Todo is a row of the todo table.
//
// sqlb:fields
type Todo struct {
	ID int64 `sqlb:"id"`
	*Audit
	meta
	Title       string
	Description *string
	Tags        []string
	Note        sql.NullString
	Done        bool   `db:"is_done"`
	Cache       []byte `sqlb:"-"`
	Tmp         int    `db:",skip"`
	hidden      string
}

// Label is not marked.
type Label struct {
	Name string
}

type (
	// Project is marked inside a group.
	//
	// sqlb:fields
	Project struct {
		ProjectID int64
		Name      string
	}
)
