package structinfo

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type base struct {
	ID    int64
	CTime time.Time `sqlb:"ctime"`
}

type todo struct {
	base
	Title     string
	Desc      *string `sqlb:"description"`
	Status    string  `db:"status"`
	CreatedBy int64
	Cache     []byte `sqlb:"-"`
	Tmp       int    `sqlb:",skip"`
	secret    string
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		field, tag string
		want       string
		skip       bool
	}{
		{"Title", ``, "title", false},
		{"CreatedAt", ``, "created_at", false},
		{"ID", ``, "id", false},
		{"UserID", ``, "user_id", false},
		{"Desc", `sqlb:"description"`, "description", false},
		{"Desc", `db:"descr"`, "descr", false},
		{"Desc", `sqlb:"description" db:"descr"`, "description", false},
		{"Cache", `sqlb:"-"`, "", true},
		{"Tmp", `sqlb:",skip"`, "", true},
		{"Tmp", `sqlb:"tmp,skip"`, "", true},
		{"Note", `sqlb:",omitempty"`, "note", false},
	}
	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.tag, func(t *testing.T) {
			name, skip := ColumnName(tt.field, reflect.StructTag(tt.tag))
			assert.Equal(t, tt.want, name)
			assert.Equal(t, tt.skip, skip)
		})
	}
}

func TestOf(t *testing.T) {
	info := Of(reflect.TypeFor[todo]())
	assert.Equal(t, []string{"id", "ctime", "title", "description", "status", "created_by"}, info.Names())

	c, ok := info.Lookup("DESCRIPTION")
	require.True(t, ok)
	assert.Equal(t, "Desc", c.Field)
	assert.Equal(t, []int{2}, c.Index)

	c, ok = info.Lookup("id")
	require.True(t, ok)
	assert.Equal(t, []int{0, 0}, c.Index)

	_, ok = info.Lookup("cache")
	assert.False(t, ok)

	assert.Same(t, info, Of(reflect.TypeFor[todo]()), "struct info is cached")
}
