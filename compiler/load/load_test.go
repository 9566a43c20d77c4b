package load

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg := &Config{Dir: "testdata/todo"}
	pkgs, err := cfg.Load(context.Background(), ".")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	pkg := pkgs[0]
	assert.Equal(t, "todo", pkg.Name)
	assert.Equal(t, "github.com/syssam/sqlb/compiler/load/testdata/todo", pkg.PkgPath)
	assert.DirExists(t, pkg.Dir)

	require.Len(t, pkg.Structs, 2)
	todo, project := pkg.Structs[0], pkg.Structs[1]
	assert.Equal(t, "Todo", todo.Name)
	assert.Contains(t, todo.Pos, "todo.go")
	assert.Equal(t, "Project", project.Name)

	var cols []string
	for _, f := range todo.Fields {
		cols = append(cols, f.Column)
	}
	assert.Equal(t, []string{"id", "created_by", "ctime", "version", "title", "description", "tags", "note", "is_done"}, cols)

	byCol := make(map[string]*Field)
	for _, f := range todo.Fields {
		byCol[f.Column] = f
	}
	assert.Equal(t, []string{"Audit", "CreatedBy"}, byCol["created_by"].Path)
	assert.Equal(t, [][]string{{"Audit"}}, byCol["created_by"].Guards)
	assert.Equal(t, "time.Time", byCol["ctime"].Type)
	assert.Equal(t, []string{"meta", "Version"}, byCol["version"].Path)
	assert.Empty(t, byCol["version"].Guards)
	assert.Equal(t, "Done", byCol["is_done"].Name())

	assert.Equal(t, Always, byCol["id"].Presence)
	assert.Equal(t, Always, byCol["ctime"].Presence)
	assert.Equal(t, NonNil, byCol["description"].Presence)
	assert.Equal(t, NonNil, byCol["tags"].Presence)
	assert.Equal(t, Valuer, byCol["note"].Presence)
	assert.Equal(t, "sql.NullString", byCol["note"].Type)

	require.Len(t, project.Fields, 2)
	assert.Equal(t, "project_id", project.Fields[0].Column)
}

func TestLoadNotStruct(t *testing.T) {
	_, err := (&Config{Dir: "testdata/broken"}).Load(context.Background(), ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Kind is not a struct")
}

func TestLoadNoPatterns(t *testing.T) {
	_, err := Load(context.Background())
	assert.EqualError(t, err, "load: no package patterns")
}

func TestLoadMissingPackage(t *testing.T) {
	_, err := (&Config{Dir: "testdata/todo"}).Load(context.Background(), "./nope")
	assert.Error(t, err)
}

func TestPresenceString(t *testing.T) {
	assert.Equal(t, "always", Always.String())
	assert.Equal(t, "non-nil", NonNil.String())
	assert.Equal(t, "valuer", Valuer.String())
}
