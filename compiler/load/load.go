// Package load finds row structs marked for field generation in Go
// packages.
//
// A struct is selected when its doc comment contains the directive
// sqlb:fields:
//
//	// Todo is a row of the todo table.
//	//
//	// sqlb:fields
//	type Todo struct {
//	    ID    int64 `sqlb:"id"`
//	    Title string
//	}
//
// Columns are named the same way the runtime reflection in schema/field
// names them, so generated and reflected fields always agree.
package load

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/syssam/sqlb/internal/structinfo"
)

// Directive marks a struct for generation.
const Directive = "sqlb:fields"

// Presence tells how a field value is checked for presence.
type Presence int

const (
	// Always fields are always present.
	Always Presence = iota
	// NonNil fields are pointers, slices, maps or interfaces, absent when nil.
	NonNil
	// Valuer fields implement driver.Valuer and are absent when it reports NULL.
	Valuer
)

// String returns the presence name.
func (p Presence) String() string {
	switch p {
	case NonNil:
		return "non-nil"
	case Valuer:
		return "valuer"
	default:
		return "always"
	}
}

type (
	// Package is a loaded Go package with its marked structs.
	Package struct {
		Name    string
		PkgPath string
		Dir     string
		Structs []*Struct
	}

	// Struct is a marked row struct.
	Struct struct {
		Name   string
		Pos    string
		Fields []*Field
	}

	// Field is a column of a row struct.
	Field struct {
		// Path is the selector path from the struct to the field,
		// including the names of flattened embedded structs.
		Path []string
		// Column is the column name.
		Column string
		// Type is the field type relative to its package.
		Type string
		// Presence tells how absence is detected.
		Presence Presence
		// Guards are the selector paths of embedded struct pointers
		// that must be non-nil to reach the field.
		Guards [][]string
	}
)

// Name returns the Go name of the field.
func (f *Field) Name() string {
	return f.Path[len(f.Path)-1]
}

// Config configures package loading.
type Config struct {
	// Dir is the directory patterns are resolved in. Empty means the
	// current directory.
	Dir string
	// BuildFlags are passed to the build system.
	BuildFlags []string
}

const mode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
	packages.NeedTypes | packages.NeedTypesInfo

// Load loads the packages matching patterns and returns those that
// contain at least one marked struct.
func (c *Config) Load(ctx context.Context, patterns ...string) ([]*Package, error) {
	if len(patterns) == 0 {
		return nil, errors.New("load: no package patterns")
	}
	pkgs, err := packages.Load(&packages.Config{
		Context:    ctx,
		Mode:       mode,
		Dir:        c.Dir,
		BuildFlags: c.BuildFlags,
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load: loading packages: %w", err)
	}
	var errs []error
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			errs = append(errs, e)
		}
	})
	if len(errs) > 0 {
		return nil, fmt.Errorf("load: %w", errors.Join(errs...))
	}
	var out []*Package
	for _, p := range pkgs {
		structs, err := structsOf(p)
		if err != nil {
			return nil, err
		}
		if len(structs) == 0 {
			continue
		}
		pkg := &Package{Name: p.Name, PkgPath: p.PkgPath, Structs: structs}
		if len(p.GoFiles) > 0 {
			pkg.Dir = filepath.Dir(p.GoFiles[0])
		}
		out = append(out, pkg)
	}
	return out, nil
}

// Load loads the packages matching patterns with the default config.
func Load(ctx context.Context, patterns ...string) ([]*Package, error) {
	return (&Config{}).Load(ctx, patterns...)
}

func structsOf(p *packages.Package) ([]*Struct, error) {
	var structs []*Struct
	for _, file := range p.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				if !marked(doc) {
					continue
				}
				pos := p.Fset.Position(ts.Pos()).String()
				obj := p.TypesInfo.Defs[ts.Name]
				if obj == nil {
					continue
				}
				if ts.TypeParams != nil && ts.TypeParams.NumFields() > 0 {
					return nil, fmt.Errorf("load: %s: generic type %s cannot be marked with %s", pos, ts.Name.Name, Directive)
				}
				st, ok := obj.Type().Underlying().(*types.Struct)
				if !ok {
					return nil, fmt.Errorf("load: %s: %s is not a struct", pos, ts.Name.Name)
				}
				qual := types.RelativeTo(p.Types)
				s := &Struct{Name: ts.Name.Name, Pos: pos}
				seen := make(map[string]bool)
				for _, f := range fields(st, nil, nil, qual) {
					key := strings.ToLower(f.Column)
					if seen[key] {
						continue
					}
					seen[key] = true
					s.Fields = append(s.Fields, f)
				}
				structs = append(structs, s)
			}
		}
	}
	return structs, nil
}

func marked(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(c.Text, "//"), "/*"))
		if strings.HasPrefix(text, Directive) {
			return true
		}
	}
	return false
}

func fields(st *types.Struct, path []string, guards [][]string, qual types.Qualifier) []*Field {
	var out []*Field
	for i := 0; i < st.NumFields(); i++ {
		v := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))
		col, skip := structinfo.ColumnName(v.Name(), tag)
		if skip {
			continue
		}
		p := append(append([]string(nil), path...), v.Name())
		if inner, ptr := embedded(v, tag); inner != nil {
			g := guards
			if ptr {
				g = append(append([][]string(nil), guards...), p)
			}
			out = append(out, fields(inner, p, g, qual)...)
			continue
		}
		if !v.Exported() {
			continue
		}
		out = append(out, &Field{
			Path:     p,
			Column:   col,
			Type:     types.TypeString(v.Type(), qual),
			Presence: presenceOf(v.Type()),
			Guards:   guards,
		})
	}
	return out
}

// embedded returns the struct of an untagged embedded field and whether
// it is embedded by pointer.
func embedded(v *types.Var, tag reflect.StructTag) (*types.Struct, bool) {
	if !v.Embedded() || structinfo.Tagged(tag) {
		return nil, false
	}
	t, ptr := v.Type(), false
	if p, ok := t.(*types.Pointer); ok {
		if !v.Exported() {
			return nil, false
		}
		t, ptr = p.Elem(), true
	}
	if isTime(t) {
		return nil, false
	}
	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return nil, false
	}
	return st, ptr
}

func isTime(t types.Type) bool {
	n, ok := t.(*types.Named)
	if !ok {
		return false
	}
	obj := n.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == "time" && obj.Name() == "Time"
}

func presenceOf(t types.Type) Presence {
	switch t.Underlying().(type) {
	case *types.Pointer, *types.Slice, *types.Map, *types.Interface:
		return NonNil
	}
	if isValuer(t) {
		return Valuer
	}
	return Always
}

// isValuer reports whether t has a driver.Valuer shaped Value method.
func isValuer(t types.Type) bool {
	sel := types.NewMethodSet(t).Lookup(nil, "Value")
	if sel == nil {
		return false
	}
	sig, ok := sel.Type().(*types.Signature)
	return ok && sig.Params().Len() == 0 && sig.Results().Len() == 2
}
