package gen

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/syssam/sqlb/compiler/load"
)

const (
	sqlPkg   = "github.com/syssam/sqlb/dialect/sql"
	fieldPkg = "github.com/syssam/sqlb/schema/field"
)

// FileName returns the name of the file generated for pkg.
func (c *Config) FileName(pkg *load.Package) string {
	return pkg.Name + c.Suffix
}

// Render builds the generated file of pkg.
func (c *Config) Render(pkg *load.Package) *jen.File {
	f := jen.NewFilePathName(pkg.PkgPath, pkg.Name)
	f.HeaderComment(c.Header)
	f.ImportName(sqlPkg, "sql")
	f.ImportName(fieldPkg, "field")
	for _, s := range pkg.Structs {
		genStruct(f, s)
	}
	return f
}

// Source returns the formatted source of the file generated for pkg.
func (c *Config) Source(pkg *load.Package) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(pkg).Render(&buf); err != nil {
		return nil, &GenerationError{Package: pkg.PkgPath, File: c.FileName(pkg), Cause: err}
	}
	src, err := imports.Process(c.FileName(pkg), buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, &GenerationError{Package: pkg.PkgPath, File: c.FileName(pkg), Cause: err}
	}
	return src, nil
}

// Generate writes one file per package next to its sources, rendering
// up to c.Workers files in parallel. It returns the written paths in
// package order.
func Generate(ctx context.Context, c *Config, pkgs []*load.Package) ([]string, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "missing config")
	}
	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	log := c.logger()
	paths := make([]string, len(pkgs))
	var mu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, pkg := range pkgs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if pkg.Dir == "" {
				return &GenerationError{Package: pkg.PkgPath, Cause: errors.New("package has no directory")}
			}
			path := filepath.Join(pkg.Dir, c.FileName(pkg))
			if err := c.writeFile(path, pkg); err != nil {
				return err
			}
			mu.Lock()
			paths[i] = path
			mu.Unlock()
			log.DebugContext(ctx, "generated fields", "package", pkg.PkgPath, "file", path, "structs", len(pkg.Structs))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (c *Config) writeFile(path string, pkg *load.Package) error {
	src, err := c.Source(pkg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &GenerationError{Package: pkg.PkgPath, File: path, Cause: err}
	}
	// Unchanged files are left alone so watchers do not see a write.
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, src) {
		return nil
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return &GenerationError{Package: pkg.PkgPath, File: path, Cause: err}
	}
	return nil
}

func genStruct(f *jen.File, s *load.Struct) {
	recv := func() *jen.Statement { return jen.Id("r").Op("*").Id(s.Name) }

	f.Var().Id("_").Qual(sqlPkg, "HasFields").Op("=").Parens(jen.Op("*").Id(s.Name)).Call(jen.Nil())
	f.Line()

	names := make([]jen.Code, len(s.Fields))
	for i, fd := range s.Fields {
		names[i] = jen.Lit(fd.Column)
	}
	f.Commentf("FieldNames returns the column names of %s.", s.Name)
	f.Func().Params(recv()).Id("FieldNames").Params().Index().String().Block(
		jen.Return(jen.Index().String().Values(names...)),
	)
	f.Line()

	f.Commentf("AllFields returns every field of %s. Absent values are bound as NULL.", s.Name)
	f.Func().Params(recv()).Id("AllFields").Params().Qual(sqlPkg, "Fields").BlockFunc(func(g *jen.Group) {
		fieldsBody(g, s, true)
	})
	f.Line()

	f.Commentf("NotNoneFields returns the fields of %s whose value is present.", s.Name)
	f.Func().Params(recv()).Id("NotNoneFields").Params().Qual(sqlPkg, "Fields").BlockFunc(func(g *jen.Group) {
		fieldsBody(g, s, false)
	})
}

func fieldsBody(g *jen.Group, s *load.Struct, all bool) {
	g.Id("fs").Op(":=").Make(jen.Qual(sqlPkg, "Fields"), jen.Lit(0), jen.Lit(len(s.Fields)))
	for _, fd := range s.Fields {
		bind := jen.Id("fs").Op("=").Append(jen.Id("fs"), jen.Qual(sqlPkg, "F").Call(jen.Lit(fd.Column), selector(fd.Path)))
		cond := condition(fd)
		switch {
		case cond == nil:
			g.Add(bind)
		case all:
			null := jen.Id("fs").Op("=").Append(jen.Id("fs"), jen.Qual(sqlPkg, "NewField").Call(jen.Lit(fd.Column), jen.Qual(sqlPkg, "Null")))
			g.If(cond).Block(bind).Else().Block(null)
		default:
			g.If(cond).Block(bind)
		}
	}
	g.Return(jen.Id("fs"))
}

func selector(path []string) *jen.Statement {
	s := jen.Id("r")
	for _, p := range path {
		s = s.Dot(p)
	}
	return s
}

// condition returns the expression a field is present under, or nil
// when it always is.
func condition(fd *load.Field) *jen.Statement {
	var conds []*jen.Statement
	for _, guard := range fd.Guards {
		conds = append(conds, selector(guard).Op("!=").Nil())
	}
	switch fd.Presence {
	case load.NonNil:
		conds = append(conds, selector(fd.Path).Op("!=").Nil())
	case load.Valuer:
		conds = append(conds, jen.Qual(fieldPkg, "Present").Call(selector(fd.Path)))
	}
	if len(conds) == 0 {
		return nil
	}
	expr := conds[0]
	for _, c := range conds[1:] {
		expr = expr.Op("&&").Add(c)
	}
	return expr
}
