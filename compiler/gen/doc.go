// Package gen generates sql.HasFields methods for row structs.
//
// For every struct found by package load, a file <package>_fields.go is
// written next to the package sources holding three methods on the
// struct pointer:
//
//	func (r *Todo) FieldNames() []string
//	func (r *Todo) AllFields() sql.Fields
//	func (r *Todo) NotNoneFields() sql.Fields
//
// The methods match what schema/field computes by reflection, without
// the reflection. Files are rendered with jennifer and written by a
// bounded pool of workers:
//
//	cfg, err := gen.NewConfig(gen.WithWorkers(4))
//	if err != nil {
//		return err
//	}
//	pkgs, err := load.Load(ctx, "./...")
//	if err != nil {
//		return err
//	}
//	paths, err := gen.Generate(ctx, cfg, pkgs)
package gen
