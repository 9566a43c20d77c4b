// Package field derives statement fields from row structs by reflection.
//
// It is the default implementation of sql.HasFields for types that do not
// carry generated methods:
//
//	type Todo struct {
//	    ID          int64   `sqlb:"id"`
//	    Title       string  // title
//	    Description *string // description
//	    CreatedBy   int64   // created_by
//	    Cache       []byte  `sqlb:"-"`
//	}
//
//	sql.Insert("todo").Data(field.NotNone(&todo)...)
//	sql.Update("todo").Data(field.All(todo)...).AndWhereEq("id", todo.ID)
//
// # Column Names
//
// A field is named by its `sqlb` tag, then its `db` tag, then its Go name
// converted to snake_case (CreatedBy → created_by, UserID → user_id).
// The tag value "-" and the "skip" option leave a field out. Unexported
// fields are ignored and untagged embedded structs are flattened.
//
// # Absent Values
//
// A value is absent if it is a nil pointer, slice or map, or a
// driver.Valuer reporting NULL, such as an invalid sql.NullString.
// All binds absent values as NULL; NotNone leaves them out, which lets
// the database apply column defaults on INSERT and keeps columns as
// they are on UPDATE.
package field
