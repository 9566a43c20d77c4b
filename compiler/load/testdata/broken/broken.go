package broken

// Kind is marked but is not a struct.
//
// sqlb:fields
type Kind int
