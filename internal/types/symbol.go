package types

// Symbol is the name vocabulary of the operator tree: table labels, field
// names, defined labels, handle-bound field names. It is a plain string
// wrapper so label maps stay readable in tests and error messages.
type Symbol string
