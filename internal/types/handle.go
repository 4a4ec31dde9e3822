package types

// Handle is the small positive integer identity assigned to a tabular node
// that some outer scalar reference addresses. Zero means "not addressed by
// any outer reference."
type Handle int

// NoHandle is the zero value meaning "this box is not outer-referenced."
const NoHandle Handle = 0
