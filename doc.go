// Package boxsql compiles a combinator-style operator tree — From, Where,
// Select, Join, Group, Partition, Append, and friends — into an annotated
// tree where every tabular node is wrapped in a Box carrying a resolved
// row type and a validated, routed set of demanded column references.
//
// Compile runs three passes in order: annotation (internal/annotate),
// type resolution (internal/resolve), and reference linking
// (internal/link). Building the operator tree itself, and turning the
// compiled result back into SQL text, are both left to callers — this
// package is the middle end only.
package boxsql
