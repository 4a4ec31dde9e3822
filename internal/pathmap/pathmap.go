// Package pathmap records a traceback from every annotated node to the
// original user node that produced it, so compile errors can report the
// user's own operator expressions leading to the offender instead of the
// internal, rewritten tree.
package pathmap

import "github.com/boxsql/boxsql/internal/types"

type entry struct {
	node   types.Node
	parent int
}

// PathMap is a tree of user-visible positions (entries) plus an
// identity-keyed index from annotated nodes to the position they
// originated at. The annotator drives it with Grow/Shrink as it walks the
// user tree depth-first; Grow/Shrink together act as the "current_path"
// stack spec.md 4.1 describes, represented here as parent-linked arena
// indices rather than a slice, so MarkOrigin can cheaply capture "the
// current position" without copying a path.
type PathMap struct {
	entries []entry
	top     int
	origins map[types.Node]int
}

// New returns an empty PathMap positioned at the (implicit) root.
func New() *PathMap {
	return &PathMap{top: -1, origins: make(map[types.Node]int)}
}

// Grow appends node as a child of the current position and makes it the
// new current position.
func (pm *PathMap) Grow(node types.Node) {
	pm.entries = append(pm.entries, entry{node: node, parent: pm.top})
	pm.top = len(pm.entries) - 1
}

// Shrink pops back to the parent of the current position.
func (pm *PathMap) Shrink() {
	if pm.top == -1 {
		return
	}
	pm.top = pm.entries[pm.top].parent
}

// MarkOrigin records that the annotated node n originated at the current
// position. Identity (map key is the Node interface value, which for our
// pointer-typed node kinds compares by address) distinguishes two copies
// of the same sub-query placed at different positions.
func (pm *PathMap) MarkOrigin(n types.Node) {
	pm.origins[n] = pm.top
}

// OriginIndex returns the position index n originated at, if any.
func (pm *PathMap) OriginIndex(n types.Node) (int, bool) {
	idx, ok := pm.origins[n]
	return idx, ok
}

// NodeAt returns the user node stored at position idx.
func (pm *PathMap) NodeAt(idx int) types.Node {
	return pm.entries[idx].node
}

// PathOf returns the list of user nodes from n's origin up to the root,
// leaf first — the error-report stack trace.
func (pm *PathMap) PathOf(n types.Node) []types.Node {
	idx, ok := pm.origins[n]
	if !ok {
		return nil
	}
	return pm.pathFrom(idx)
}

// CurrentPath returns the path from the current position up to the root,
// leaf first. The annotator uses this to build an error's Path at the
// point of failure, before any annotated node exists to look up via
// PathOf: the offending user node is already the current position.
func (pm *PathMap) CurrentPath() []types.Node {
	return pm.pathFrom(pm.top)
}

func (pm *PathMap) pathFrom(idx int) []types.Node {
	var path []types.Node
	for idx != -1 {
		path = append(path, pm.entries[idx].node)
		idx = pm.entries[idx].parent
	}
	return path
}
