// Package handle assigns and looks up the small positive integer handles
// that let an outer scalar reference address an inner tabular node.
package handle

import (
	"github.com/boxsql/boxsql/internal/pathmap"
	"github.com/boxsql/boxsql/internal/types"
)

// Allocator assigns a handle to a tabular node's identity, lazily: a
// handle is minted only the first time MakeHandle sees that node, which
// the annotator calls only when some scalar reference actually navigates
// out to it.
type Allocator struct {
	next types.Handle
	ids  map[types.Node]types.Handle
}

// New returns an Allocator with no handles assigned yet.
func New() *Allocator {
	return &Allocator{next: 1, ids: make(map[types.Node]types.Handle)}
}

// MakeHandle returns q's handle, minting a new one the first time q is
// seen. Handles are assigned per original user-tree identity, so a
// sub-query copied into two positions gets two distinct handles.
func (a *Allocator) MakeHandle(q types.Node) types.Handle {
	if q == nil {
		return types.NoHandle
	}
	if h, ok := a.ids[q]; ok {
		return h
	}
	h := a.next
	a.next++
	a.ids[q] = h
	return h
}

// Lookup returns q's handle without minting one.
func (a *Allocator) Lookup(q types.Node) (types.Handle, bool) {
	h, ok := a.ids[q]
	return h, ok
}

// GetHandle returns the handle of the original user node that produced
// the annotated node n, translating through pm per spec.md 4.2: handles
// are stable per original identity, so looking one up for an annotated
// node means walking back to where it came from first.
func GetHandle(pm *pathmap.PathMap, alloc *Allocator, n types.Node) types.Handle {
	if n == nil {
		return types.NoHandle
	}
	idx, ok := pm.OriginIndex(n)
	if !ok {
		return types.NoHandle
	}
	original := pm.NodeAt(idx)
	h, ok := alloc.Lookup(original)
	if !ok {
		return types.NoHandle
	}
	return h
}
