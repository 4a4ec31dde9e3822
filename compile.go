package boxsql

import (
	"context"

	"github.com/zoobzio/pipz"
	"github.com/zoobzio/zlog"

	"github.com/boxsql/boxsql/internal/annotate"
	"github.com/boxsql/boxsql/internal/link"
	"github.com/boxsql/boxsql/internal/resolve"
	"github.com/boxsql/boxsql/internal/types"
)

// AnnotatedTree is Compile's result: the annotated root (always a Box) and
// every box the annotator produced, in construction order.
type AnnotatedTree struct {
	Root  types.Node
	Boxes []*types.BoxNode
}

// compileState threads through the three pipz-wrapped passes; only root
// is set going in, result is filled by the first pass and mutated in
// place by the other two (they write Handle/Type/Refs onto the boxes
// result already references, per spec.md 5: boxes are mutated only by
// their own pass).
type compileState struct {
	root   types.Node
	result *annotate.Result
}

var annotatePass = pipz.Apply[*compileState]("boxsql-annotate", func(ctx context.Context, s *compileState) (*compileState, error) {
	res, err := annotate.Annotate(s.root)
	if err != nil {
		return s, err
	}
	s.result = res
	zlog.Debug(ctx, "annotate complete", zlog.Int("boxes", len(res.Boxes)))
	return s, nil
})

var resolvePass = pipz.Apply[*compileState]("boxsql-resolve", func(ctx context.Context, s *compileState) (*compileState, error) {
	if err := resolve.Run(s.result); err != nil {
		return s, err
	}
	zlog.Debug(ctx, "resolve complete", zlog.Int("boxes", len(s.result.Boxes)))
	return s, nil
})

var linkPass = pipz.Apply[*compileState]("boxsql-link", func(ctx context.Context, s *compileState) (*compileState, error) {
	if err := link.Run(s.result); err != nil {
		return s, err
	}
	zlog.Debug(ctx, "link complete", zlog.Int("boxes", len(s.result.Boxes)))
	return s, nil
})

// Compile runs the annotator, type resolver, and reference linker over
// root, in that order, and returns the fully-decorated annotated tree.
// root must be a tabular node (every query starts with one); a nil root
// compiles to a single empty box.
func Compile(root types.Node) (*AnnotatedTree, error) {
	ctx := context.Background()
	state := &compileState{root: root}

	for _, pass := range []func(context.Context, *compileState) (*compileState, error){
		annotatePass.Process, resolvePass.Process, linkPass.Process,
	} {
		var err error
		state, err = pass(ctx, state)
		if err != nil {
			zlog.Error(ctx, "compile failed", zlog.String("error", err.Error()))
			return nil, wrapError(err)
		}
	}

	return &AnnotatedTree{Root: state.result.Root, Boxes: state.result.Boxes}, nil
}
