// Copyright 2026 Converter Systems LLC. All rights reserved.

package browse

import (
	"context"

	"github.com/awcullen/uatools/session"
	"github.com/gammazero/deque"
	"github.com/go-logr/logr"
)

// DefaultMaxDepth is the depth below which nodes are not listed.
const DefaultMaxDepth = 5

// Navigator lists the children of a node. *session.Session is a Navigator.
type Navigator interface {
	Children(ctx context.Context, parent session.Node) ([]session.Node, error)
}

var _ Navigator = (*session.Session)(nil)

// Walker walks the address space below a start node.
type Walker struct {
	// Children of nodes at a depth greater than MaxDepth are not listed.
	MaxDepth int
	Log      logr.Logger
}

// NewWalker returns a Walker with the default depth limit that logs nothing.
func NewWalker() *Walker {
	return &Walker{MaxDepth: DefaultMaxDepth, Log: logr.Discard()}
}

type pending struct {
	node   session.Node
	parent string
	depth  int
}

// Walk lists the descendants of start in depth-first pre-order, children in the order the navigator
// returns them. A node whose children cannot be listed contributes one error record and no descendants;
// the walk continues with the remaining nodes. If ctx is done, the records found so far are returned with
// the context's error.
func (w *Walker) Walk(ctx context.Context, nav Navigator, start session.Node) ([]Record, error) {
	records := []Record{}
	stack := deque.Deque[pending]{}

	// expand lists the children of n, found at the given depth, and schedules them in server order.
	expand := func(n session.Node, path string, depth int) {
		if depth > w.MaxDepth {
			return
		}
		if !n.Resolved() {
			w.Log.V(1).Info("not listing children of unmapped node", "node", n.String(), "path", path)
			return
		}
		children, err := nav.Children(ctx, n)
		if err != nil {
			w.Log.V(1).Info("error listing children", "node", n.String(), "path", path, "error", err.Error())
			records = append(records, errorRecord(err, path, depth))
			return
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack.PushBack(pending{children[i], path, depth})
		}
	}

	if err := ctx.Err(); err != nil {
		return records, err
	}
	expand(start, "", 0)
	for stack.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		p := stack.PopBack()
		path := joinPath(p.parent, p.node.BrowseName.Name)
		records = append(records, newRecord(p.node, path, p.depth))
		expand(p.node, path, p.depth+1)
	}
	return records, ctx.Err()
}
