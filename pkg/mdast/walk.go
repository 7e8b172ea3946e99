package mdast

import "errors"

// WalkFunc is the function signature for Walk callbacks.
// Returning SkipChildren skips the node's subtree; any other non-nil
// error stops the walk and is returned from Walk.
type WalkFunc func(n *Node) error

// SkipChildren tells Walk not to descend into the current node.
var SkipChildren = errors.New("skip children")

// errStopWalk stops a walk early without surfacing an error.
var errStopWalk = errors.New("stop walk")

// Walk performs a pre-order traversal of the AST starting at root.
func Walk(root *Node, fn WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := fn(root); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}

	for child := root.FirstChild; child != nil; child = child.Next {
		if err := Walk(child, fn); err != nil {
			return err
		}
	}

	return nil
}

// FindAll returns all nodes matching the predicate, in document order.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node

	//nolint:errcheck // the callback never fails
	Walk(root, func(n *Node) error {
		if predicate(n) {
			result = append(result, n)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate, or nil.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	var found *Node

	//nolint:errcheck // errStopWalk is the expected early exit
	Walk(root, func(n *Node) error {
		if predicate(n) {
			found = n
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByKind returns all nodes of the specified kinds.
func FindByKind(root *Node, kinds ...NodeKind) []*Node {
	return FindAll(root, func(n *Node) bool {
		for _, k := range kinds {
			if n.Kind == k {
				return true
			}
		}
		return false
	})
}
