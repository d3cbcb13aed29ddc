// Package gen is a generic tree-based code generation engine.
//
// A node contributes code in two hooks: PreTraverse runs before the node's
// children are visited and PostTraverse after. Both may emit chunks and
// adjust the shared indent counter. The engine owns a single traversal law:
//
//	Generate(n) = Pre(n) ++ Generate(children, in order) ++ Post(n)
//
// Every node must leave the indent counter where it found it once Post
// completes; siblings rely on that to render at a predictable depth.
package gen

import "github.com/Embrobusto/robusto/internal/logging"

// Chunk is one emittable unit of code: its text, the indent depth its lines
// are rendered at, and the number of newlines appended after it. Chunks are
// accumulated in traversal order and never reordered.
type Chunk struct {
	Code     string
	Indent   int
	Newlines int
}

// State is the single mutable value threaded through a traversal: the
// current indent depth. It is owned exclusively by the one in-flight
// traversal.
type State struct {
	indent int
}

// NewState returns a state at indent depth zero.
func NewState() *State {
	return &State{}
}

// Indent returns the current indent depth.
func (s *State) Indent() int {
	return s.indent
}

// IncrementIndent adjusts the indent depth by delta. A decrement below zero
// indicates an unbalanced generator; the depth is clamped to zero and the
// event is logged rather than corrupting every following chunk.
func (s *State) IncrementIndent(delta int) {
	if delta < 0 && s.indent < -delta {
		logging.Logger.Warn().
			Int("indent", s.indent).
			Int("delta", delta).
			Msg("indent decrement below zero, clamping")
		s.indent = 0
		return
	}
	s.indent += delta
}

// Generator contributes code chunks around a subtree visit.
type Generator interface {
	// PreTraverse emits the chunks that precede the node's children. It may
	// increase the indent for the children's benefit.
	PreTraverse(state *State) ([]Chunk, error)

	// PostTraverse emits the chunks that follow the node's children,
	// typically closing whatever bracketed construct PreTraverse opened,
	// and reverts any indent change PreTraverse made.
	PostTraverse(state *State) ([]Chunk, error)
}

// LeafGenerator provides the default PostTraverse: no chunks, no indent
// change. Embed it in generators only meant to be used as leaves.
type LeafGenerator struct{}

func (LeafGenerator) PostTraverse(*State) ([]Chunk, error) {
	return nil, nil
}

// Node is a Generator with ordered children.
type Node interface {
	Generator

	// Subnodes returns the node's children in visit order.
	Subnodes() []Node
}

// Generate traverses the tree depth-first and returns its chunk sequence.
// A node failing either hook aborts the whole pass; a failed hook usually
// means a backend adapter left a node it does not understand in the tree,
// which is a correctness bug rather than a recoverable input problem.
func Generate(node Node, state *State) ([]Chunk, error) {
	chunks, err := node.PreTraverse(state)
	if err != nil {
		return nil, err
	}
	for _, subnode := range node.Subnodes() {
		subnodeChunks, err := Generate(subnode, state)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, subnodeChunks...)
	}
	postChunks, err := node.PostTraverse(state)
	if err != nil {
		return nil, err
	}
	return append(chunks, postChunks...), nil
}
