// Package ast models the common abstract syntax tree: a language-agnostic
// intermediate representation of the procedural constructs a generated
// parser is made of.
//
// The tree is less detailed than a real AST for any one language; its leaves
// are recurring patterns (a state-machine header, a message struct, a parsing
// function) rather than atomic syntax. To render for a language that supports
// C-like structs, functions, and mutable pointers, a backend adapter rewrites
// each payload into precompiled target code and hands the tree to the
// generation engine.
package ast

import (
	"errors"
	"fmt"

	"github.com/Embrobusto/robusto/gen"
)

// ErrNotAdapted is returned when a common payload reaches the generation
// engine without having been rewritten by a backend adapter. This indicates
// an incomplete adapter, not a recoverable input problem.
var ErrNotAdapted = errors.New("ast: payload was not rewritten by a backend adapter")

// Payload is the kind-specific content of a node. The variant set is closed
// within this package; a new variant requires a matching arm in the builder
// and in each backend adapter.
type Payload interface {
	payload()
}

// Root is the empty placeholder payload of a tree's top node.
type Root struct{}

// MachineHeader declares the state machine generated for one message.
type MachineHeader struct {
	MachineName string
}

// MessageStruct declares the struct holding one parsed message. Its children
// are MessageStructMember nodes, one per field, in field order.
type MessageStruct struct {
	Name string
}

// MemberBaseType is the language-agnostic element type of a struct member.
type MemberBaseType int8

const (
	// ByteSequence is an array of raw bytes.
	ByteSequence MemberBaseType = 1 + iota
)

func (t MemberBaseType) String() string {
	switch t {
	case ByteSequence:
		return "byte-sequence"
	default:
		return fmt.Sprintf("base-type(%d)", int8(t))
	}
}

// MessageStructMember declares one member of a message struct.
type MessageStructMember struct {
	Name     string
	BaseType MemberBaseType

	// ArrayLength is the member's storage bound: the field's resolved
	// MaxLength.
	ArrayLength int
}

// MachineDefinition holds the machine body for one message: per field, one
// MachineActionHook followed by one field-matcher node.
type MachineDefinition struct {
	MachineName string
}

// ParsingFunction is the entry point of the generated parser for one message.
type ParsingFunction struct {
	MessageName string
}

// RegexMachineField matches a field against a literal or pattern byte
// sequence. Name doubles as the identifier shared with the field's action
// hook.
type RegexMachineField struct {
	Name  string
	Regex string
}

// MachineActionHook is the user-code attachment point invoked when the field
// of the same name matches.
type MachineActionHook struct {
	Name string
}

// RawCode is a backend-rewritten payload carrying precompiled target code.
type RawCode struct {
	Code *gen.RawCode
}

func (Root) payload()                {}
func (MachineHeader) payload()       {}
func (MessageStruct) payload()       {}
func (MessageStructMember) payload() {}
func (MachineDefinition) payload()   {}
func (ParsingFunction) payload()     {}
func (RegexMachineField) payload()   {}
func (MachineActionHook) payload()   {}
func (RawCode) payload()             {}

// Node is one node of the common AST: a payload plus owned children in
// visit order.
type Node struct {
	Payload  Payload
	Children []*Node
}

// AddChild appends a child with the given payload and returns it.
func (n *Node) AddChild(payload Payload) *Node {
	child := &Node{Payload: payload}
	n.Children = append(n.Children, child)
	return child
}

// Walk visits the tree depth-first. enter runs before a node's children and
// exit after; either may be nil. An error aborts the walk.
func Walk(node *Node, enter, exit func(*Node) error) error {
	if enter != nil {
		if err := enter(node); err != nil {
			return err
		}
	}
	for _, child := range node.Children {
		if err := Walk(child, enter, exit); err != nil {
			return err
		}
	}
	if exit != nil {
		return exit(node)
	}
	return nil
}

// PreTraverse implements gen.Generator. Only Root and RawCode payloads are
// renderable; anything else should have been rewritten by a backend adapter
// first, and failing on it here keeps an incomplete rewrite from silently
// corrupting the output.
func (n *Node) PreTraverse(state *gen.State) ([]gen.Chunk, error) {
	switch payload := n.Payload.(type) {
	case Root:
		return nil, nil
	case RawCode:
		return payload.Code.PreTraverse(state)
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotAdapted, n.Payload)
	}
}

// PostTraverse implements gen.Generator.
func (n *Node) PostTraverse(state *gen.State) ([]gen.Chunk, error) {
	switch payload := n.Payload.(type) {
	case Root:
		return nil, nil
	case RawCode:
		return payload.Code.PostTraverse(state)
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotAdapted, n.Payload)
	}
}

// Subnodes implements gen.Node.
func (n *Node) Subnodes() []gen.Node {
	if len(n.Children) == 0 {
		return nil
	}
	subnodes := make([]gen.Node, len(n.Children))
	for i, child := range n.Children {
		subnodes[i] = child
	}
	return subnodes
}

var _ gen.Node = (*Node)(nil)
