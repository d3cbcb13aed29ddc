// Package ragel renders the common AST as Ragel state-machine code embedded
// in C, ready for the external ragel tool.
//
// The adapter walks the common tree once and rewrites every recognized
// payload into a precompiled raw-code payload carrying the C-specific text,
// leaving child ordering untouched. Renderings are cached per payload value,
// so a machine header appearing twice is compiled once. The same
// visit-recognize-replace contract is what a backend for any other target
// language implements; only the literal templates differ.
package ragel

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Embrobusto/robusto/ast"
	"github.com/Embrobusto/robusto/gen"
)

// ErrUnsupportedBaseType is returned when a struct member's base type has no
// C mapping.
var ErrUnsupportedBaseType = errors.New("ragel: unsupported member base type")

// ErrUnsupportedPayload is returned when the adapter meets a common AST
// payload kind it has no template for.
var ErrUnsupportedPayload = errors.New("ragel: unsupported common AST payload")

// CTarget adapts common AST trees into C/Ragel raw code. A single target may
// adapt independent trees concurrently; the rendering cache is the only
// shared state.
type CTarget struct {
	mu    sync.Mutex
	cache map[ast.Payload]*gen.RawCode
}

// NewCTarget returns a C target with an empty rendering cache.
func NewCTarget() *CTarget {
	return &CTarget{cache: make(map[ast.Payload]*gen.RawCode)}
}

// Adapt returns a new tree mirroring node's structure in which every common
// payload has been replaced by its precompiled C rendering. The input tree
// is not modified.
func (t *CTarget) Adapt(node *ast.Node) (*ast.Node, error) {
	payload, err := t.adaptPayload(node.Payload)
	if err != nil {
		return nil, err
	}

	adapted := &ast.Node{Payload: payload}
	if len(node.Children) > 0 {
		adapted.Children = make([]*ast.Node, len(node.Children))
		for i, child := range node.Children {
			adaptedChild, err := t.Adapt(child)
			if err != nil {
				return nil, err
			}
			adapted.Children[i] = adaptedChild
		}
	}
	return adapted, nil
}

func (t *CTarget) adaptPayload(payload ast.Payload) (ast.Payload, error) {
	switch payload.(type) {
	case ast.Root:
		// The placeholder has no rendering of its own.
		return payload, nil
	case ast.RawCode:
		// Already target-specific; splice it through as is.
		return payload, nil
	}

	t.mu.Lock()
	cached, ok := t.cache[payload]
	t.mu.Unlock()
	if ok {
		return ast.RawCode{Code: cached}, nil
	}

	generator, err := cGenerator(payload)
	if err != nil {
		return nil, err
	}
	raw, err := gen.Capture(generator)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	// Keep the first rendering if another traversal beat us to it, so that
	// equal payloads always share one raw-code value.
	if cached, ok := t.cache[payload]; ok {
		raw = cached
	} else {
		t.cache[payload] = raw
	}
	t.mu.Unlock()
	return ast.RawCode{Code: raw}, nil
}

// cGenerator selects the C template for one payload kind.
func cGenerator(payload ast.Payload) (gen.Generator, error) {
	switch payload := payload.(type) {
	case ast.MachineHeader:
		return machineHeader(payload), nil
	case ast.MessageStruct:
		return messageStruct(payload), nil
	case ast.MessageStructMember:
		return newStructMember(payload)
	case ast.MachineDefinition:
		return machineDefinition(payload), nil
	case ast.ParsingFunction:
		return parsingFunction(payload), nil
	case ast.RegexMachineField:
		return regexMachineField(payload), nil
	case ast.MachineActionHook:
		return machineActionHook(payload), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedPayload, payload)
	}
}
