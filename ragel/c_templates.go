package ragel

import (
	"fmt"
	"strconv"

	"github.com/Embrobusto/robusto/ast"
	"github.com/Embrobusto/robusto/gen"
)

// machineHeader renders the Ragel data block declaring one machine.
type machineHeader ast.MachineHeader

func (g machineHeader) PreTraverse(state *gen.State) ([]gen.Chunk, error) {
	ambient := state.Indent()
	return []gen.Chunk{
		{Code: "%%{", Indent: ambient, Newlines: 1},
		{Code: fmt.Sprintf("machine %s;", g.MachineName), Indent: ambient + 1, Newlines: 1},
		{Code: "write data;", Indent: ambient + 1, Newlines: 1},
		{Code: "%%}", Indent: ambient, Newlines: 2},
	}, nil
}

func (machineHeader) PostTraverse(*gen.State) ([]gen.Chunk, error) {
	return nil, nil
}

// messageStruct opens the C struct for one message; the members arrive as
// children.
type messageStruct ast.MessageStruct

func (g messageStruct) PreTraverse(state *gen.State) ([]gen.Chunk, error) {
	chunk := gen.Chunk{
		Code:     fmt.Sprintf("struct %s {", g.Name),
		Indent:   state.Indent(),
		Newlines: 1,
	}
	state.IncrementIndent(1)
	return []gen.Chunk{chunk}, nil
}

func (g messageStruct) PostTraverse(state *gen.State) ([]gen.Chunk, error) {
	state.IncrementIndent(-1)
	return []gen.Chunk{{Code: "};", Indent: state.Indent(), Newlines: 2}}, nil
}

// structMember renders one struct member with its C element type.
type structMember struct {
	gen.LeafGenerator
	member ast.MessageStructMember
	cType  string
}

func newStructMember(member ast.MessageStructMember) (structMember, error) {
	var cType string
	switch member.BaseType {
	case ast.ByteSequence:
		cType = "uint8_t"
	default:
		return structMember{}, fmt.Errorf("%w: %s (member %s)",
			ErrUnsupportedBaseType, member.BaseType, member.Name)
	}
	return structMember{member: member, cType: cType}, nil
}

func (g structMember) PreTraverse(state *gen.State) ([]gen.Chunk, error) {
	return []gen.Chunk{{
		Code:     fmt.Sprintf("%s %s[%d];", g.cType, g.member.Name, g.member.ArrayLength),
		Indent:   state.Indent(),
		Newlines: 1,
	}}, nil
}

// machineDefinition opens the Ragel block holding the per-field actions and
// matchers of one machine.
type machineDefinition ast.MachineDefinition

func (g machineDefinition) PreTraverse(state *gen.State) ([]gen.Chunk, error) {
	ambient := state.Indent()
	chunks := []gen.Chunk{
		{Code: "%%{", Indent: ambient, Newlines: 1},
		{Code: fmt.Sprintf("machine %s;", g.MachineName), Indent: ambient + 1, Newlines: 2},
	}
	state.IncrementIndent(1)
	return chunks, nil
}

func (g machineDefinition) PostTraverse(state *gen.State) ([]gen.Chunk, error) {
	state.IncrementIndent(-1)
	return []gen.Chunk{{Code: "%%}", Indent: state.Indent(), Newlines: 2}}, nil
}

// machineActionHook renders the action a field matcher fires into.
type machineActionHook ast.MachineActionHook

func (g machineActionHook) PreTraverse(state *gen.State) ([]gen.Chunk, error) {
	return []gen.Chunk{{
		Code:     fmt.Sprintf("action on_%s {}", g.Name),
		Indent:   state.Indent(),
		Newlines: 1,
	}}, nil
}

func (machineActionHook) PostTraverse(*gen.State) ([]gen.Chunk, error) {
	return nil, nil
}

// regexMachineField renders one field matcher bound to its action hook.
type regexMachineField ast.RegexMachineField

func (g regexMachineField) PreTraverse(state *gen.State) ([]gen.Chunk, error) {
	return []gen.Chunk{{
		Code:     fmt.Sprintf("%s = %s @on_%s;", g.Name, strconv.Quote(g.Regex), g.Name),
		Indent:   state.Indent(),
		Newlines: 1,
	}}, nil
}

func (regexMachineField) PostTraverse(*gen.State) ([]gen.Chunk, error) {
	return nil, nil
}

// parsingFunction renders the C entry point for one message's parser.
type parsingFunction ast.ParsingFunction

func (g parsingFunction) PreTraverse(state *gen.State) ([]gen.Chunk, error) {
	ambient := state.Indent()
	chunks := []gen.Chunk{
		{
			Code: fmt.Sprintf(
				"void parse%s(const char *aInputBuffer, int aInputBufferLength, struct %s *a%s)",
				g.MessageName, g.MessageName, g.MessageName),
			Indent:   ambient,
			Newlines: 1,
		},
		{Code: "{", Indent: ambient, Newlines: 1},
		// p, pe and cs are the Ragel-mandated iterator and state variables
		// for C output.
		{Code: "const char *p = aInputBuffer;", Indent: ambient + 1, Newlines: 1},
		{Code: "const char *pe = aInputBuffer + aInputBufferLength;", Indent: ambient + 1, Newlines: 1},
		{Code: "int cs;", Indent: ambient + 1, Newlines: 2},
		{Code: "%% write init;", Indent: ambient + 1, Newlines: 1},
		{Code: "%% write exec;", Indent: ambient + 1, Newlines: 1},
	}
	state.IncrementIndent(1)
	return chunks, nil
}

func (g parsingFunction) PostTraverse(state *gen.State) ([]gen.Chunk, error) {
	state.IncrementIndent(-1)
	return []gen.Chunk{{Code: "}", Indent: state.Indent(), Newlines: 2}}, nil
}
