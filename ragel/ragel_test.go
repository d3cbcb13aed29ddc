package ragel_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Embrobusto/robusto/ast"
	"github.com/Embrobusto/robusto/bpir"
	"github.com/Embrobusto/robusto/gen"
	"github.com/Embrobusto/robusto/ragel"
)

func testProtocol() *bpir.Protocol {
	return &bpir.Protocol{
		Messages: []bpir.Message{
			{
				Name: "TestMessage",
				Fields: []bpir.Field{
					{Name: "preamble", Type: bpir.RegexFieldType{Regex: "\xfe"}},
				},
			},
		},
	}
}

func generateC(t *testing.T, protocol *bpir.Protocol) string {
	t.Helper()

	tree, err := ast.FromProtocol(protocol)
	require.NoError(t, err)

	adapted, err := ragel.NewCTarget().Adapt(tree)
	require.NoError(t, err)

	chunks, err := gen.Generate(adapted, gen.NewState())
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, gen.Writer{}.Write(&out, chunks))
	return out.String()
}

func TestAdaptRewritesEveryPayload(t *testing.T) {
	t.Parallel()

	// Completeness check: the builder emits every common payload kind for a
	// regex-typed protocol, and none of them may survive adaptation.
	tree, err := ast.FromProtocol(testProtocol())
	require.NoError(t, err)

	adapted, err := ragel.NewCTarget().Adapt(tree)
	require.NoError(t, err)

	err = ast.Walk(adapted, func(node *ast.Node) error {
		switch node.Payload.(type) {
		case ast.Root, ast.RawCode:
			return nil
		default:
			t.Errorf("payload %T survived adaptation", node.Payload)
			return nil
		}
	}, nil)
	require.NoError(t, err)
}

func TestAdaptLeavesInputTreeUntouched(t *testing.T) {
	t.Parallel()

	tree, err := ast.FromProtocol(testProtocol())
	require.NoError(t, err)

	_, err = ragel.NewCTarget().Adapt(tree)
	require.NoError(t, err)

	assert.Equal(t, ast.MachineHeader{MachineName: "TestMessage"}, tree.Children[0].Payload)
}

func TestAdaptCachesRenderings(t *testing.T) {
	t.Parallel()

	target := ragel.NewCTarget()

	tree := &ast.Node{Payload: ast.Root{}}
	tree.AddChild(ast.MachineHeader{MachineName: "TestMessage"})
	tree.AddChild(ast.MachineHeader{MachineName: "TestMessage"})

	adapted, err := target.Adapt(tree)
	require.NoError(t, err)

	first, ok := adapted.Children[0].Payload.(ast.RawCode)
	require.True(t, ok)
	second, ok := adapted.Children[1].Payload.(ast.RawCode)
	require.True(t, ok)
	assert.Same(t, first.Code, second.Code)
}

func TestGeneratedCShape(t *testing.T) {
	t.Parallel()

	output := generateC(t, testProtocol())

	assert.Contains(t, output, "machine TestMessage;")
	assert.Contains(t, output, "write data;")
	assert.Contains(t, output, "struct TestMessage {")
	assert.Contains(t, output, "    uint8_t preamble[64];")
	assert.Contains(t, output, "action on_preamble {}")
	assert.Contains(t, output, `preamble = "\xfe" @on_preamble;`)
	assert.Contains(t, output,
		"void parseTestMessage(const char *aInputBuffer, int aInputBufferLength, struct TestMessage *aTestMessage)")
	assert.Contains(t, output, "%% write init;")
	assert.Contains(t, output, "%% write exec;")
}

func TestGeneratedCTwoMessages(t *testing.T) {
	t.Parallel()

	protocol := testProtocol()
	protocol.Messages = append(protocol.Messages, bpir.Message{
		Name: "AckMessage",
		Fields: []bpir.Field{
			{
				Name: "status",
				Type: bpir.RegexFieldType{Regex: "[\x00\x01]"},
				Attributes: []bpir.FieldAttribute{
					bpir.MaxLengthFieldAttribute{Value: 1},
				},
			},
		},
	})

	output := generateC(t, protocol)

	assert.Contains(t, output, "struct TestMessage {")
	assert.Contains(t, output, "struct AckMessage {")
	assert.Contains(t, output, "    uint8_t status[1];")
	assert.Contains(t, output, "void parseAckMessage(")

	// Message subtrees are emitted in declaration order.
	assert.Less(t,
		strings.Index(output, "struct TestMessage {"),
		strings.Index(output, "struct AckMessage {"))
}

func TestAdaptedTreeKeepsNetZeroIndent(t *testing.T) {
	t.Parallel()

	tree, err := ast.FromProtocol(testProtocol())
	require.NoError(t, err)
	adapted, err := ragel.NewCTarget().Adapt(tree)
	require.NoError(t, err)

	state := gen.NewState()
	state.IncrementIndent(2)
	_, err = gen.Generate(adapted, state)
	require.NoError(t, err)
	assert.Equal(t, 2, state.Indent())
}

func TestAdaptPassesRawCodeThrough(t *testing.T) {
	t.Parallel()

	raw := ast.RawCode{Code: gen.RawCodeFromString("#include <stdint.h>")}
	tree := &ast.Node{Payload: ast.Root{}}
	tree.AddChild(raw)

	adapted, err := ragel.NewCTarget().Adapt(tree)
	require.NoError(t, err)
	assert.Equal(t, raw, adapted.Children[0].Payload)
}
