package ast

import (
	"errors"
	"fmt"

	"github.com/Embrobusto/robusto/bpir"
	"github.com/Embrobusto/robusto/internal/logging"
)

// ErrUnknownFieldType is returned when the builder encounters a field type
// variant it has no lowering for. Skipping such a field would silently
// corrupt the generated parser, so the build aborts instead.
var ErrUnknownFieldType = errors.New("ast: unknown field type")

// FromProtocol lowers a protocol into a common AST, one subtree group per
// message, in message declaration order.
//
// Per message the order is fixed: a MachineHeader, a MessageStruct with one
// member per field, a MachineDefinition with one action hook and one matcher
// per field, and a ParsingFunction. When a variable-length field carries no
// MaxLength attribute the default bound is applied and a diagnostic is
// logged; that is advisory, unlike an unknown field type, which fails the
// build.
func FromProtocol(protocol *bpir.Protocol) (*Node, error) {
	if len(protocol.Messages) == 0 {
		return nil, bpir.ErrEmptyProtocol
	}

	root := &Node{Payload: Root{}}
	for i := range protocol.Messages {
		if err := addMessageParser(root, &protocol.Messages[i]); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func addMessageParser(root *Node, message *bpir.Message) error {
	root.AddChild(MachineHeader{MachineName: message.Name})

	messageStruct := root.AddChild(MessageStruct{Name: message.Name})
	for i := range message.Fields {
		member, err := structMember(message, &message.Fields[i])
		if err != nil {
			return err
		}
		messageStruct.AddChild(member)
	}

	definition := root.AddChild(MachineDefinition{MachineName: message.Name})
	for i := range message.Fields {
		if err := addFieldMatcher(definition, message, &message.Fields[i]); err != nil {
			return err
		}
	}

	root.AddChild(ParsingFunction{MessageName: message.Name})
	return nil
}

func structMember(message *bpir.Message, field *bpir.Field) (MessageStructMember, error) {
	var baseType MemberBaseType
	switch field.Type.(type) {
	case bpir.RegexFieldType:
		baseType = ByteSequence
	default:
		return MessageStructMember{}, unknownFieldType(message, field)
	}

	maxLength, explicit := field.MaxLength()
	if !explicit {
		logging.Logger.Warn().
			Str("message", message.Name).
			Str("field", field.Name).
			Int("maxLength", maxLength).
			Msg("no MaxLength attribute, applying default")
	}

	return MessageStructMember{
		Name:        field.Name,
		BaseType:    baseType,
		ArrayLength: maxLength,
	}, nil
}

func addFieldMatcher(definition *Node, message *bpir.Message, field *bpir.Field) error {
	switch fieldType := field.Type.(type) {
	case bpir.RegexFieldType:
		definition.AddChild(MachineActionHook{Name: field.Name})
		definition.AddChild(RegexMachineField{
			Name:  field.Name,
			Regex: fieldType.Regex,
		})
		return nil
	default:
		return unknownFieldType(message, field)
	}
}

func unknownFieldType(message *bpir.Message, field *bpir.Field) error {
	return fmt.Errorf("%w: %T (message %s, field %s)",
		ErrUnknownFieldType, field.Type, message.Name, field.Name)
}
