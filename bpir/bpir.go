// Package bpir defines the Binary Protocol Intermediate Representation: an
// abstract, language-independent description of a binary wire protocol as an
// ordered set of messages, each composed of ordered fields.
//
// The representation is deliberately dumb. It carries no generation logic and
// maps one-to-one between user-facing protocol entities and the parser and
// serializer backends consuming it. A Protocol value is constructed wholesale
// by the caller and treated as read-only by every later pipeline stage.
package bpir

import "errors"

// DefaultMaxLength is the match-length bound applied to variable-length
// fields that carry no explicit MaxLength attribute.
const DefaultMaxLength = 64

// ErrEmptyProtocol is returned when a pipeline stage receives a protocol with
// no messages. Such a protocol is structurally invalid and generation must
// not proceed.
var ErrEmptyProtocol = errors.New("bpir: protocol has no messages")

// FieldType describes the shape of a single field's wire representation.
//
// The variant set is closed within this package; adding a new variant
// requires a matching arm in the AST builder and in each backend adapter,
// which is the representation's designed extension point.
type FieldType interface {
	fieldType()
}

// RegexFieldType matches a byte sequence against a literal or pattern
// expression. The matched length is variable, bounded by the field's
// resolved MaxLength.
type RegexFieldType struct {
	// Regex is the literal or pattern byte sequence to match, in the
	// notation understood by the target machine compiler.
	Regex string
}

func (RegexFieldType) fieldType() {}

// FieldAttribute modifies how a field is parsed or validated. Attributes of
// the same kind may repeat on one field; the last occurrence wins.
type FieldAttribute interface {
	fieldAttribute()
}

// MaxLengthFieldAttribute bounds the matched length of a variable-shaped
// field type.
type MaxLengthFieldAttribute struct {
	Value int
}

func (MaxLengthFieldAttribute) fieldAttribute() {}

// MessageAttribute marks a role a message plays within its protocol.
type MessageAttribute int8

const (
	// RootAttribute marks the message that nests every other one; it is the
	// protocol's entry point.
	RootAttribute MessageAttribute = 1 + iota
)

// ProtocolAttribute is reserved for protocol-level markers. No variants are
// defined yet.
type ProtocolAttribute int8

// Field is one named unit of a message's wire layout.
type Field struct {
	Name       string
	Type       FieldType
	Attributes []FieldAttribute
}

// MaxLength resolves the field's length bound. When several MaxLength
// attributes are present the last one wins; when none is present the
// returned value is DefaultMaxLength and explicit is false.
func (f *Field) MaxLength() (value int, explicit bool) {
	value = DefaultMaxLength
	for _, attribute := range f.Attributes {
		if maxLength, ok := attribute.(MaxLengthFieldAttribute); ok {
			value = maxLength.Value
			explicit = true
		}
	}
	return value, explicit
}

// Message is an ordered sequence of fields. Field order is declaration
// order and is significant for generation.
type Message struct {
	Name       string
	Fields     []Field
	Attributes []MessageAttribute
}

// IsRoot reports whether the message carries the Root attribute.
func (m *Message) IsRoot() bool {
	for _, attribute := range m.Attributes {
		if attribute == RootAttribute {
			return true
		}
	}
	return false
}

// Protocol is the whole wire protocol: its messages in declaration order,
// plus protocol-level attributes.
type Protocol struct {
	Messages   []Message
	Attributes []ProtocolAttribute
}

// RootMessage returns the first message tagged with the Root attribute. When
// no message is tagged, the first declared message is the root by
// convention. A protocol without messages yields ErrEmptyProtocol.
func (p *Protocol) RootMessage() (*Message, error) {
	if len(p.Messages) == 0 {
		return nil, ErrEmptyProtocol
	}
	for i := range p.Messages {
		if p.Messages[i].IsRoot() {
			return &p.Messages[i], nil
		}
	}
	return &p.Messages[0], nil
}
