// Package loader deserializes protocol description documents into BPIR.
//
// The core pipeline only ever sees an in-memory bpir.Protocol; this package
// is the boundary collaborator that produces one from a YAML or TOML
// document such as:
//
//	messages:
//	  - name: TestMessage
//	    root: true
//	    fields:
//	      - name: preamble
//	        type: regex
//	        regex: "\xfe"
//	        max_length: 64
package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/Embrobusto/robusto/bpir"
)

type protocolDoc struct {
	Messages []messageDoc `yaml:"messages" toml:"messages"`
}

type messageDoc struct {
	Name   string     `yaml:"name" toml:"name"`
	Root   bool       `yaml:"root" toml:"root"`
	Fields []fieldDoc `yaml:"fields" toml:"fields"`
}

type fieldDoc struct {
	Name      string `yaml:"name" toml:"name"`
	Type      string `yaml:"type" toml:"type"`
	Regex     string `yaml:"regex" toml:"regex"`
	MaxLength *int   `yaml:"max_length" toml:"max_length"`
}

// LoadFile reads a protocol document, selecting the format from the file
// extension (.yaml, .yml or .toml).
func LoadFile(path string) (*bpir.Protocol, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch extension := strings.ToLower(filepath.Ext(path)); extension {
	case ".yaml", ".yml":
		return DecodeYAML(file)
	case ".toml":
		return DecodeTOML(file)
	default:
		return nil, fmt.Errorf("loader: unsupported document format %q", extension)
	}
}

// DecodeYAML decodes a YAML protocol document.
func DecodeYAML(r io.Reader) (*bpir.Protocol, error) {
	var doc protocolDoc
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return doc.protocol()
}

// DecodeTOML decodes a TOML protocol document.
func DecodeTOML(r io.Reader) (*bpir.Protocol, error) {
	var doc protocolDoc
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return doc.protocol()
}

func (d *protocolDoc) protocol() (*bpir.Protocol, error) {
	protocol := &bpir.Protocol{}
	for _, message := range d.Messages {
		decoded, err := message.message()
		if err != nil {
			return nil, err
		}
		protocol.Messages = append(protocol.Messages, decoded)
	}
	return protocol, nil
}

func (d *messageDoc) message() (bpir.Message, error) {
	if d.Name == "" {
		return bpir.Message{}, fmt.Errorf("loader: message without a name")
	}

	message := bpir.Message{Name: d.Name}
	if d.Root {
		message.Attributes = append(message.Attributes, bpir.RootAttribute)
	}
	for _, field := range d.Fields {
		decoded, err := field.field(d.Name)
		if err != nil {
			return bpir.Message{}, err
		}
		message.Fields = append(message.Fields, decoded)
	}
	return message, nil
}

func (d *fieldDoc) field(messageName string) (bpir.Field, error) {
	if d.Name == "" {
		return bpir.Field{}, fmt.Errorf(
			"loader: message %s has a field without a name", messageName)
	}

	field := bpir.Field{Name: d.Name}
	switch d.Type {
	case "regex":
		if d.Regex == "" {
			return bpir.Field{}, fmt.Errorf(
				"loader: message %s field %s: regex type without a pattern",
				messageName, d.Name)
		}
		field.Type = bpir.RegexFieldType{Regex: d.Regex}
	default:
		return bpir.Field{}, fmt.Errorf(
			"loader: message %s field %s: unknown field type %q",
			messageName, d.Name, d.Type)
	}

	if d.MaxLength != nil {
		field.Attributes = append(field.Attributes,
			bpir.MaxLengthFieldAttribute{Value: *d.MaxLength})
	}
	return field, nil
}
