// Package lint validates a BPIR protocol before generation. It looks for
// common mistakes and warns about potential caveats, such as a
// variable-length field without an explicit MaxLength bound.
//
// Linting is advisory: it never mutates the protocol and never aborts
// generation on its own. Callers decide whether to treat a report with
// errors, or even warnings, as fatal.
package lint

import (
	"fmt"
	"io"

	"github.com/Embrobusto/robusto/bpir"
)

const (
	// Ok records that a linter found nothing wrong with a field.
	Ok Level = 1 + iota

	// Warning records something that presents a potential for errors.
	Warning

	// Error records that the field makes the protocol definition invalid.
	Error
)

// Level is the severity of a single lint result.
type Level int8

func (l Level) String() string {
	switch l {
	case Ok:
		return "ok"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int8(l))
	}
}

// Result is the outcome of one (linter, field) invocation.
type Result struct {
	Level Level

	// Message and Field name the protocol entity the result refers to.
	Message string
	Field   string

	// Linter is the name of the linter that produced the result.
	Linter string

	// Err carries the finding for Warning and Error levels; it is nil for Ok.
	Err error
}

// Report aggregates one result per (linter, field) invocation over a whole
// protocol, in invocation order. Ok entries are retained so that a report
// also documents which checks ran clean.
type Report []Result

// HasErrors reports whether the protocol definition must be considered
// faulty: true as soon as a single Error-level result is present.
func (r Report) HasErrors() bool {
	return r.Count(Error) > 0
}

// Count returns the number of results at the given level.
func (r Report) Count(level Level) int {
	var n int
	for _, result := range r {
		if result.Level == level {
			n++
		}
	}
	return n
}

// Render writes the human-facing form of the report. Ok entries are elided.
func (r Report) Render(w io.Writer) error {
	for _, result := range r {
		if result.Level == Ok {
			continue
		}
		_, err := fmt.Fprintf(w, "%s: %s/%s: %v (%s)\n",
			result.Level, result.Message, result.Field, result.Err, result.Linter)
		if err != nil {
			return err
		}
	}
	return nil
}

// FieldLinter checks the correctness of a message's fields.
//
// A linter may be stateful. The framework calls every linter on each field of
// each message, in field declaration order, exactly once per field. Linters
// must not assume anything about their execution order relative to other
// linters and must be functionally independent from them. A linter may
// perform composite, cross-field checking within one message, but its scope
// ends at the message boundary: cross-message checking is not allowed.
type FieldLinter interface {
	// Name identifies the linter in reports.
	Name() string

	// LintField checks one field of the given message. A nil error is
	// expected for the Ok level and a descriptive error for the others.
	LintField(message *bpir.Message, field *bpir.Field) (Level, error)
}

// RegexMaxLengthLinter warns when a regex-typed field has no MaxLength
// attribute, since the match length is then bounded only by the implicit
// default.
type RegexMaxLengthLinter struct{}

func (RegexMaxLengthLinter) Name() string { return "regex-max-length" }

func (RegexMaxLengthLinter) LintField(message *bpir.Message, field *bpir.Field) (Level, error) {
	if _, ok := field.Type.(bpir.RegexFieldType); !ok {
		return Ok, nil
	}
	if _, explicit := field.MaxLength(); explicit {
		return Ok, nil
	}
	return Warning, fmt.Errorf(
		"in message %s field %s does not have MaxLength attribute",
		message.Name, field.Name)
}

// DefaultLinters returns the built-in linter set.
func DefaultLinters() []FieldLinter {
	return []FieldLinter{
		RegexMaxLengthLinter{},
	}
}

// CompositeLinter runs an ordered list of linters against every field of
// every message and collects their results into a report.
type CompositeLinter struct {
	linters []FieldLinter
}

// NewCompositeLinter builds a composite over the given linters. With no
// arguments it uses DefaultLinters.
func NewCompositeLinter(linters ...FieldLinter) *CompositeLinter {
	if len(linters) == 0 {
		linters = DefaultLinters()
	}
	return &CompositeLinter{linters: linters}
}

// LintProtocol lints every message of the protocol in declaration order.
func (c *CompositeLinter) LintProtocol(protocol *bpir.Protocol) Report {
	var report Report
	for i := range protocol.Messages {
		c.lintMessage(&protocol.Messages[i], &report)
	}
	return report
}

func (c *CompositeLinter) lintMessage(message *bpir.Message, report *Report) {
	for i := range message.Fields {
		c.lintField(message, &message.Fields[i], report)
	}
}

func (c *CompositeLinter) lintField(message *bpir.Message, field *bpir.Field, report *Report) {
	for _, linter := range c.linters {
		level, err := linter.LintField(message, field)
		*report = append(*report, Result{
			Level:   level,
			Message: message.Name,
			Field:   field.Name,
			Linter:  linter.Name(),
			Err:     err,
		})
	}
}

// Protocol lints the protocol with the default linter set.
func Protocol(protocol *bpir.Protocol) Report {
	return NewCompositeLinter().LintProtocol(protocol)
}
