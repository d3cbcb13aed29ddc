package lint_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Embrobusto/robusto/bpir"
	"github.com/Embrobusto/robusto/lint"
)

func TestRegexMaxLengthLinter(t *testing.T) {
	t.Parallel()

	linter := lint.RegexMaxLengthLinter{}
	message := &bpir.Message{Name: "TestMessage"}

	t.Run("missing attribute warns", func(t *testing.T) {
		t.Parallel()
		field := &bpir.Field{
			Name: "preamble",
			Type: bpir.RegexFieldType{Regex: "\xfe"},
		}
		level, err := linter.LintField(message, field)
		assert.Equal(t, lint.Warning, level)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TestMessage")
		assert.Contains(t, err.Error(), "preamble")
	})

	t.Run("explicit attribute is ok", func(t *testing.T) {
		t.Parallel()
		field := &bpir.Field{
			Name: "preamble",
			Type: bpir.RegexFieldType{Regex: "\xfe"},
			Attributes: []bpir.FieldAttribute{
				bpir.MaxLengthFieldAttribute{Value: 64},
			},
		}
		level, err := linter.LintField(message, field)
		assert.Equal(t, lint.Ok, level)
		assert.NoError(t, err)
	})
}

func TestCompositeLinter(t *testing.T) {
	t.Parallel()

	protocol := &bpir.Protocol{
		Messages: []bpir.Message{
			{
				Name: "TestMessage",
				Fields: []bpir.Field{
					{Name: "preamble", Type: bpir.RegexFieldType{Regex: "\xfe"}},
					{
						Name: "delimiter",
						Type: bpir.RegexFieldType{Regex: ";"},
						Attributes: []bpir.FieldAttribute{
							bpir.MaxLengthFieldAttribute{Value: 1},
						},
					},
				},
			},
		},
	}

	report := lint.Protocol(protocol)

	// One result per (linter, field), Ok entries included.
	require.Len(t, report, 2)
	assert.Equal(t, 1, report.Count(lint.Warning))
	assert.Equal(t, 1, report.Count(lint.Ok))
	assert.False(t, report.HasErrors())

	assert.Equal(t, "preamble", report[0].Field)
	assert.Equal(t, lint.Warning, report[0].Level)
	assert.Equal(t, "delimiter", report[1].Field)
	assert.Equal(t, lint.Ok, report[1].Level)
}

type failingLinter struct{}

func (failingLinter) Name() string { return "failing" }

func (failingLinter) LintField(*bpir.Message, *bpir.Field) (lint.Level, error) {
	return lint.Error, errors.New("field is invalid")
}

func TestReportHasErrors(t *testing.T) {
	t.Parallel()

	protocol := &bpir.Protocol{
		Messages: []bpir.Message{
			{
				Name: "TestMessage",
				Fields: []bpir.Field{
					{Name: "preamble", Type: bpir.RegexFieldType{Regex: "\xfe"}},
				},
			},
		},
	}

	report := lint.NewCompositeLinter(failingLinter{}).LintProtocol(protocol)
	require.Len(t, report, 1)
	assert.True(t, report.HasErrors())
}

func TestReportRenderElidesOk(t *testing.T) {
	t.Parallel()

	report := lint.Report{
		{Level: lint.Ok, Message: "M", Field: "a", Linter: "l"},
		{
			Level:   lint.Warning,
			Message: "M",
			Field:   "b",
			Linter:  "l",
			Err:     errors.New("suspicious"),
		},
	}

	var out strings.Builder
	require.NoError(t, report.Render(&out))

	rendered := out.String()
	assert.NotContains(t, rendered, "M/a")
	assert.Contains(t, rendered, "warning: M/b: suspicious (l)")
}
