// Package robusto generates binary-protocol parsers.
//
// All serial embedded binary protocols share a great deal of structure;
// robusto exploits that to take over the boilerplate. A protocol is described
// abstractly as BPIR (see the bpir package) and flows through the pipeline:
//
//	bpir.Protocol -> lint report (advisory)
//	              -> common AST (ast.FromProtocol)
//	              -> target adaptation (e.g. ragel.CTarget)
//	              -> chunk generation (gen.Generate)
//	              -> text, handed to the caller's sink
//
// The emitted text is intermediate, language-dependent parser source, which
// an external machine compiler such as Ragel turns into the final parser.
package robusto

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Embrobusto/robusto/ast"
	"github.com/Embrobusto/robusto/bpir"
	"github.com/Embrobusto/robusto/gen"
	"github.com/Embrobusto/robusto/internal/logging"
	"github.com/Embrobusto/robusto/lint"
	"github.com/Embrobusto/robusto/ragel"
)

// ErrLintFailed is returned by Pipeline.Run when the lint report disqualifies
// the protocol: it contains errors, or warnings while StrictLint is set.
var ErrLintFailed = errors.New("robusto: protocol failed lint")

// Target adapts a common AST for one output language.
type Target interface {
	// Adapt returns a new tree in which every common payload has been
	// replaced with target-specific code.
	Adapt(*ast.Node) (*ast.Node, error)
}

// Pipeline runs the whole generation chain for one target language.
type Pipeline struct {
	// Target adapts the common AST. Required.
	Target Target

	// Linters overrides the built-in linter set when non-empty.
	Linters []lint.FieldLinter

	// StrictLint makes Warning-level lint results disqualify the protocol,
	// in addition to Error-level ones.
	StrictLint bool

	// Writer renders the generated chunks.
	Writer gen.Writer
}

// NewCPipeline returns a pipeline targeting Ragel-embedded C.
func NewCPipeline() *Pipeline {
	return &Pipeline{Target: ragel.NewCTarget()}
}

// Run generates parser source for the protocol into out.
//
// The lint report is returned in every case so callers can surface it; when
// the report disqualifies the protocol the returned error wraps
// ErrLintFailed and nothing is written. Structural faults (empty protocol,
// unknown IR or AST variants) abort generation with the underlying error.
func (p *Pipeline) Run(protocol *bpir.Protocol, out io.Writer) (lint.Report, error) {
	report := lint.NewCompositeLinter(p.Linters...).LintProtocol(protocol)
	if report.HasErrors() {
		return report, fmt.Errorf("%w: %d errors", ErrLintFailed, report.Count(lint.Error))
	}
	if p.StrictLint && report.Count(lint.Warning) > 0 {
		return report, fmt.Errorf("%w: %d warnings in strict mode",
			ErrLintFailed, report.Count(lint.Warning))
	}

	tree, err := ast.FromProtocol(protocol)
	if err != nil {
		return report, err
	}
	adapted, err := p.Target.Adapt(tree)
	if err != nil {
		return report, err
	}
	chunks, err := gen.Generate(adapted, gen.NewState())
	if err != nil {
		return report, err
	}
	return report, p.Writer.Write(out, chunks)
}

// Job is one protocol to generate and the sink its output goes to.
type Job struct {
	// Name identifies the job in errors.
	Name string

	Protocol *bpir.Protocol
	Out      io.Writer
}

// RunAll generates every job. Protocols are independent trees, so jobs run
// concurrently; the first failure cancels the remaining ones.
func (p *Pipeline) RunAll(ctx context.Context, jobs []Job) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, job := range jobs {
		job := job
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := p.Run(job.Protocol, job.Out); err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			return nil
		})
	}
	return group.Wait()
}

// SetLogger installs the logger used for advisory diagnostics across all
// robusto packages. The library is silent without it.
func SetLogger(logger zerolog.Logger) {
	logging.Set(logger)
}
