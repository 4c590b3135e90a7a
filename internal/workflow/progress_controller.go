package workflow

import (
	"context"
	"fmt"
	"io"

	"github.com/glitch452/easy-npm-publish/internal/history"
	"github.com/glitch452/easy-npm-publish/internal/output"
	"github.com/glitch452/easy-npm-publish/internal/progress"
)

// ProgressController manages step headers and spinners. All methods are
// nil-safe and become no-ops when the controller is nil.
type ProgressController struct {
	out        io.Writer
	caps       progress.TerminalCapabilities
	totalSteps int
	step       int
}

// NewProgressController creates a controller writing to out.
func NewProgressController(out io.Writer, caps progress.TerminalCapabilities, totalSteps int) *ProgressController {
	return &ProgressController{out: out, caps: caps, totalSteps: totalSteps}
}

// StartStep prints the header of the next step.
func (p *ProgressController) StartStep(name string) {
	if p == nil {
		return
	}
	p.step++
	output.PrintStepHeader(p.out, p.step, p.totalSteps, name)
}

// CompleteStep prints a success line for the current step.
func (p *ProgressController) CompleteStep(format string, args ...any) {
	if p == nil {
		return
	}
	output.PrintStepSuccess(p.out, fmt.Sprintf(format, args...))
}

// Spin runs fn while showing a spinner.
func (p *ProgressController) Spin(message string, fn func() error) error {
	if p == nil {
		return fn()
	}
	return progress.NewSpinner(p.out, p.caps).Run(message, fn)
}

// WrapFetches returns git with every network fetch shown behind a spinner.
func (p *ProgressController) WrapFetches(git history.GitQuery) history.GitQuery {
	if p == nil {
		return git
	}
	return &fetchProgress{GitQuery: git, progress: p}
}

type fetchProgress struct {
	history.GitQuery
	progress *ProgressController
}

func (f *fetchProgress) FetchTags(ctx context.Context) error {
	return f.progress.Spin("Fetching tags", func() error {
		return f.GitQuery.FetchTags(ctx)
	})
}

func (f *fetchProgress) FetchShallowExclude(ctx context.Context, ref string) error {
	return f.progress.Spin("Fetching history since "+ref, func() error {
		return f.GitQuery.FetchShallowExclude(ctx, ref)
	})
}

func (f *fetchProgress) FetchDeepen(ctx context.Context, n int) error {
	return f.progress.Spin(fmt.Sprintf("Deepening history by %d", n), func() error {
		return f.GitQuery.FetchDeepen(ctx, n)
	})
}

func (f *fetchProgress) FetchUnshallow(ctx context.Context) error {
	return f.progress.Spin("Fetching full history", func() error {
		return f.GitQuery.FetchUnshallow(ctx)
	})
}
