package reports

import (
	"strings"

	"github.com/honeybbq/corosyncconf/pkg/cserrors"
)

// Processor decides what to do with the problems gathered by one write
// operation. An implementation either returns nil (the operation proceeds)
// or an error (the operation aborts before any mutation). Implementations
// must not keep references into the slice past the call.
type Processor interface {
	Process(problems []Problem) error
}

// ReportError aggregates the problems that blocked an operation.
type ReportError struct {
	Problems []Problem
}

func (e *ReportError) Error() string {
	if e == nil || len(e.Problems) == 0 {
		return "report error"
	}
	messages := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		messages = append(messages, Render(p))
	}
	return strings.Join(messages, "; ")
}

// newReportError wraps blocking problems in a KindReport error.
func newReportError(problems []Problem) error {
	return cserrors.New(cserrors.KindReport, &ReportError{Problems: problems})
}

// StrictProcessor aborts on any problem, forceable or not.
type StrictProcessor struct{}

func (StrictProcessor) Process(problems []Problem) error {
	if len(problems) == 0 {
		return nil
	}
	blocking := make([]Problem, len(problems))
	copy(blocking, problems)
	return newReportError(blocking)
}

// ForcingProcessor downgrades forceable problems to warnings and records
// them; non-forceable problems still abort. The zero value is ready to use.
type ForcingProcessor struct {
	// Warnings accumulates the problems downgraded across calls, in order.
	Warnings []Problem
}

func (p *ForcingProcessor) Process(problems []Problem) error {
	var blocking []Problem
	var downgraded []Problem
	for _, problem := range problems {
		if problem.Forceable {
			downgraded = append(downgraded, asWarning(problem))
		} else {
			blocking = append(blocking, problem)
		}
	}
	if len(blocking) > 0 {
		// Leave state unchanged on failure: warnings are only recorded
		// when the whole batch goes through.
		return newReportError(blocking)
	}
	p.Warnings = append(p.Warnings, downgraded...)
	return nil
}
