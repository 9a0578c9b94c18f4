// Package export drives the summary-generation workflow: an entitlement
// check gating a generate request, with copy and PDF-download actions on the
// result. A workflow lives for one modal session and caches nothing across
// range changes.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/evidenthq/evident/internal/api"
	"github.com/evidenthq/evident/internal/domain"
)

// Phase is the workflow's current position in its state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseChecking
	PhaseDenied
	PhaseGenerating
	PhaseGenerated
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseChecking:
		return "checking"
	case PhaseDenied:
		return "denied"
	case PhaseGenerating:
		return "generating"
	case PhaseGenerated:
		return "generated"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// ErrNoResult is returned by result-scoped actions before a summary exists.
var ErrNoResult = errors.New("no generated summary")

// ExportAPI is the slice of the service client the workflow depends on.
type ExportAPI interface {
	CanExport(ctx context.Context, token string) (domain.Entitlement, error)
	GenerateExport(ctx context.Context, token string, r domain.DateRange) (*api.ExportResult, error)
	GeneratePDF(ctx context.Context, token string, r domain.DateRange) ([]byte, error)
}

// TokenSource supplies the current bearer token. The workflow reads the
// session, never mutates it.
type TokenSource interface {
	Token() string
}

// State is a read-only snapshot of the workflow.
type State struct {
	Phase    Phase
	Range    domain.View
	Resolved domain.DateRange // the range Result was generated for
	Result   *api.ExportResult
	Denial   domain.Entitlement
	Err      error
}

// Workflow is the modal-scoped generation state machine:
//
//	Idle → Checking → (Denied | Generating) → (Generated | Failed)
//
// Denial halts before any generate request; retrying from Failed or Denied
// re-enters Checking with a fresh entitlement check.
type Workflow struct {
	mu      sync.Mutex
	api     ExportAPI
	session TokenSource

	// injectable seams for tests
	now       func() time.Time
	copyText  func(text string) error
	writeFile func(name string, data []byte) error

	dir      string
	phase    Phase
	rng      domain.View
	resolved domain.DateRange
	result   *api.ExportResult
	denial   domain.Entitlement
	err      error
}

// NewWorkflow creates an idle workflow defaulting to the this-week range,
// writing PDF downloads into dir ("." when empty).
func NewWorkflow(client ExportAPI, session TokenSource, dir string) *Workflow {
	if dir == "" {
		dir = "."
	}
	return &Workflow{
		api:       client,
		session:   session,
		now:       time.Now,
		copyText:  clipboard.WriteAll,
		writeFile: func(name string, data []byte) error { return os.WriteFile(name, data, 0644) },
		dir:       dir,
		rng:       domain.ViewThisWeek,
	}
}

// Reset returns the workflow to Idle on the default range, dropping any
// result, denial, or error from a previous modal session. A reset while a
// generation is in flight is ignored; the in-flight attempt still owns the
// state.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == PhaseChecking || w.phase == PhaseGenerating {
		return
	}
	w.phase = PhaseIdle
	w.rng = domain.ViewThisWeek
	w.result = nil
	w.resolved = domain.DateRange{}
	w.denial = domain.Entitlement{}
	w.err = nil
}

// SetRange switches the range selector. From a terminal phase this returns
// the workflow to Idle and drops the previous result, so a displayed summary
// can never be captioned with a newer selector's range.
func (w *Workflow) SetRange(v domain.View) {
	if !v.Valid() {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == PhaseChecking || w.phase == PhaseGenerating {
		return
	}
	w.rng = v
	w.phase = PhaseIdle
	w.result = nil
	w.resolved = domain.DateRange{}
	w.denial = domain.Entitlement{}
	w.err = nil
}

// Generate runs the entitlement check and, when allowed, requests a summary
// for the concrete range resolved from the current selector. It is
// single-flight: calls while a check or generation is in flight are ignored.
func (w *Workflow) Generate(ctx context.Context) error {
	w.mu.Lock()
	if w.phase == PhaseChecking || w.phase == PhaseGenerating {
		w.mu.Unlock()
		return nil
	}
	w.phase = PhaseChecking
	w.result = nil
	w.denial = domain.Entitlement{}
	w.err = nil
	rng := w.rng
	w.mu.Unlock()

	token := w.session.Token()

	ent, err := w.api.CanExport(ctx, token)
	if err != nil {
		return w.fail(err)
	}
	if !ent.Allowed {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.phase = PhaseDenied
		w.denial = ent
		return nil
	}

	resolved := domain.RangeForView(rng, w.now())

	w.mu.Lock()
	w.phase = PhaseGenerating
	w.mu.Unlock()

	result, err := w.api.GenerateExport(ctx, token, resolved)
	if err != nil {
		return w.fail(err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.phase = PhaseGenerated
	w.result = result
	w.resolved = resolved
	return nil
}

// CopyText puts the generated summary text on the system clipboard.
// It never changes the workflow phase.
func (w *Workflow) CopyText() error {
	w.mu.Lock()
	result := w.result
	w.mu.Unlock()
	if result == nil {
		return ErrNoResult
	}
	return w.copyText(result.TextContent)
}

// DownloadPDF renders the generated summary's range as a PDF and writes it
// next to the configured download directory, returning the written path.
// The request uses the range the summary was generated for, not the current
// selector. Failures are recorded in the workflow state; the result stays
// visible for retrying.
func (w *Workflow) DownloadPDF(ctx context.Context) (string, error) {
	w.mu.Lock()
	if w.phase != PhaseGenerated {
		w.mu.Unlock()
		return "", ErrNoResult
	}
	resolved := w.resolved
	w.mu.Unlock()

	token := w.session.Token()

	data, err := w.api.GeneratePDF(ctx, token, resolved)
	if err != nil {
		w.mu.Lock()
		w.err = err
		w.mu.Unlock()
		return "", err
	}

	name := fmt.Sprintf("evident-summary-%s-to-%s.pdf", resolved.StartDate(), resolved.EndDate())
	path := filepath.Join(w.dir, name)
	if err := w.writeFile(path, data); err != nil {
		w.mu.Lock()
		w.err = err
		w.mu.Unlock()
		return "", err
	}
	return path, nil
}

// Snapshot returns a copy of the current workflow state.
func (w *Workflow) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return State{
		Phase:    w.phase,
		Range:    w.rng,
		Resolved: w.resolved,
		Result:   w.result,
		Denial:   w.denial,
		Err:      w.err,
	}
}

func (w *Workflow) fail(err error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.phase = PhaseFailed
	w.err = err
	return err
}
