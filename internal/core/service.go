package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Keys of the sources the reconciliation engine knows how to join.
const (
	SourceOrders         = "orders"
	SourceDispatch       = "dispatch"
	SourceCertifications = "certifications"
	SourceInvoices       = "invoices"
	SourceWorkflow       = "workflow"
)

var (
	// ErrMissingSource is returned when a required source has no input file.
	ErrMissingSource = errors.New("missing required source")
	// ErrMissingOutput is returned when no output path is given.
	ErrMissingOutput = errors.New("missing output path")
)

// WorkbookProvider opens a spreadsheet file as a raw grid.
type WorkbookProvider interface {
	Open(ctx context.Context, path string) (*Workbook, error)
}

// WorkbookSink persists a reconciliation report.
type WorkbookSink interface {
	Write(ctx context.Context, path string, report *Report) error
}

// RunRecorder stores the summary of each run.
type RunRecorder interface {
	RecordRun(ctx context.Context, run RunResult) error
}

// ProgressFunc receives coarse progress messages.
type ProgressFunc func(message string)

// Progress messages emitted by Run.
const (
	ProgressReading   = "Reading source files"
	ProgressBuilding  = "Building global table"
	ProgressWriting   = "Writing output workbook"
	ProgressCompleted = "Processing complete"
)

// Inputs names the files of one run. Sources maps a source key to its path;
// a missing or empty entry means the export was not provided.
type Inputs struct {
	Sources map[string]string
	Output  string
}

// Report is what a run hands to the sink: the non-empty canonical tables in
// sheet order followed by the unified table.
type Report struct {
	Sources []*Table
	Global  *UnifiedTable
}

// RunResult summarizes a finished or failed run.
type RunResult struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	Duration   time.Duration  `json:"duration"`
	Output     string         `json:"output"`
	SourceRows map[string]int `json:"source_rows"`
	Skipped    []string       `json:"skipped,omitempty"`
	GlobalRows int            `json:"global_rows"`
	Error      string         `json:"error,omitempty"`
	ClientIP   string         `json:"client_ip,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
}

// Service provides the reconciliation run for every shell.
type Service struct {
	provider WorkbookProvider
	sink     WorkbookSink
	recorder RunRecorder
	limiter  *RunLimiter
	literals Literals
	logger   *slog.Logger
}

// ServiceOption configures optional Service collaborators.
type ServiceOption func(*Service)

// WithRecorder stores run summaries through r.
func WithRecorder(r RunRecorder) ServiceOption {
	return func(s *Service) { s.recorder = r }
}

// WithLimiter bounds concurrent runs.
func WithLimiter(l *RunLimiter) ServiceOption {
	return func(s *Service) { s.limiter = l }
}

// WithLiterals overrides the texts written into the unified table.
func WithLiterals(l Literals) ServiceOption {
	return func(s *Service) { s.literals = l.WithDefaults() }
}

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// NewService creates a new Service instance.
func NewService(provider WorkbookProvider, sink WorkbookSink, opts ...ServiceOption) *Service {
	s := &Service{
		provider: provider,
		sink:     sink,
		literals: DefaultLiterals(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListSources returns information about all registered sources.
func (s *Service) ListSources() []SourceInfo {
	defs := All()
	infos := make([]SourceInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	return infos
}

// Literals returns the texts the service writes into the unified table.
func (s *Service) Literals() Literals {
	return s.literals
}

// LimiterStatus returns the run limiter state, or a zero status without one.
func (s *Service) LimiterStatus() RunLimiterStatus {
	if s.limiter == nil {
		return RunLimiterStatus{}
	}
	return s.limiter.Status()
}

// WaitForRuns blocks until active runs finish or ctx ends.
func (s *Service) WaitForRuns(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.WaitForDrain(ctx)
}

// Run reads every provided source, reconciles them and writes the report.
//
// A required source that is missing or cannot be opened aborts the run
// before anything is written. An optional source that cannot be opened is
// logged and treated as absent.
func (s *Service) Run(ctx context.Context, in Inputs, progress ProgressFunc) (result *RunResult, err error) {
	if progress == nil {
		progress = func(string) {}
	}

	result = &RunResult{
		RunID:      uuid.New().String(),
		StartedAt:  time.Now(),
		Output:     in.Output,
		SourceRows: make(map[string]int),
		ClientIP:   GetIPAddressFromContext(ctx),
		UserAgent:  GetUserAgentFromContext(ctx),
	}
	logger := s.logger.With("run_id", result.RunID)

	defer func() {
		result.Duration = time.Since(result.StartedAt)
		if err != nil {
			result.Error = err.Error()
			logger.Error("reconciliation failed", "error", err)
		} else {
			logger.Info("reconciliation completed",
				"global_rows", result.GlobalRows,
				"skipped", result.Skipped,
				"duration_ms", result.Duration.Milliseconds(),
			)
		}
		s.record(ctx, *result)
	}()

	if in.Output == "" {
		return result, ErrMissingOutput
	}
	for _, def := range All() {
		if def.Info.Required && in.Sources[def.Info.Key] == "" {
			return result, fmt.Errorf("%w: %s", ErrMissingSource, def.Info.Label)
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Acquire(ctx); err != nil {
			return result, err
		}
		defer s.limiter.Release()
	}

	progress(ProgressReading)
	tables := make(map[string]*Table)
	var ordered []*Table
	for _, def := range All() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		key := def.Info.Key
		path := in.Sources[key]
		if path == "" {
			result.Skipped = append(result.Skipped, key)
			continue
		}

		wb, openErr := s.provider.Open(ctx, path)
		if openErr != nil {
			if def.Info.Required {
				return result, fmt.Errorf("open %s: %w", def.Info.Label, openErr)
			}
			logger.Warn("optional source unreadable, continuing without it",
				"source", key, "path", path, "error", openErr)
			result.Skipped = append(result.Skipped, key)
			continue
		}

		table := Transform(def, wb)
		tables[key] = table
		result.SourceRows[key] = table.Len()
		logger.Debug("source transformed", "source", key, "rows", table.Len(), "columns", len(table.columns))
		if !table.IsEmpty() {
			ordered = append(ordered, table)
		}
	}

	progress(ProgressBuilding)
	global := Reconcile(
		tables[SourceOrders],
		tables[SourceDispatch],
		tables[SourceInvoices],
		tables[SourceWorkflow],
		tables[SourceCertifications],
		s.literals,
	)
	result.GlobalRows = global.Len()

	if err := ctx.Err(); err != nil {
		return result, err
	}

	progress(ProgressWriting)
	if err := s.sink.Write(ctx, in.Output, &Report{Sources: ordered, Global: global}); err != nil {
		return result, fmt.Errorf("write output: %w", err)
	}

	progress(ProgressCompleted)
	return result, nil
}

// record stores the run summary, logging instead of failing the run.
func (s *Service) record(ctx context.Context, run RunResult) {
	if s.recorder == nil {
		return
	}
	// The run's own context may already be cancelled.
	recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.recorder.RecordRun(recCtx, run); err != nil {
		s.logger.Warn("failed to record run", "run_id", run.RunID, "error", err)
	}
}
