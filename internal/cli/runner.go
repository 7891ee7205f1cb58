package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oxhq/noctua/core"
	"github.com/oxhq/noctua/internal/diag"
	"github.com/oxhq/noctua/internal/fixture"
	"github.com/oxhq/noctua/internal/render"
	"github.com/oxhq/noctua/internal/store"
	"github.com/oxhq/noctua/internal/unit"
)

// Runner drives one fixture → analyze → render pipeline, grounded on the
// teacher's internal/cli.Runner (DryRun/Verbose/JSONOutput flags driving
// a single run() pipeline over a batch of files).
type Runner struct {
	DryRun      bool
	Verbose     bool
	JSONOutput  bool
	StdoutMode  bool
	ShowDiff    bool
	RenderWidth int
	OutDir      string
	Store       *store.Store // nil disables the instantiation ledger and diagnostics history; the in-memory instantiation cache still applies
}

// FileResult is the outcome of analyzing and rendering one fixture,
// mirroring the teacher's model.Result shape for JSON output.
type FileResult struct {
	File       string `json:"file"`
	Success    bool   `json:"success"`
	Rendered   string `json:"rendered,omitempty"`
	Diagnostic int    `json:"diagnosticCount"`
	ErrorCode  string `json:"errorCode,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Analyze runs the core pipeline over every fixture matched by
// fixture.Discover(root, pattern) and returns one FileResult per file in
// discovery order. It never returns early on a single file's error —
// every fixture is attempted, matching the teacher's "always report
// per-file outcomes" posture.
func (r *Runner) Analyze(root, pattern string) ([]FileResult, int) {
	paths, err := fixture.Discover(root, pattern)
	if err != nil {
		r.printFatal(Wrap(ECFixtureRead, "discovering fixtures", err))
		return nil, 1
	}
	if len(paths) == 0 {
		r.printFatal(CLIError{Code: ECFixtureRead, Message: ErrNoFixture.Error()})
		return nil, 1
	}

	runID := NewRunID()
	exitCode := 0
	results := make([]FileResult, 0, len(paths))

	for _, path := range paths {
		res := r.processFile(path, runID)
		if !res.Success {
			exitCode = 1
		}
		if !r.JSONOutput {
			r.printResultCLI(&res)
		}
		results = append(results, res)
	}

	if r.JSONOutput {
		b, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(b))
	}
	return results, exitCode
}

func (r *Runner) processFile(path, runID string) FileResult {
	a := unit.New()
	a.Store = r.Store
	root, err := fixture.Load(path, a.Pool, a)
	if err != nil {
		return FileResult{File: path, ErrorCode: string(ECFixtureParse), Error: err.Error()}
	}

	sink := unit.Analyze(a, root)
	r.recordDiagnostics(runID, path, sink)

	if sink.HasFatal() {
		return FileResult{
			File:       path,
			Diagnostic: len(sink.All()),
			ErrorCode:  string(ECAnalysis),
			Error:      firstFatal(sink).Error(),
		}
	}

	flags := render.FlagNone
	out := render.New(flags).WithWidth(r.RenderWidth).Render(root)

	res := FileResult{File: path, Success: true, Diagnostic: len(sink.All())}
	if r.StdoutMode || r.Verbose {
		res.Rendered = out
	}

	if !r.DryRun && r.OutDir != "" {
		outPath := path + ".rendered"
		writer := core.NewAtomicWriter(core.DefaultAtomicConfig())
		if err := writer.WriteFile(outPath, out); err != nil {
			return FileResult{File: path, ErrorCode: string(ECRender), Error: err.Error()}
		}
	}
	return res
}

func (r *Runner) recordDiagnostics(runID, path string, sink *diag.Sink) {
	if r.Store == nil {
		return
	}
	items := sink.All()
	if len(items) == 0 {
		return
	}
	records := make([]store.DiagnosticRecord, len(items))
	for i, d := range items {
		records[i] = store.DiagnosticRecord{
			Severity: severityName(d.Severity),
			Kind:     d.Kind.String(),
			File:     path,
			Line:     d.Loc.Line,
			Col:      d.Loc.Col,
			Detail:   d.Detail,
		}
	}
	if err := r.Store.RecordDiagnostics(runID, records); err != nil && r.Verbose {
		fmt.Fprintf(os.Stderr, "warning: recording diagnostics: %v\n", err)
	}
}

func severityName(s diag.Severity) string {
	switch s {
	case diag.SeverityUser:
		return "user"
	case diag.SeverityUnsupported:
		return "unsupported"
	case diag.SeverityInternal:
		return "internal"
	default:
		return "unknown"
	}
}

func firstFatal(sink *diag.Sink) diag.Diagnostic {
	for _, d := range sink.All() {
		if d.Fatal() {
			return d
		}
	}
	return diag.Diagnostic{}
}

// Render loads a single fixture, analyzes it, and writes the rendered
// source to w — the core of `noctua render`.
func (r *Runner) Render(path string, flags render.Flags, w io.Writer) error {
	a := unit.New()
	a.Store = r.Store
	root, err := fixture.Load(path, a.Pool, a)
	if err != nil {
		return Wrap(ECFixtureParse, "loading fixture", err)
	}

	sink := unit.Analyze(a, root)
	if sink.HasFatal() {
		return CLIError{Code: ECAnalysis, Message: firstFatal(sink).Error()}
	}

	out := render.New(flags).WithWidth(r.RenderWidth).Render(root)

	if r.ShowDiff {
		before, readErr := os.ReadFile(path)
		if readErr == nil {
			d, diffErr := render.Diff(string(before), out)
			if diffErr == nil {
				fmt.Fprint(os.Stderr, d)
			}
		}
	}

	_, err = io.WriteString(w, out)
	return err
}

func (r *Runner) printResultCLI(res *FileResult) {
	if !res.Success {
		fmt.Fprintf(os.Stderr, "x %s: %s (%s)\n", res.File, res.Error, res.ErrorCode)
		return
	}
	if r.Verbose {
		fmt.Printf("ok %s — %d diagnostics\n", res.File, res.Diagnostic)
	}
	if r.StdoutMode && res.Rendered != "" {
		fmt.Print(res.Rendered)
	}
}

func (r *Runner) printFatal(err error) {
	if r.JSONOutput {
		if ce, ok := err.(CLIError); ok {
			fmt.Println(ce.JSON())
			return
		}
		b, _ := json.Marshal(CLIError{Code: ECUnknown, Message: err.Error()})
		fmt.Println(string(b))
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// NewRunID returns a time-stamped identifier for a single CLI invocation's
// diagnostic/cache records, grounded on the teacher's RFC3339 timestamp
// convention in model.Result.Time.
func NewRunID() string {
	return "run-" + time.Now().UTC().Format("20060102T150405.000000000Z")
}
