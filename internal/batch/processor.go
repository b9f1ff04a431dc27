// =============================================================================
// Boleto Line Reader - Batch Processor
// =============================================================================
//
// This module orchestrates a batch run over the code files of the input
// directory.
//
// PROCESSING PIPELINE:
//   1. Read every input file concurrently (bounded by MaxConcurrency)
//   2. Decode every payload of a file and render it as a report row
//   3. Write the XML and XLSX reports for the whole run
//   4. Copy reports to the output archive
//   5. Move successfully read inputs to the input archive
//   6. Write the error log and the processing summary
//
// Decoding outcomes (invalid currency, invalid check digit, unrecognized)
// are report rows. Only files that cannot be read count as failures; with
// ContinueOnError unset the first such failure cancels the run.
//
// An aborted run writes no reports and archives nothing, but still leaves
// the error log and the processing summary behind. In dry-run mode steps 3
// to 6 are skipped and nothing is written or moved.
//
// =============================================================================

package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/boleto-line-reader/internal/codefile"
	"github.com/ginjaninja78/boleto-line-reader/internal/digitable"
	"github.com/ginjaninja78/boleto-line-reader/internal/guide"
	"github.com/ginjaninja78/boleto-line-reader/internal/report"
	"github.com/ginjaninja78/boleto-line-reader/pkg/utils"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls a batch run.
type Options struct {
	CodeFile         codefile.Options
	Style            digitable.Style
	MaxConcurrency   int
	ContinueOnError  bool
	Archive          bool
	WriteXML         bool
	WriteXLSX        bool
	ReportNameFormat string
	DryRun           bool

	// Now is the clock of the run. Defaults to time.Now.
	Now func() time.Time
}

// =============================================================================
// RESULTS
// =============================================================================

// FileResult is the outcome of reading one input file.
type FileResult struct {
	Path        string
	Rows        []report.Row
	ArchivePath string
	Err         error
}

// OK reports whether the file was read.
func (r FileResult) OK() bool { return r.Err == nil }

// Summary is the outcome of a batch run.
type Summary struct {
	RunID        string
	StartTime    time.Time
	EndTime      time.Time
	Files        []FileResult
	CountsByType map[string]int
	Reports      []string
	ErrorLog     string
	SummaryLog   string
}

// Rows returns every report row of the run in input order.
func (s *Summary) Rows() []report.Row {
	var rows []report.Row
	for _, f := range s.Files {
		rows = append(rows, f.Rows...)
	}
	return rows
}

// Failed returns the files that could not be read.
func (s *Summary) Failed() []FileResult {
	var failed []FileResult
	for _, f := range s.Files {
		if !f.OK() {
			failed = append(failed, f)
		}
	}
	return failed
}

// =============================================================================
// PROCESSOR
// =============================================================================

// Processor runs batches.
type Processor struct {
	fm     *utils.FileManager
	opts   Options
	logger *slog.Logger
}

// New creates a Processor writing through fm.
func New(fm *utils.FileManager, opts Options, logger *slog.Logger) *Processor {
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Processor{fm: fm, opts: opts, logger: logger}
}

// Run processes files. The returned summary is never nil; an error is
// returned when the run was aborted or its outputs could not be written.
func (p *Processor) Run(ctx context.Context, files []string) (*Summary, error) {
	summary := &Summary{
		RunID:        uuid.NewString(),
		StartTime:    p.opts.Now(),
		Files:        make([]FileResult, len(files)),
		CountsByType: make(map[string]int),
	}

	p.logger.Info("starting batch", "run", summary.RunID, "files", len(files), "dry_run", p.opts.DryRun)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.MaxConcurrency)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			summary.Files[i] = p.processFile(gctx, path)
			if err := summary.Files[i].Err; err != nil && !p.opts.ContinueOnError {
				return fmt.Errorf("failed to process %s: %w", path, err)
			}
			return nil
		})
	}

	waitErr := g.Wait()

	for _, row := range summary.Rows() {
		summary.CountsByType[row.Type]++
	}

	if waitErr != nil {
		return summary, p.abort(summary, waitErr)
	}

	if !p.opts.DryRun && len(files) > 0 {
		if err := p.writeOutputs(summary); err != nil {
			summary.EndTime = p.opts.Now()
			return summary, err
		}
	}

	summary.EndTime = p.opts.Now()

	if !p.opts.DryRun && len(files) > 0 {
		path, err := p.fm.WriteSummaryLog(toProcessingSummary(summary))
		if err != nil {
			return summary, err
		}
		summary.SummaryLog = path
	}

	p.logger.Info("batch complete",
		"run", summary.RunID,
		"files", len(files),
		"failed", len(summary.Failed()),
		"codes", len(summary.Rows()),
		"duration", summary.EndTime.Sub(summary.StartTime))

	return summary, nil
}

// processFile reads and decodes one input file.
func (p *Processor) processFile(ctx context.Context, path string) FileResult {
	result := FileResult{Path: path}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	entries, err := codefile.Read(path, p.opts.CodeFile)
	if err != nil {
		p.logger.Error("failed to read code file", "file", path, "err", err)
		result.Err = err
		return result
	}

	source := filepath.Base(path)
	result.Rows = make([]report.Row, len(entries))
	for i, e := range entries {
		res := guide.Decode(e.Payload)
		if !res.OK() {
			p.logger.Debug("payload not decoded", "file", source, "line", e.Line, "type", res.Type.String())
		}
		result.Rows[i] = report.NewRow(source, e.Line, res, p.opts.Style)
	}

	p.logger.Info("processed file", "file", source, "codes", len(entries))
	return result
}

// writeOutputs writes reports and logs and archives files.
func (p *Processor) writeOutputs(summary *Summary) error {
	rows := summary.Rows()
	meta := report.Meta{RunID: summary.RunID, Generated: summary.StartTime}
	base := utils.GenerateOutputFileName(p.opts.ReportNameFormat, "", summary.StartTime,
		map[string]string{"uuid": summary.RunID})

	if p.opts.WriteXML {
		path := filepath.Join(p.fm.OutputDir, base+".xml")
		if err := report.WriteXML(path, rows, meta); err != nil {
			return err
		}
		summary.Reports = append(summary.Reports, path)
	}

	if p.opts.WriteXLSX {
		path := filepath.Join(p.fm.OutputDir, base+".xlsx")
		if err := report.WriteXLSX(path, rows); err != nil {
			return err
		}
		summary.Reports = append(summary.Reports, path)
	}

	if p.opts.Archive {
		for _, r := range summary.Reports {
			if _, err := p.fm.ArchiveOutputFile(r); err != nil {
				return err
			}
		}

		for i := range summary.Files {
			f := &summary.Files[i]
			if !f.OK() {
				continue
			}
			archived, err := p.fm.ArchiveInputFile(f.Path)
			if err != nil {
				return err
			}
			f.ArchivePath = archived
		}
	}

	return p.writeErrorLog(summary)
}

// abort finishes a run stopped by cause. Outside dry runs the error log and
// the processing summary are still written; no report is.
func (p *Processor) abort(summary *Summary, cause error) error {
	summary.EndTime = p.opts.Now()
	p.logger.Error("batch aborted", "run", summary.RunID, "err", cause)

	if p.opts.DryRun {
		return cause
	}
	if err := p.writeErrorLog(summary); err != nil {
		return errors.Join(cause, err)
	}
	path, err := p.fm.WriteSummaryLog(toProcessingSummary(summary))
	if err != nil {
		return errors.Join(cause, err)
	}
	summary.SummaryLog = path
	return cause
}

// writeErrorLog records every unreadable file of the run.
func (p *Processor) writeErrorLog(summary *Summary) error {
	var entries []utils.ErrorLogEntry
	for _, f := range summary.Failed() {
		entries = append(entries, utils.ErrorLogEntry{
			Timestamp:    summary.StartTime,
			FileName:     f.Path,
			ErrorType:    errorType(f.Err),
			ErrorMessage: f.Err.Error(),
		})
	}
	logPath, err := p.fm.WriteErrorLog(entries)
	if err != nil {
		return err
	}
	summary.ErrorLog = logPath
	return nil
}

func errorType(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "cancelled"
	}
	return "read_error"
}

func toProcessingSummary(s *Summary) utils.ProcessingSummary {
	ps := utils.ProcessingSummary{
		RunID:        s.RunID,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		TotalFiles:   len(s.Files),
		TotalCodes:   len(s.Rows()),
		CountsByType: s.CountsByType,
		ReportFiles:  s.Reports,
	}
	for _, f := range s.Files {
		if f.OK() {
			ps.SuccessfulFiles++
			continue
		}
		ps.FailedFiles++
		ps.FailedFilesList = append(ps.FailedFilesList, utils.FailedFileInfo{
			InputFile:    f.Path,
			ErrorMessage: f.Err.Error(),
		})
	}
	return ps
}
