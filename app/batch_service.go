package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"sheetdiff/domain/core"
	"sheetdiff/domain/run"
	"sheetdiff/internal"
	"sheetdiff/ports"
)

// BatchOptions describes the folder convention of a batch root:
// root/<group>/{V1,V2,result}.
type BatchOptions struct {
	V1Dir     string
	V2Dir     string
	ResultDir string
	// ReportDir receives the batch reports; empty means the root itself.
	ReportDir   string
	CodeVersion string
}

// DefaultBatchOptions returns the standard folder names
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		V1Dir:       "V1",
		V2Dir:       "V2",
		ResultDir:   "result",
		CodeVersion: "dev",
	}
}

// BatchService drives comparisons over a folder of workbook pairs
type BatchService struct {
	opener   ports.WorkbookOpener
	recalc   ports.Recalculator
	comparer *ComparisonService
	reports  []ports.ReportWriter
	runs     ports.RunRepository
	logger   *internal.Logger
	opts     BatchOptions
}

// NewBatchService creates a batch service. runs may be nil when history is
// not kept.
func NewBatchService(
	opener ports.WorkbookOpener,
	recalc ports.Recalculator,
	comparer *ComparisonService,
	reports []ports.ReportWriter,
	runs ports.RunRepository,
	logger *internal.Logger,
	opts BatchOptions,
) *BatchService {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &BatchService{
		opener:   opener,
		recalc:   recalc,
		comparer: comparer,
		reports:  reports,
		runs:     runs,
		logger:   logger,
		opts:     opts,
	}
}

// Run compares every group under root, writes the batch reports and stores
// the run. Pair failures are recorded on their pair; only an unreadable root
// or a cancelled context is returned as an error.
func (s *BatchService) Run(ctx context.Context, root string) (*run.Record, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, core.NewUnreadableInputError(root, err)
	}

	record := &run.Record{
		ID:          core.NewRunID(),
		Root:        root,
		StartedAt:   core.Now(),
		ReportPaths: make(map[string]string),
	}
	record.Manifest = run.NewManifest(record.ID, root, s.recalc.Mode(), s.comparer.Registry().Layouts(), s.opts.CodeVersion)

	s.logger.Info("Found %d entries in %s", len(entries), root)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		group, err := s.runGroup(ctx, filepath.Join(root, entry.Name()))
		if err != nil {
			return nil, err
		}
		if group != nil {
			record.Groups = append(record.Groups, group)
		}
	}

	record.FinishedAt = core.Now()
	record.Summary = Summarize(record.Groups)
	s.logger.Info("Batch finished: %d groups, %d pairs, %d differing, %d mismatches",
		record.Summary.Groups, record.Summary.Pairs, record.Summary.DifferingPairs, record.Summary.TotalMismatches)

	s.writeReports(ctx, record)

	if s.runs != nil {
		if err := s.runs.Save(ctx, record); err != nil {
			s.logger.Error("Failed to save run %s: %v", record.ID, err)
		}
	}
	return record, nil
}

// runGroup compares the pairs of one subfolder. It returns nil when the
// folder does not follow the V1/V2 convention.
func (s *BatchService) runGroup(ctx context.Context, dir string) (*run.GroupResult, error) {
	name := filepath.Base(dir)
	v1Dir := filepath.Join(dir, s.opts.V1Dir)
	v2Dir := filepath.Join(dir, s.opts.V2Dir)
	resultDir := filepath.Join(dir, s.opts.ResultDir)

	if !isDir(v1Dir) || !isDir(v2Dir) {
		s.logger.Warn("Skipping %s: %s or %s folder missing", name, s.opts.V1Dir, s.opts.V2Dir)
		return nil, nil
	}
	if err := os.MkdirAll(resultDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create result folder %s: %w", resultDir, err)
	}
	s.logger.Info("Processing subfolder: %s", name)

	v1Files, err := workbookFiles(v1Dir)
	if err != nil {
		return nil, core.NewUnreadableInputError(v1Dir, err)
	}
	v2Files, err := workbookFiles(v2Dir)
	if err != nil {
		return nil, core.NewUnreadableInputError(v2Dir, err)
	}
	v2Set := make(map[string]bool, len(v2Files))
	for _, f := range v2Files {
		v2Set[f] = true
	}

	group := &run.GroupResult{Name: name}
	for _, file := range v1Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		counterpart, ok := Counterpart(file, v2Set)
		if !ok {
			msg := fmt.Sprintf("no matching file for %s in %s", file, s.opts.V2Dir)
			s.logger.Warn("%s: %s", name, msg)
			group.Warnings = append(group.Warnings, msg)
			continue
		}

		pair := s.ComparePair(ctx, filepath.Join(v1Dir, file), filepath.Join(v2Dir, counterpart), resultDir)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pair.Group = name
		group.Pairs = append(group.Pairs, pair)
	}
	return group, nil
}

// ComparePair recalculates V2, compares it with V1 and saves the annotated
// V2 as <status>_<base>.xlsx in resultDir (skipped when resultDir is empty).
// Failures are recorded on the returned result.
func (s *BatchService) ComparePair(ctx context.Context, v1Path, v2Path, resultDir string) *run.PairResult {
	base := strings.TrimSuffix(filepath.Base(v1Path), filepath.Ext(v1Path))
	s.logger.Info("Processing: %s vs %s", filepath.Base(v1Path), filepath.Base(v2Path))

	failed := func(err error) *run.PairResult {
		s.logger.Error("Error processing %s: %v", filepath.Base(v1Path), err)
		p := run.NewPairResult(v1Path, v2Path)
		p.Base = base
		p.Fail(err)
		return p
	}

	workDir, err := os.MkdirTemp("", "sheetdiff-*")
	if err != nil {
		return failed(fmt.Errorf("failed to create work dir: %w", err))
	}
	defer os.RemoveAll(workDir)

	// Both sides usually share a base name, so each gets its own directory.
	v1Work, v2Work := filepath.Join(workDir, "v1"), filepath.Join(workDir, "v2")
	for _, dir := range []string{v1Work, v2Work} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			return failed(fmt.Errorf("failed to create work dir: %w", err))
		}
	}

	// Legacy .xls inputs can only be read after conversion, which the
	// recalculator performs as a side effect.
	readV1 := v1Path
	if isLegacyWorkbook(v1Path) {
		readV1, err = s.recalc.Recalculate(ctx, v1Path, v1Work)
		if err != nil {
			return failed(fmt.Errorf("failed to convert %s: %w", v1Path, err))
		}
	}
	readV2, err := s.recalc.Recalculate(ctx, v2Path, v2Work)
	if err != nil {
		return failed(fmt.Errorf("failed to recalculate %s: %w", v2Path, err))
	}

	wb1, err := s.opener.Open(ctx, readV1)
	if err != nil {
		return failed(err)
	}
	defer wb1.Close()
	wb2, err := s.opener.Open(ctx, readV2)
	if err != nil {
		return failed(err)
	}
	defer wb2.Close()

	result, err := s.comparer.Compare(ctx, wb1, wb2, wb2)
	if err != nil {
		return failed(err)
	}
	result.V1Path, result.V2Path, result.Base = v1Path, v2Path, base
	s.fingerprint(result)

	if result.NoCommonSheets {
		s.logger.Warn("No matching sheets between %s and %s", v1Path, v2Path)
	}
	for _, skipped := range result.Skipped {
		s.logger.Warn("Sheet %s skipped: %s", skipped.Sheet, skipped.Reason)
	}
	s.logger.Info("Comparison result: %s (mismatches: %d)", result.Status, result.TotalMismatches)

	if resultDir != "" {
		out := filepath.Join(resultDir, fmt.Sprintf("%s_%s.xlsx", result.Status, base))
		if err := wb2.SaveAs(out); err != nil {
			s.logger.Error("Failed to save result %s: %v", out, err)
			result.SaveError = err.Error()
		} else {
			result.ResultPath = out
			s.logger.Info("Saved result to: %s", out)
		}
	}
	return result
}

// fingerprint records the input file hashes. A file that cannot be hashed
// was already read successfully, so the failure is only logged.
func (s *BatchService) fingerprint(p *run.PairResult) {
	var err error
	if p.V1Hash, err = core.HashFile(p.V1Path); err != nil {
		s.logger.Warn("Failed to hash %s: %v", p.V1Path, err)
	}
	if p.V2Hash, err = core.HashFile(p.V2Path); err != nil {
		s.logger.Warn("Failed to hash %s: %v", p.V2Path, err)
	}
}

// writeReports renders every report format side by side. A failed format is
// logged and left out of ReportPaths.
func (s *BatchService) writeReports(ctx context.Context, record *run.Record) {
	dir := s.opts.ReportDir
	if dir == "" {
		dir = record.Root
	}

	var mu sync.Mutex
	var g errgroup.Group
	for _, w := range s.reports {
		w := w
		g.Go(func() error {
			path, err := w.Write(ctx, record, dir)
			if err != nil {
				s.logger.Error("Failed to write %s report: %v", w.Format(), err)
				return nil
			}
			mu.Lock()
			record.ReportPaths[w.Format()] = path
			mu.Unlock()
			s.logger.Info("Wrote %s report: %s", w.Format(), path)
			return nil
		})
	}
	g.Wait()
}

// Counterpart picks the V2 file for a V1 file: same base name, .xlsx
// preferred over .xls.
func Counterpart(v1File string, v2Files map[string]bool) (string, bool) {
	base := strings.TrimSuffix(v1File, filepath.Ext(v1File))
	for _, ext := range []string{".xlsx", ".xls"} {
		if v2Files[base+ext] {
			return base + ext, true
		}
	}
	return "", false
}

// workbookFiles lists .xlsx and .xls files in dir, sorted by name. Office
// lock files (~$name) are ignored.
func workbookFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		if strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xls") {
			files = append(files, name)
		}
	}
	return files, nil
}

func isLegacyWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xls")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
