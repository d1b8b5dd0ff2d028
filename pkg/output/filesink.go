package output

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/retailops/common-items/pkg/config"
	"github.com/retailops/common-items/pkg/intersect"
	"github.com/retailops/common-items/pkg/logging"
)

// Artifact names inside the output directory.
const (
	resultCSVName     = "final_store_item.csv"
	resultParquetName = "final_store_item.parquet"
	diagnosticsDir    = "diagnostics"
	diagnosticsName   = "store_item_counts.csv"
)

// FileSink writes artifacts under a directory, as CSV or Parquet.
type FileSink struct {
	dir    string
	format string
}

// NewFileSink builds a sink rooted at dir. format is config.FormatCSV
// or config.FormatParquet.
func NewFileSink(dir, format string) *FileSink {
	return &FileSink{dir: dir, format: format}
}

var _ Sink = (*FileSink)(nil)

// WriteResult streams the cross product row by row so the artifact
// never has to be materialized in memory.
func (s *FileSink) WriteResult(stores, items []string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	var (
		path string
		err  error
	)
	if s.format == config.FormatParquet {
		path = filepath.Join(s.dir, resultParquetName)
		err = writeResultParquet(path, stores, items)
	} else {
		path = filepath.Join(s.dir, resultCSVName)
		err = writeResultCSV(path, stores, items)
	}
	if err != nil {
		return "", err
	}

	log := logging.WithPhase("output")
	log.Info().
		Str("path", path).
		Int("rows", len(stores)*len(items)).
		Msg("final dataset written")
	return path, nil
}

// writeResultCSV writes the exact row layout the downstream tooling
// expects: STORE,ITEM header, no quoting.
func writeResultCSV(path string, stores, items []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}

	w := bufio.NewWriter(f)
	if _, err := w.WriteString("STORE,ITEM\n"); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, store := range stores {
		for _, item := range items {
			if _, err := w.WriteString(store + "," + item + "\n"); err != nil {
				f.Close()
				return fmt.Errorf("write row: %w", err)
			}
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush result file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close result file: %w", err)
	}
	return nil
}

// WriteDiagnostics persists the per-store item-count table in the
// order given (descending by count).
func (s *FileSink) WriteDiagnostics(counts []intersect.StoreCount) (string, error) {
	dir := filepath.Join(s.dir, diagnosticsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create diagnostics dir: %w", err)
	}

	path := filepath.Join(dir, diagnosticsName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create diagnostics file: %w", err)
	}

	w := bufio.NewWriter(f)
	if _, err := w.WriteString("STORE,ITEM_COUNT\n"); err != nil {
		f.Close()
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, sc := range counts {
		if _, err := w.WriteString(sc.Store + "," + strconv.Itoa(sc.Count) + "\n"); err != nil {
			f.Close()
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return "", fmt.Errorf("flush diagnostics file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close diagnostics file: %w", err)
	}

	log := logging.WithPhase("output")
	log.Info().
		Str("path", path).
		Int("stores", len(counts)).
		Msg("diagnostics written")
	return path, nil
}
