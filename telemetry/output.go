package telemetry

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/klauspost/compress/zstd"

	"github.com/pthm-cable/hive/config"
)

// CSVFile appends records to one CSV file, writing the header with the
// first batch. Paths ending in ".zst" are zstd-compressed.
type CSVFile struct {
	path          string
	f             *os.File
	enc           *zstd.Encoder
	w             *bufio.Writer
	headerWritten bool
}

// CreateCSV creates (or truncates) a CSV file.
func CreateCSV(path string) (*CSVFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}

	c := &CSVFile{path: path, f: f}
	if strings.HasSuffix(path, ".zst") {
		enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("creating zstd encoder: %w", err)
		}
		c.enc = enc
		c.w = bufio.NewWriter(enc)
	} else {
		c.w = bufio.NewWriter(f)
	}
	return c, nil
}

// Write appends a slice of csv-tagged structs.
func (c *CSVFile) Write(records any) error {
	if c == nil {
		return nil
	}
	if !c.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, c.w); err != nil {
			return fmt.Errorf("writing %s: %w", filepath.Base(c.path), err)
		}
		c.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, c.w); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(c.path), err)
	}
	return nil
}

// Close flushes buffered rows, ends the zstd frame and closes the file.
func (c *CSVFile) Close() error {
	if c == nil {
		return nil
	}
	var firstErr error
	if err := c.w.Flush(); err != nil {
		firstErr = err
	}
	if c.enc != nil {
		if err := c.enc.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := c.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// OutputManager handles structured run output in one directory:
// steps.csv, perf.csv, bookmarks.csv and config.yaml.
type OutputManager struct {
	dir       string
	steps     *CSVFile
	perf      *CSVFile
	bookmarks *CSVFile
}

// NewOutputManager creates the output directory and its CSV files. With
// compress set the step log is written as steps.csv.zst. Returns nil if
// dir is empty (output disabled).
func NewOutputManager(dir string, compress bool) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	stepsName := "steps.csv"
	if compress {
		stepsName += ".zst"
	}
	var err error
	if om.steps, err = CreateCSV(filepath.Join(dir, stepsName)); err != nil {
		return nil, err
	}
	if om.perf, err = CreateCSV(filepath.Join(dir, "perf.csv")); err != nil {
		om.Close()
		return nil, err
	}
	if om.bookmarks, err = CreateCSV(filepath.Join(dir, "bookmarks.csv")); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteStep writes one step record.
func (om *OutputManager) WriteStep(stats StepStats) error {
	if om == nil {
		return nil
	}
	return om.steps.Write([]StepStats{stats})
}

// WritePerf writes a performance record.
func (om *OutputManager) WritePerf(stats PerfStats, step int) error {
	if om == nil {
		return nil
	}
	return om.perf.Write([]PerfStatsCSV{stats.ToCSV(step)})
}

// WriteBookmark writes a bookmark record.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return om.bookmarks.Write([]Bookmark{b})
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*CSVFile{om.steps, om.perf, om.bookmarks} {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
