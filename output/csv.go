package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"iproperty_extractor/models"
)

// Writer streams listing rows to a CSV file. The whole file is rewritten
// each run; the header always comes out the same regardless of which
// fields the run's pages happened to carry.
type Writer struct {
	f  *os.File
	cw *csv.Writer
}

func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create csv %s: %w", path, err)
	}
	cw := csv.NewWriter(f)
	if err := cw.Write(models.ListingColumns); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	return &Writer{f: f, cw: cw}, nil
}

func (w *Writer) Write(l *models.Listing) error {
	if err := w.cw.Write(l.CSVRow()); err != nil {
		return fmt.Errorf("write csv row for %s: %w", l.File, err)
	}
	return nil
}

func (w *Writer) Close() error {
	w.cw.Flush()
	if err := w.cw.Error(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
