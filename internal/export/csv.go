// internal/export/csv.go
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"coffee-scout/internal/common/errors"
	"coffee-scout/internal/pipeline"
)

// Header returns the fixed column order of the export.
func Header() []string {
	return []string{"name", "address", "phone", "website"}
}

// Filename builds "{label}_coffee_shops_{YYYYMMDD_HHMMSS}.csv" from the
// local clock at call time.
func Filename(label string, now time.Time) string {
	return fmt.Sprintf("%s_coffee_shops_%s.csv", label, now.Format("20060102_150405"))
}

// Write serializes shops to w with the stable Header() ordering. Sentinel
// field values are written literally.
func Write(w io.Writer, shops []pipeline.Shop) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	for _, s := range shops {
		if err := cw.Write([]string{
			s.Name,
			s.Address,
			s.Phone,
			s.Website,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes one timestamped export into dir and returns its path.
func WriteFile(dir, label string, shops []pipeline.Shop, now time.Time) (string, error) {
	path := filepath.Join(dir, Filename(label, now))

	f, err := os.Create(path)
	if err != nil {
		return "", errors.NewExportWriteFailedError(err)
	}

	if err := Write(f, shops); err != nil {
		f.Close()
		return "", errors.NewExportWriteFailedError(err)
	}
	if err := f.Close(); err != nil {
		return "", errors.NewExportWriteFailedError(err)
	}

	return path, nil
}

// Read parses an export written by Write.
//
// Extra columns are ignored. Required columns from Header() must exist.
func Read(r io.Reader) ([]pipeline.Shop, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range Header() {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	var shops []pipeline.Shop
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return shops, nil
		}
		if err != nil {
			return nil, err
		}

		get := func(col string) string {
			i := index[col]
			if i < 0 || i >= len(rec) {
				return ""
			}
			return rec[i]
		}

		shops = append(shops, pipeline.Shop{
			Name:    get("name"),
			Address: get("address"),
			Phone:   get("phone"),
			Website: get("website"),
		})
	}
}
