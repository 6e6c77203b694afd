package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rustyeddy/gridrecon/recon"
)

// Header is the output CSV header row.
var Header = []string{"Option Portfolio", "Reason", "Time"}

// WriteCSV writes rows to w with a header and no index column. An empty
// slice still produces the header.
func WriteCSV(w io.Writer, rows []recon.PortfolioResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Portfolio, r.Reason, r.Time}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes rows to dir/name. The file appears only once it is
// completely written; a failed write leaves nothing behind.
func WriteFile(dir, name string, rows []recon.PortfolioResult) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".gridrecon-*.csv")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, rows); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close csv: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename csv: %w", err)
	}
	return path, nil
}
