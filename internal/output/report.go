package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/finpath/projection-engine/internal/domain"
)

// Render formats report with the named formatter.
func Render(report *domain.ProjectionReport, format string) ([]byte, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	return f.Format(report)
}

// WriteReport renders report to w.
func WriteReport(w io.Writer, report *domain.ProjectionReport, format string) error {
	data, err := Render(report, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFormatted runs a formatter and writes output to a timestamped file in dir.
func WriteFormatted(f Formatter, report *domain.ProjectionReport, dir string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}
	stamp := report.GeneratedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	filename := filepath.Join(dir, fmt.Sprintf("projection_%s_%s.%s", f.Name(), stamp.Format("20060102_150405"), f.Extension()))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
