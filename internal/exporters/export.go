package exporters

import (
	"fmt"
	"io"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
)

// Format identifies an export output format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// ContentType returns the MIME type for a format, or empty for unknown formats.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return ""
	}
}

// Export writes the batch in the requested format. Unknown formats return
// ErrInvalidInput.
func Export(w io.Writer, format Format, batch *domain.BatchResult) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, batch)
	case FormatJSON:
		return WriteJSON(w, batch)
	case FormatHTML:
		return WriteHTML(w, batch)
	default:
		return fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidInput, format)
	}
}
