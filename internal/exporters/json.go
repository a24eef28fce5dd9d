package exporters

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
)

// jsonEnvelope wraps a batch result with export metadata.
type jsonEnvelope struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Summary     domain.ScanSummary  `json:"summary"`
	Result      *domain.BatchResult `json:"result"`
}

// WriteJSON writes the full batch result as indented JSON inside a metadata
// envelope. The result's field names are the stable contract; the envelope
// only adds generated_at and summary on top.
func WriteJSON(w io.Writer, batch *domain.BatchResult) error {
	envelope := jsonEnvelope{
		GeneratedAt: time.Now().UTC(),
		Summary:     batch.Summary(),
		Result:      batch,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(envelope); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
