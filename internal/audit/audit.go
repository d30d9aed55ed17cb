// Package audit records one append-only JSON line per tool invocation,
// successful or not. Entries carry enough to reconstruct what ran and why
// it was allowed or refused, without duplicating result data. Parameter
// values are recorded for system-introspection calls only; business-data
// parameters may hold personal data and are reduced to a count.
package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is a single audit record.
type Entry struct {
	ID         string    `json:"id"`
	Time       time.Time `json:"time"`
	Tool       string    `json:"tool"`
	Category   string    `json:"category"`
	TemplateID string    `json:"template_id,omitempty"`
	Fallback   bool      `json:"fallback,omitempty"`
	SQL        string    `json:"sql,omitempty"`
	Params     []any     `json:"params,omitempty"`
	ParamCount int       `json:"param_count"`
	Limit      int       `json:"limit,omitempty"`
	Outcome    string    `json:"outcome"`
	Failure    string    `json:"failure,omitempty"`
	Rule       string    `json:"rule,omitempty"`
	Rows       int       `json:"rows,omitempty"`
	Truncated  bool      `json:"truncated,omitempty"`
	ElapsedMS  int64     `json:"elapsed_ms"`
	Retried    bool      `json:"retried,omitempty"`
}

// Outcome values.
const (
	OutcomeOK       = "ok"
	OutcomeRefused  = "refused"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
)

// Writer appends entries to a destination. Safe for concurrent use.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
	c   io.Closer
	now func() time.Time
}

// NewWriter wraps an io.Writer. The caller retains ownership of out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out, now: time.Now}
}

// OpenFile opens (or creates) an append-only audit log at path.
func OpenFile(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}
	return &Writer{out: f, c: f, now: time.Now}, nil
}

// Record assigns the entry an ID and timestamp and appends it as one JSON
// line. Entries are written in call order under an internal lock.
func (w *Writer) Record(e Entry) (string, error) {
	e.ID = uuid.NewString()
	e.Time = w.now().UTC()

	line, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("audit: marshal entry: %w", err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.out.Write(line); err != nil {
		return "", fmt.Errorf("audit: write entry: %w", err)
	}
	return e.ID, nil
}

// Close closes the underlying file when the writer owns one.
func (w *Writer) Close() error {
	if w.c != nil {
		return w.c.Close()
	}
	return nil
}
