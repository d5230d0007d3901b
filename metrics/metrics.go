// Package metrics records per-document processing costs and turns them into
// tuning suggestions.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Thresholds above which a suggestion is emitted.
const (
	SlowParse      = 100 * time.Millisecond
	SlowValidation = 50 * time.Millisecond
	SlowCompletion = 200 * time.Millisecond
	SlowTotal      = time.Second
	LargeFile      = 1 << 20
	ManyLines      = 10000
)

// Metrics describes one processing pass over a document snapshot.
type Metrics struct {
	URI     string
	Version int
	// Digest fingerprints the text the metrics were measured on.
	Digest         string
	ParseTime      time.Duration
	ValidationTime time.Duration
	CompletionTime time.Duration
	Total          time.Duration
	FileSize       int
	Lines          int
	Diagnostics    int
	RecordedAt     time.Time
}

// Suggestions returns advice for every threshold the metrics exceed.
func (m Metrics) Suggestions() []string {
	var out []string
	if m.ParseTime > SlowParse {
		out = append(out, "Consider breaking large files into smaller sections")
	}
	if m.ValidationTime > SlowValidation {
		out = append(out, "File contains complex validation patterns")
	}
	if m.CompletionTime > SlowCompletion {
		out = append(out, "Code completion is slow - consider caching")
	}
	if m.Total > SlowTotal {
		out = append(out, "Total processing time is high - optimize workflow")
	}
	if m.FileSize > LargeFile {
		out = append(out, fmt.Sprintf("Large file detected (%s) - consider optimization", humanize.IBytes(uint64(m.FileSize))))
	}
	if m.Lines > ManyLines {
		out = append(out, fmt.Sprintf("Many lines detected (%s) - indexing may improve performance", humanize.Comma(int64(m.Lines))))
	}
	return out
}

// String is a one-line human summary.
func (m Metrics) String() string {
	return fmt.Sprintf("%s, %s lines, parse %s, validate %s, %d diagnostics",
		humanize.IBytes(uint64(m.FileSize)), humanize.Comma(int64(m.Lines)),
		m.ParseTime.Round(time.Microsecond), m.ValidationTime.Round(time.Microsecond), m.Diagnostics)
}

// Recorder persists metrics.
type Recorder interface {
	Record(ctx context.Context, m Metrics) error
}

// Discard is a Recorder that drops everything.
type Discard struct{}

func (Discard) Record(context.Context, Metrics) error { return nil }
