// Package analysis holds the whole-document checks that run after parsing:
// timing overlaps between dialogue lines, style inheritance cycles and raw
// line hygiene.
package analysis

import (
	"fmt"
	"strings"

	"github.com/lex00/ass-lsp-go/script"
)

// Overlap reports two Dialogue events whose display intervals intersect.
type Overlap struct {
	// FirstLine and SecondLine are 1-based source lines in file order.
	FirstLine  int `json:"first_line" yaml:"first_line"`
	SecondLine int `json:"second_line" yaml:"second_line"`
	// Start and End are the earlier event's raw timestamps.
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
	// Duration is the length of the intersection in hundredths of a second.
	Duration int `json:"duration" yaml:"duration"`
	// Range is the source range of the later event.
	Range script.Range `json:"-" yaml:"-"`
}

type timedEvent struct {
	start, end int
	event      script.Event
}

// DetectOverlaps compares every pair of Dialogue events and reports each
// intersecting pair once, ordered by the position of the earlier event.
// Comment events are ignored. Intervals are half-open, so an event ending
// exactly when another starts does not overlap it.
func DetectOverlaps(events []script.Event) []Overlap {
	timed := make([]timedEvent, 0, len(events))
	for _, ev := range events {
		if ev.Kind != script.Dialogue {
			continue
		}
		timed = append(timed, timedEvent{
			start: script.ParseTime(ev.Start),
			end:   script.ParseTime(ev.End),
			event: ev,
		})
	}

	var overlaps []Overlap
	for i := 0; i < len(timed); i++ {
		a := timed[i]
		for j := i + 1; j < len(timed); j++ {
			b := timed[j]
			if a.start < b.end && b.start < a.end {
				overlaps = append(overlaps, Overlap{
					FirstLine:  a.event.Range.Start.Line + 1,
					SecondLine: b.event.Range.Start.Line + 1,
					Start:      a.event.Start,
					End:        a.event.End,
					Duration:   min(a.end, b.end) - max(a.start, b.start),
					Range:      b.event.Range,
				})
			}
		}
	}
	return overlaps
}

// Message describes the overlap for diagnostics and logs.
func (o Overlap) Message() string {
	return fmt.Sprintf("Timing overlap between lines %d and %d (%s, %s - %s)",
		o.FirstLine, o.SecondLine, seconds(o.Duration), o.Start, o.End)
}

// Summary renders a multi-line report suitable for a log message.
func Summary(overlaps []Overlap) string {
	if len(overlaps) == 0 {
		return "No timing overlaps detected"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d timing overlaps:\n", len(overlaps))
	for _, o := range overlaps {
		fmt.Fprintf(&sb, "- Lines %d-%d: %s to %s (%s overlap)\n",
			o.FirstLine, o.SecondLine, o.Start, o.End, seconds(o.Duration))
	}
	return sb.String()
}

func seconds(centis int) string {
	return fmt.Sprintf("%d.%02ds", centis/script.CentisPerSecond, centis%script.CentisPerSecond)
}
