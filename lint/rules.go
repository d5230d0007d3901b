package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/lex00/ass-lsp-go/script"
)

// Diagnostic codes emitted by the built-in rules.
const (
	CodeMissingSection      = "missing_section"
	CodeEmptyStyleName      = "empty_style_name"
	CodeZeroFontSize        = "zero_font_size"
	CodeInvalidColor        = "invalid_color"
	CodeInvalidTimeFormat   = "invalid_time_format"
	CodeInvalidTimeOrder    = "invalid_time_order"
	CodeUnmatchedBrace      = "unmatched_brace"
	CodeUnclosedOverride    = "unclosed_override"
	CodeUndefinedStyle      = "undefined_style"
	CodeTimingOverlap       = "timing_overlap"
	CodeCircularInheritance = "circular_style_inheritance"
	CodeEmptyStyleProps     = "empty_style_properties"
	CodeDuplicateStyle      = "duplicate_style"
	CodeUnknownOverrideTag  = "unknown_override_tag"
	CodeSuspiciousEscape    = "suspicious_escape"
	CodeLongLine            = "long_line"
)

// defaultStyle is always considered declared.
const defaultStyle = "Default"

var requiredSections = []string{"Script Info", "Events"}

type requiredSectionsRule struct{}

func (requiredSectionsRule) ID() string          { return "required-sections" }
func (requiredSectionsRule) Description() string { return "Script Info and Events sections must exist" }
func (requiredSectionsRule) Codes() []string     { return []string{CodeMissingSection} }

func (r requiredSectionsRule) Check(doc *script.Document) []Diagnostic {
	var diags []Diagnostic
	for _, name := range requiredSections {
		if doc.HasSection(name) {
			continue
		}
		diags = append(diags, Diagnostic{
			Rule:     r.ID(),
			Code:     CodeMissingSection,
			Severity: SeverityError,
			Message:  fmt.Sprintf("Missing required section: [%s]", name),
		})
	}
	return diags
}

type stylesRule struct{}

func (stylesRule) ID() string          { return "styles" }
func (stylesRule) Description() string { return "Style names, font sizes and primary colours must be valid" }
func (stylesRule) Codes() []string {
	return []string{CodeEmptyStyleName, CodeZeroFontSize, CodeInvalidColor}
}

func (r stylesRule) Check(doc *script.Document) []Diagnostic {
	var diags []Diagnostic
	for _, st := range doc.Styles {
		if st.Name == "" {
			diags = append(diags, Diagnostic{
				Rule:     r.ID(),
				Code:     CodeEmptyStyleName,
				Severity: SeverityError,
				Message:  "Style name cannot be empty",
				Range:    st.Range,
			})
		}
		if st.Fontsize == 0 {
			diags = append(diags, Diagnostic{
				Rule:     r.ID(),
				Code:     CodeZeroFontSize,
				Severity: SeverityWarning,
				Message:  "Font size should not be zero",
				Range:    st.Range,
			})
		}
		if !script.ValidColor(st.PrimaryColour) {
			diags = append(diags, Diagnostic{
				Rule:       r.ID(),
				Code:       CodeInvalidColor,
				Severity:   SeverityError,
				Message:    fmt.Sprintf("Invalid color format: %s", st.PrimaryColour),
				Range:      st.Range,
				Suggestion: "use &HBBGGRR, &HAABBGGRR or a decimal value",
			})
		}
	}
	return diags
}

type eventsRule struct{}

func (eventsRule) ID() string          { return "events" }
func (eventsRule) Description() string { return "Event timestamps and override braces must be well formed" }
func (eventsRule) Codes() []string {
	return []string{CodeInvalidTimeFormat, CodeInvalidTimeOrder, CodeUnmatchedBrace, CodeUnclosedOverride}
}

func (r eventsRule) Check(doc *script.Document) []Diagnostic {
	var diags []Diagnostic
	for _, ev := range doc.Events {
		for _, f := range []struct{ field, value string }{
			{"start", ev.Start},
			{"end", ev.End},
		} {
			if script.ValidTime(f.value) {
				continue
			}
			d := Diagnostic{
				Rule:     r.ID(),
				Code:     CodeInvalidTimeFormat,
				Severity: SeverityError,
				Message:  fmt.Sprintf("Invalid %s time format: %s (expected H:MM:SS.CC)", f.field, f.value),
				Range:    ev.Range,
			}
			if fixed, ok := script.NormalizeTime(f.value); ok {
				d.Fixable = true
				d.Suggestion = fmt.Sprintf("use %s", fixed)
			}
			diags = append(diags, d)
		}

		if script.ParseTime(ev.Start) >= script.ParseTime(ev.End) {
			diags = append(diags, Diagnostic{
				Rule:     r.ID(),
				Code:     CodeInvalidTimeOrder,
				Severity: SeverityWarning,
				Message:  "Start time should be before end time",
				Range:    ev.Range,
			})
		}

		diags = append(diags, r.checkBraces(ev)...)
	}
	return diags
}

// Fix rewrites every repairable timestamp of the event line d points at, so
// the start and end diagnostics of one event produce the same line.
func (r eventsRule) Fix(doc *script.Document, d Diagnostic) (string, error) {
	if d.Code != CodeInvalidTimeFormat {
		return "", fmt.Errorf("%s cannot be fixed", d.Code)
	}
	n := d.Range.Start.Line
	if n < 0 || n >= len(doc.Lines) {
		return "", fmt.Errorf("line %d out of range", n+1)
	}

	raw := doc.Lines[n]
	colon := strings.IndexByte(raw, ':')
	if colon < 0 {
		return "", fmt.Errorf("line %d is not an event", n+1)
	}
	fields := strings.Split(raw[colon+1:], ",")
	if len(fields) < 3 {
		return "", fmt.Errorf("line %d is not an event", n+1)
	}

	changed := false
	// Fields 1 and 2 are the start and end times.
	for i := 1; i <= 2; i++ {
		value := strings.TrimSpace(fields[i])
		if script.ValidTime(value) {
			continue
		}
		if fixed, ok := script.NormalizeTime(value); ok {
			fields[i] = strings.Replace(fields[i], value, fixed, 1)
			changed = true
		}
	}
	if !changed {
		return "", fmt.Errorf("line %d: no repairable timestamp", n+1)
	}
	return raw[:colon+1] + strings.Join(fields, ","), nil
}

// checkBraces reports every '}' seen at depth zero, and one diagnostic over
// the whole event when a '{' is left open.
func (r eventsRule) checkBraces(ev script.Event) []Diagnostic {
	var diags []Diagnostic
	depth := 0
	col := ev.TextColumn
	for _, c := range ev.Text {
		switch c {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				line := ev.Range.Start.Line
				diags = append(diags, Diagnostic{
					Rule:     r.ID(),
					Code:     CodeUnmatchedBrace,
					Severity: SeverityError,
					Message:  "Unmatched closing brace",
					Range: script.Range{
						Start: script.Position{Line: line, Character: col},
						End:   script.Position{Line: line, Character: col + 1},
					},
				})
			} else {
				depth--
			}
		}
		col++
	}
	if depth > 0 {
		diags = append(diags, Diagnostic{
			Rule:     r.ID(),
			Code:     CodeUnclosedOverride,
			Severity: SeverityError,
			Message:  "Unclosed override tag",
			Range:    ev.Range,
		})
	}
	return diags
}

type styleReferencesRule struct{}

func (styleReferencesRule) ID() string          { return "style-references" }
func (styleReferencesRule) Description() string { return "Events must reference declared styles" }
func (styleReferencesRule) Codes() []string     { return []string{CodeUndefinedStyle} }

func (r styleReferencesRule) Check(doc *script.Document) []Diagnostic {
	declared := doc.StyleNames()
	var names []string
	for _, st := range doc.Styles {
		names = append(names, st.Name)
	}

	var diags []Diagnostic
	for _, ev := range doc.Events {
		if ev.Style == defaultStyle || declared[ev.Style] {
			continue
		}
		d := Diagnostic{
			Rule:     r.ID(),
			Code:     CodeUndefinedStyle,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("Reference to undefined style: %s", ev.Style),
			Range:    ev.Range,
		}
		if match := closestStyle(ev.Style, names); match != "" {
			d.Suggestion = fmt.Sprintf("did you mean %q?", match)
		}
		diags = append(diags, d)
	}
	return diags
}

// maxSuggestDistance bounds the edit distance for a "did you mean" hint.
const maxSuggestDistance = 2

// closestStyle finds the declared style nearest to ref. Subsequence matches
// win; otherwise the smallest edit distance within maxSuggestDistance.
func closestStyle(ref string, names []string) string {
	if ref == "" || len(names) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindFold(ref, names)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", maxSuggestDistance+1
	for _, n := range names {
		if d := fuzzy.LevenshteinDistance(ref, n); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}
