package lint

import (
	"fmt"
	"unicode/utf8"

	"github.com/lex00/ass-lsp-go/analysis"
	"github.com/lex00/ass-lsp-go/script"
)

type timingOverlapRule struct{}

func (timingOverlapRule) ID() string          { return "timing-overlap" }
func (timingOverlapRule) Description() string { return "Dialogue lines should not be displayed at the same time" }
func (timingOverlapRule) Codes() []string     { return []string{CodeTimingOverlap} }

func (r timingOverlapRule) Check(doc *script.Document) []Diagnostic {
	overlaps := analysis.DetectOverlaps(doc.Events)
	diags := make([]Diagnostic, 0, len(overlaps))
	for _, o := range overlaps {
		diags = append(diags, Diagnostic{
			Rule:     r.ID(),
			Code:     CodeTimingOverlap,
			Severity: SeverityWarning,
			Message:  o.Message(),
			Range:    o.Range,
		})
	}
	return diags
}

type styleInheritanceRule struct{}

func (styleInheritanceRule) ID() string          { return "style-inheritance" }
func (styleInheritanceRule) Description() string { return "Styles must not inherit circularly and must define properties" }
func (styleInheritanceRule) Codes() []string {
	return []string{CodeCircularInheritance, CodeEmptyStyleProps}
}

func (r styleInheritanceRule) Check(doc *script.Document) []Diagnostic {
	var diags []Diagnostic
	for _, f := range analysis.AnalyzeInheritance(analysis.StyleGraph(doc.Styles)) {
		code := CodeEmptyStyleProps
		if f.Kind == analysis.CircularInheritance {
			code = CodeCircularInheritance
		}
		diags = append(diags, Diagnostic{
			Rule:     r.ID(),
			Code:     code,
			Severity: SeverityWarning,
			Message:  f.Message,
			Range:    f.Range,
		})
	}
	return diags
}

type duplicateStylesRule struct{}

func (duplicateStylesRule) ID() string          { return "duplicate-styles" }
func (duplicateStylesRule) Description() string { return "Style names should be declared once" }
func (duplicateStylesRule) Codes() []string     { return []string{CodeDuplicateStyle} }

func (r duplicateStylesRule) Check(doc *script.Document) []Diagnostic {
	first := make(map[string]int)
	var diags []Diagnostic
	for _, st := range doc.Styles {
		line, seen := first[st.Name]
		if !seen {
			first[st.Name] = st.Range.Start.Line
			continue
		}
		diags = append(diags, Diagnostic{
			Rule:     r.ID(),
			Code:     CodeDuplicateStyle,
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("Duplicate style definition: %s (first defined on line %d)", st.Name, line+1),
			Range:    st.Range,
		})
	}
	return diags
}

type overrideTagsRule struct{}

func (overrideTagsRule) ID() string          { return "override-tags" }
func (overrideTagsRule) Description() string { return "Override blocks should only use known tags" }
func (overrideTagsRule) Codes() []string     { return []string{CodeUnknownOverrideTag} }

func (r overrideTagsRule) Check(doc *script.Document) []Diagnostic {
	var diags []Diagnostic
	for _, ev := range doc.Events {
		line := ev.Range.Start.Line
		for _, block := range script.OverrideBlocks(ev.Text) {
			for _, item := range script.ParseOverride(block.Body) {
				if item.Tag == nil || item.Tag.Known {
					continue
				}
				col := ev.TextColumn + block.Start + 1 + utf8.RuneCountInString(block.Body[:item.Tag.Offset])
				width := 1 + utf8.RuneCountInString(item.Tag.Name)
				diags = append(diags, Diagnostic{
					Rule:     r.ID(),
					Code:     CodeUnknownOverrideTag,
					Severity: SeverityHint,
					Message:  fmt.Sprintf(`Unknown override tag: \%s`, item.Tag.Name),
					Range: script.Range{
						Start: script.Position{Line: line, Character: col},
						End:   script.Position{Line: line, Character: col + width},
					},
				})
			}
		}
	}
	return diags
}

type lineHygieneRule struct{}

func (lineHygieneRule) ID() string          { return "line-hygiene" }
func (lineHygieneRule) Description() string { return "Raw lines should avoid stray escapes and excessive length" }
func (lineHygieneRule) Codes() []string     { return []string{CodeSuspiciousEscape, CodeLongLine} }

func (r lineHygieneRule) Check(doc *script.Document) []Diagnostic {
	var diags []Diagnostic
	for _, f := range analysis.CheckLines(doc.Lines) {
		d := Diagnostic{
			Rule:     r.ID(),
			Code:     CodeSuspiciousEscape,
			Severity: SeverityHint,
			Message:  f.Message,
			Range:    f.Range,
		}
		if f.Kind == analysis.LongLine {
			d.Code = CodeLongLine
			d.Severity = SeverityInfo
		}
		diags = append(diags, d)
	}
	return diags
}
