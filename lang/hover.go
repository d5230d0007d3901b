package lang

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lex00/ass-lsp-go/cursor"
	"github.com/lex00/ass-lsp-go/lsp"
	"github.com/lex00/ass-lsp-go/script"
)

var (
	timestampPattern = regexp.MustCompile(`\d{1,2}:\d{2}:\d{2}\.\d{2}`)
	colorPattern     = regexp.MustCompile(`&[Hh][0-9A-Fa-f]{6,8}&?`)
)

// Hover returns hover content for pos using the embedded catalog.
func Hover(text string, pos script.Position) *lsp.Hover {
	return DefaultCatalog().Hover(text, pos)
}

// Hover explains the item under pos: a section header, timestamp, override
// tag, colour, event type or Script Info key. It returns nil when there is
// nothing to say.
func (c *Catalog) Hover(text string, pos script.Position) *lsp.Hover {
	cur := cursor.At(text, pos)
	if cur.Line == "" {
		return nil
	}
	line, col := cur.Line, cur.Column

	if name, ok := script.SectionName(strings.TrimSpace(line)); ok {
		return hoverAt(pos.Line, 0, utf8.RuneCountInString(line), c.sectionInfo(name))
	}

	if start, end, ok := matchAt(timestampPattern, line, col); ok {
		return hoverAt(pos.Line, start, end, timeInfo(string([]rune(line)[start:end])))
	}

	tok := cur.Token
	if strings.HasPrefix(tok.Text, `\`) {
		return hoverAt(pos.Line, tok.Start, tok.End, c.tagInfo(tok.Text, col-tok.Start))
	}

	if start, end, ok := matchAt(colorPattern, line, col); ok {
		return hoverAt(pos.Line, start, end, colorInfo(string([]rune(line)[start:end])))
	}

	trimmed := strings.TrimSpace(line)
	keyEnd := strings.IndexByte(trimmed, ':')
	indent := utf8.RuneCountInString(line) - utf8.RuneCountInString(strings.TrimLeft(line, " \t"))
	if keyEnd < 0 || col > indent+utf8.RuneCountInString(trimmed[:keyEnd]) {
		return nil
	}
	key := strings.TrimSpace(trimmed[:keyEnd])

	if e, ok := c.EventType(key); ok && cur.Section == "Events" {
		return hoverAt(pos.Line, tok.Start, tok.End, fmt.Sprintf("**%s**\n\n%s", e.Title, e.Description))
	}
	if strings.Contains(cur.Section, "Script Info") {
		return hoverAt(pos.Line, indent, indent+utf8.RuneCountInString(trimmed[:keyEnd]), c.infoKeyInfo(key))
	}
	return nil
}

func hoverAt(line, start, end int, contents string) *lsp.Hover {
	return &lsp.Hover{
		Contents: contents,
		Range: &lsp.Range{
			Start: lsp.Position{Line: line, Character: start},
			End:   lsp.Position{Line: line, Character: end},
		},
	}
}

// matchAt finds a match of re that covers rune column col and returns its
// rune bounds.
func matchAt(re *regexp.Regexp, line string, col int) (int, int, bool) {
	for _, m := range re.FindAllStringIndex(line, -1) {
		start := utf8.RuneCountInString(line[:m[0]])
		end := start + utf8.RuneCountInString(line[m[0]:m[1]])
		if col >= start && col <= end {
			return start, end, true
		}
	}
	return 0, 0, false
}

func (c *Catalog) sectionInfo(name string) string {
	if e, ok := c.Section(name); ok {
		return fmt.Sprintf("**%s**\n\n%s", e.Title, e.Description)
	}
	return fmt.Sprintf("**Section Header**\n\n`[%s]`\n\nCustom section in the ASS script.", name)
}

// tagInfo documents the tag inside token that covers offset, so a run like
// \b1\i1 resolves to whichever tag the cursor is on.
func (c *Catalog) tagInfo(token string, offset int) string {
	var tag *script.OverrideTag
	for _, item := range script.ParseOverride(token) {
		if item.Tag == nil {
			continue
		}
		if utf8.RuneCountInString(token[:item.Tag.Offset]) > offset && tag != nil {
			break
		}
		tag = item.Tag
	}
	if tag == nil {
		return ""
	}

	if e, ok := c.Tag(tag.Name); ok {
		return fmt.Sprintf("**%s**\n\n`%s`\n\n%s", e.Title, e.Syntax, e.Description)
	}
	return fmt.Sprintf("**ASS Override Tag**\n\n`\\%s`\n\nAdvanced SubStation Alpha formatting tag.", tag.Name)
}

func timeInfo(ts string) string {
	cs := script.ParseTime(ts)
	h := cs / script.CentisPerHour
	m := cs % script.CentisPerHour / script.CentisPerMinute
	s := cs % script.CentisPerMinute / script.CentisPerSecond
	return fmt.Sprintf("**Timestamp**\n\n`%s`\n\nTotal duration: %dms\n%dh %dm %ds %dcs\nNormalized: `%s`",
		ts, cs*10, h, m, s, cs%script.CentisPerSecond, script.FormatCentis(cs))
}

func colorInfo(value string) string {
	col, ok := script.ParseColor(value)
	if !ok {
		return fmt.Sprintf("**Color Value**\n\n`%s`\n\nASS color in BGR hexadecimal format", value)
	}
	alpha := ""
	if col.HasAlpha {
		alpha = fmt.Sprintf("\nAlpha: %d (%d%% opaque)", col.A, col.Opacity())
	}
	return fmt.Sprintf("**Color Value**\n\n`%s`\n\nRGB: (%d, %d, %d)%s\nBGR Format (Blue-Green-Red)",
		value, col.R, col.G, col.B, alpha)
}

func (c *Catalog) infoKeyInfo(key string) string {
	if e, ok := c.InfoKey(key); ok && e.Description != "" {
		return fmt.Sprintf("**%s**\n\n%s", e.Title, e.Description)
	}
	return fmt.Sprintf("**Script Info Property**\n\n`%s`\n\nScript metadata property.", key)
}
