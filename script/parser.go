package script

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	defaultFontname        = "Arial"
	defaultFontsize        = 20
	defaultSecondaryColour = "&Hffffff"

	minStyleFields = 4
	minEventFields = 10
)

var sectionHeader = regexp.MustCompile(`^\[([^\]]+)\]`)

// SectionName returns the bracketed name if line is a section header.
// The line is expected to be trimmed already.
func SectionName(line string) (string, bool) {
	m := sectionHeader.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// SplitLines splits text on '\n', dropping a trailing '\r' from every line.
// A trailing newline does not produce a final empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Parse converts script text into a Document. It never fails: lines that
// match no known grammar are left out of the document.
func Parse(text string) *Document {
	lines := SplitLines(text)
	doc := &Document{
		ScriptInfo: make(map[string]string),
		Lines:      lines,
	}

	var (
		current string
		open    bool
		start   int
	)
	closeSection := func(end int) {
		doc.Sections = append(doc.Sections, Section{
			Name: current,
			Range: Range{
				Start: Position{Line: start},
				End:   Position{Line: end},
			},
			Lines: lines[start:end],
		})
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		if name, ok := SectionName(line); ok {
			if open {
				closeSection(i)
			}
			current, start, open = name, i, true
			continue
		}
		if !open {
			continue
		}

		switch {
		case strings.Contains(current, "Script Info"):
			if entry, ok := parseInfo(line, raw, i); ok {
				doc.ScriptInfo[entry.Key] = entry.Value
				doc.Info = append(doc.Info, entry)
			}
		case strings.Contains(current, "Styles"):
			if strings.HasPrefix(line, "Style:") {
				if style, ok := parseStyle(line, raw, i); ok {
					doc.Styles = append(doc.Styles, style)
				}
			}
		case current == "Events":
			if strings.HasPrefix(line, "Dialogue:") || strings.HasPrefix(line, "Comment:") {
				if event, ok := parseEvent(line, raw, i); ok {
					doc.Events = append(doc.Events, event)
				}
			}
		}
	}

	if open {
		closeSection(len(lines))
	}
	return doc
}

func parseInfo(line, raw string, lineNum int) (InfoEntry, bool) {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return InfoEntry{}, false
	}
	return InfoEntry{
		Key:   strings.TrimSpace(key),
		Value: strings.TrimSpace(value),
		Range: LineRange(lineNum, utf8.RuneCountInString(raw)),
	}, true
}

func parseStyle(line, raw string, lineNum int) (Style, bool) {
	_, rest, _ := strings.Cut(line, ":")
	parts := strings.Split(rest, ",")
	if len(parts) < minStyleFields {
		return Style{}, false
	}

	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = strings.TrimSpace(p)
	}

	return Style{
		Name:            fields[0],
		Fontname:        fieldOr(fields, 1, defaultFontname),
		Fontsize:        parseFontsize(fields[2]),
		PrimaryColour:   fields[3],
		SecondaryColour: fieldOr(fields, 4, defaultSecondaryColour),
		Fields:          fields,
		Range:           LineRange(lineNum, utf8.RuneCountInString(raw)),
	}, true
}

func parseEvent(line, raw string, lineNum int) (Event, bool) {
	kind := Dialogue
	if strings.HasPrefix(line, "Comment:") {
		kind = Comment
	}

	colon := strings.IndexByte(line, ':')
	parts := strings.Split(line[colon+1:], ",")
	if len(parts) < minEventFields {
		return Event{}, false
	}

	// Split on every comma and rejoin the tail so commas inside the
	// dialogue text survive.
	joined := strings.Join(parts[minEventFields-1:], ",")

	offset := colon + 1
	for _, p := range parts[:minEventFields-1] {
		offset += len(p) + 1
	}
	offset += len(joined) - len(strings.TrimLeftFunc(joined, unicode.IsSpace))
	indent := len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace))

	return Event{
		Kind:       kind,
		Layer:      strings.TrimSpace(parts[0]),
		Start:      strings.TrimSpace(parts[1]),
		End:        strings.TrimSpace(parts[2]),
		Style:      strings.TrimSpace(parts[3]),
		Actor:      strings.TrimSpace(parts[4]),
		MarginL:    strings.TrimSpace(parts[5]),
		MarginR:    strings.TrimSpace(parts[6]),
		MarginV:    strings.TrimSpace(parts[7]),
		Effect:     strings.TrimSpace(parts[8]),
		Text:       strings.TrimSpace(joined),
		TextColumn: utf8.RuneCountInString(raw[:indent+offset]),
		Range:      LineRange(lineNum, utf8.RuneCountInString(raw)),
	}, true
}

func fieldOr(fields []string, i int, def string) string {
	if i < len(fields) {
		return fields[i]
	}
	return def
}

// parseFontsize accepts non-negative integers only.
func parseFontsize(s string) int {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return defaultFontsize
	}
	return int(n)
}
