package script

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// knownTags lists override tag names (without the backslash). The \N, \n
// and \h escapes are included so they are not mistaken for unknown tags.
var knownTags = map[string]bool{
	"pos": true, "move": true, "org": true, "clip": true, "iclip": true,
	"fscx": true, "fscy": true, "fsp": true, "frx": true, "fry": true, "frz": true, "fr": true,
	"fax": true, "fay": true, "fn": true, "fs": true, "fe": true,
	"b": true, "i": true, "u": true, "s": true,
	"bord": true, "xbord": true, "ybord": true, "shad": true, "xshad": true, "yshad": true,
	"be": true, "blur": true,
	"c": true, "1c": true, "2c": true, "3c": true, "4c": true,
	"alpha": true, "1a": true, "2a": true, "3a": true, "4a": true,
	"an": true, "a": true, "q": true, "r": true, "t": true, "fad": true, "fade": true,
	"p": true, "pbo": true, "k": true, "K": true, "kf": true, "ko": true,
	"N": true, "n": true, "h": true,
}

// KnownTag reports whether name (without the backslash) is a recognised
// override tag.
func KnownTag(name string) bool {
	return knownTags[name]
}

// OverrideTag is one directive inside a {...} block, e.g. \pos(10,20).
type OverrideTag struct {
	// Name excludes the backslash.
	Name string
	// Args is the parenthesised argument list including the parentheses.
	Args string
	// Value is the inline argument following the name, e.g. "1" in \b1.
	Value string
	// Known is false when no recognised tag name prefixes the directive.
	Known bool
	// Offset is the byte offset of the backslash inside the block body.
	Offset int
}

// OverrideItem is either a tag or a run of free text (a comment).
type OverrideItem struct {
	Tag  *OverrideTag
	Text string
}

// OverrideBlock is a brace-delimited run inside event text.
type OverrideBlock struct {
	// Start and End are rune offsets of '{' and '}' within the text.
	Start, End int
	Body       string
}

//nolint:govet // participle grammar tags are not standard struct tags
type overrideRun struct {
	Items []*overrideItem `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type overrideItem struct {
	Tag  *overrideTag `  @@`
	Text *string      `| @(Value | Args)`
}

//nolint:govet // participle grammar tags are not standard struct tags
type overrideTag struct {
	Pos   lexer.Position
	Name  string `@Tag`
	Args  string `@Args?`
	Value string `@Value?`
}

// overrideLexer covers every input: a backslash always starts a Tag, an
// opening parenthesis always starts Args and anything else is Value.
var overrideLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Tag", Pattern: `\\[0-9]?[A-Za-z]*`},
	{Name: "Args", Pattern: `\((?:[^()]|\([^()]*\))*\)?`},
	{Name: "Value", Pattern: `[^\\(]+`},
})

var overrideParser = participle.MustBuild[overrideRun](
	participle.Lexer(overrideLexer),
)

// ParseOverride tokenizes the body of an override block (without braces).
// Input the grammar cannot handle comes back as a single text item.
func ParseOverride(body string) []OverrideItem {
	if body == "" {
		return nil
	}
	run, err := overrideParser.ParseString("", body)
	if err != nil {
		return []OverrideItem{{Text: body}}
	}

	items := make([]OverrideItem, 0, len(run.Items))
	for _, it := range run.Items {
		switch {
		case it.Tag != nil:
			items = append(items, OverrideItem{Tag: splitTag(it.Tag)})
		case it.Text != nil:
			items = append(items, OverrideItem{Text: *it.Text})
		}
	}
	return items
}

// splitTag separates a recognised tag name from a value glued onto it, as
// in \fnArial, using the longest known name that prefixes the token.
func splitTag(t *overrideTag) *OverrideTag {
	name := strings.TrimPrefix(t.Name, `\`)
	tag := &OverrideTag{
		Name:   name,
		Args:   t.Args,
		Value:  t.Value,
		Offset: t.Pos.Offset,
	}
	if knownTags[name] {
		tag.Known = true
		return tag
	}
	for n := len(name) - 1; n > 0; n-- {
		if knownTags[name[:n]] {
			tag.Name = name[:n]
			tag.Value = name[n:] + t.Value
			tag.Known = true
			return tag
		}
	}
	return tag
}

// OverrideBlocks finds every closed {...} block in event text. An unclosed
// '{' ends the scan.
func OverrideBlocks(text string) []OverrideBlock {
	var blocks []OverrideBlock
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '{' {
			continue
		}
		end := -1
		for j := i + 1; j < len(runes); j++ {
			if runes[j] == '}' {
				end = j
				break
			}
		}
		if end < 0 {
			break
		}
		blocks = append(blocks, OverrideBlock{Start: i, End: end, Body: string(runes[i+1 : end])})
		i = end
	}
	return blocks
}
