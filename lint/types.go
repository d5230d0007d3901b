// Package lint validates parsed ASS scripts and reports diagnostics.
package lint

import (
	"fmt"
	"strings"

	"github.com/lex00/ass-lsp-go/script"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	// SeverityError indicates a problem that breaks playback or parsing.
	SeverityError Severity = iota
	// SeverityWarning indicates a potential problem that should be reviewed.
	SeverityWarning
	// SeverityInfo indicates an informational message.
	SeverityInfo
	// SeverityHint indicates a low-priority suggestion.
	SeverityHint
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// ParseSeverity is the inverse of Severity.String.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	case "hint":
		return SeverityHint, nil
	}
	return SeverityHint, fmt.Errorf("unknown severity %q", s)
}

// MarshalText implements encoding.TextMarshaler so JSON and YAML output
// carry the severity name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	sev, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// Diagnostic is a single finding.
type Diagnostic struct {
	// Rule is the ID of the rule that produced the diagnostic.
	Rule string `json:"rule" yaml:"rule"`
	// Code is a stable identifier such as "invalid_color".
	Code     string       `json:"code" yaml:"code"`
	Severity Severity     `json:"severity" yaml:"severity"`
	Message  string       `json:"message" yaml:"message"`
	Range    script.Range `json:"range" yaml:"range"`
	// File is set by LintFile and LintFiles.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
	// Suggestion provides a recommended fix, if any.
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	// Fixable marks diagnostics that Fix can repair.
	Fixable bool `json:"fixable,omitempty" yaml:"fixable,omitempty"`
}

// Config controls which diagnostics are reported.
type Config struct {
	// DisabledRules lists rule IDs or diagnostic codes to skip.
	DisabledRules []string
	// MinSeverity is the least severe level to report. The zero value
	// reports errors only; use DefaultConfig to report everything.
	MinSeverity Severity
}

// DefaultConfig reports every diagnostic.
func DefaultConfig() *Config {
	return &Config{MinSeverity: SeverityHint}
}

// IsRuleDisabled returns true if the given rule ID or code is disabled.
func (c *Config) IsRuleDisabled(id string) bool {
	for _, d := range c.DisabledRules {
		if d == id {
			return true
		}
	}
	return false
}

// ShouldReport returns true if the diagnostic passes the config filters.
func (c *Config) ShouldReport(d Diagnostic) bool {
	if c.IsRuleDisabled(d.Rule) || c.IsRuleDisabled(d.Code) {
		return false
	}
	// Lower severity value means higher priority (Error=0 is most severe)
	return d.Severity <= c.MinSeverity
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Counts tallies diagnostics by severity.
func Counts(diags []Diagnostic) map[Severity]int {
	counts := make(map[Severity]int)
	for _, d := range diags {
		counts[d.Severity]++
	}
	return counts
}
