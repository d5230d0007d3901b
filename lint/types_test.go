package lint

import "testing"

func TestSeverity(t *testing.T) {
	tests := []struct {
		name     string
		severity Severity
		expected int
	}{
		{"error is 0", SeverityError, 0},
		{"warning is 1", SeverityWarning, 1},
		{"info is 2", SeverityInfo, 2},
		{"hint is 3", SeverityHint, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if int(tt.severity) != tt.expected {
				t.Errorf("Severity = %d, want %d", int(tt.severity), tt.expected)
			}
		})
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		severity Severity
		expected string
	}{
		{SeverityError, "error"},
		{SeverityWarning, "warning"},
		{SeverityInfo, "info"},
		{SeverityHint, "hint"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.expected {
				t.Errorf("Severity.String() = %q, want %q", got, tt.expected)
			}
			if tt.expected == "unknown" {
				return
			}
			parsed, err := ParseSeverity(tt.expected)
			if err != nil || parsed != tt.severity {
				t.Errorf("ParseSeverity(%q) = %v, %v", tt.expected, parsed, err)
			}
		})
	}

	if _, err := ParseSeverity("loud"); err == nil {
		t.Error("ParseSeverity() expected error for unknown name")
	}
}

func TestConfigShouldReport(t *testing.T) {
	warning := Diagnostic{Rule: "styles", Code: CodeZeroFontSize, Severity: SeverityWarning}

	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"zero config reports errors only", Config{}, false},
		{"default config reports everything", *DefaultConfig(), true},
		{"disabled by rule id", Config{MinSeverity: SeverityHint, DisabledRules: []string{"styles"}}, false},
		{"disabled by code", Config{MinSeverity: SeverityHint, DisabledRules: []string{CodeZeroFontSize}}, false},
		{"other rule disabled", Config{MinSeverity: SeverityHint, DisabledRules: []string{"events"}}, true},
		{"warning threshold", Config{MinSeverity: SeverityWarning}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ShouldReport(warning); got != tt.want {
				t.Errorf("ShouldReport() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasErrorsAndCounts(t *testing.T) {
	diags := []Diagnostic{
		{Severity: SeverityWarning},
		{Severity: SeverityHint},
		{Severity: SeverityWarning},
	}
	if HasErrors(diags) {
		t.Error("HasErrors() = true, want false")
	}
	counts := Counts(diags)
	if counts[SeverityWarning] != 2 || counts[SeverityHint] != 1 {
		t.Errorf("Counts() = %v", counts)
	}

	diags = append(diags, Diagnostic{Severity: SeverityError})
	if !HasErrors(diags) {
		t.Error("HasErrors() = false, want true")
	}
}

func TestSeverityText(t *testing.T) {
	var s Severity
	if err := s.UnmarshalText([]byte("Warn")); err != nil || s != SeverityWarning {
		t.Errorf("UnmarshalText(Warn) = %v, %v", s, err)
	}
	if err := s.UnmarshalText([]byte("fatal")); err == nil {
		t.Error("UnmarshalText() expected error for unknown name")
	}
	text, _ := SeverityInfo.MarshalText()
	if string(text) != "info" {
		t.Errorf("MarshalText() = %q, want %q", text, "info")
	}
}
