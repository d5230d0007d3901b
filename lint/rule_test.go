package lint

import (
	"testing"

	"github.com/lex00/ass-lsp-go/script"
)

// mockRule is a simple rule implementation for testing
type mockRule struct {
	id          string
	description string
	codes       []string
	diags       []Diagnostic
}

func (r *mockRule) ID() string          { return r.id }
func (r *mockRule) Description() string { return r.description }
func (r *mockRule) Codes() []string     { return r.codes }

func (r *mockRule) Check(doc *script.Document) []Diagnostic {
	return r.diags
}

func TestRuleRegistry(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		registry := NewRuleRegistry()
		rule := &mockRule{id: "TEST001", description: "first"}
		registry.Register(rule)

		if got := registry.Get("TEST001"); got != rule {
			t.Errorf("Get() = %v, want %v", got, rule)
		}
		if got := registry.Get("missing"); got != nil {
			t.Errorf("Get() = %v, want nil", got)
		}
	})

	t.Run("replace keeps position", func(t *testing.T) {
		registry := NewRuleRegistry()
		registry.Register(&mockRule{id: "b"})
		registry.Register(&mockRule{id: "a"})
		replacement := &mockRule{id: "b", description: "replaced"}
		registry.Register(replacement)

		all := registry.All()
		if len(all) != 2 {
			t.Fatalf("All() returned %d rules, want 2", len(all))
		}
		if all[0] != replacement {
			t.Errorf("All()[0] = %v, want replacement", all[0])
		}

		ids := registry.IDs()
		if ids[0] != "a" || ids[1] != "b" {
			t.Errorf("IDs() = %v, want sorted", ids)
		}
	})

	t.Run("known matches ids and codes", func(t *testing.T) {
		registry := NewRuleRegistry()
		registry.Register(&mockRule{id: "rule", codes: []string{"some_code"}})

		for name, want := range map[string]bool{"rule": true, "some_code": true, "other": false} {
			if got := registry.Known(name); got != want {
				t.Errorf("Known(%q) = %v, want %v", name, got, want)
			}
		}
	})
}

func TestDefaultRules(t *testing.T) {
	want := []string{
		"required-sections",
		"styles",
		"events",
		"style-references",
		"timing-overlap",
		"style-inheritance",
		"duplicate-styles",
		"override-tags",
		"line-hygiene",
	}

	rules := DefaultRegistry().All()
	if len(rules) != len(want) {
		t.Fatalf("DefaultRules() returned %d rules, want %d", len(rules), len(want))
	}
	codes := make(map[string]string)
	for i, rule := range rules {
		if rule.ID() != want[i] {
			t.Errorf("rule %d = %q, want %q", i, rule.ID(), want[i])
		}
		if rule.Description() == "" {
			t.Errorf("rule %q has no description", rule.ID())
		}
		for _, code := range rule.Codes() {
			if owner, dup := codes[code]; dup {
				t.Errorf("code %q emitted by both %q and %q", code, owner, rule.ID())
			}
			codes[code] = rule.ID()
		}
	}
}
