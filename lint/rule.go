package lint

import (
	"sort"
	"sync"

	"github.com/lex00/ass-lsp-go/script"
)

// Rule defines the interface for lint rules.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "styles").
	ID() string
	// Description returns a brief description of what the rule checks.
	Description() string
	// Codes lists the diagnostic codes the rule can emit.
	Codes() []string
	// Check analyzes the document and returns any diagnostics found.
	Check(doc *script.Document) []Diagnostic
}

// FixableRule is a Rule that can repair some of the diagnostics it reports.
type FixableRule interface {
	Rule
	// Fix returns the corrected text of the line d points at.
	Fix(doc *script.Document, d Diagnostic) (string, error)
}

// RuleRegistry maintains a collection of rules.
type RuleRegistry struct {
	mu    sync.RWMutex
	rules map[string]Rule
	order []string
}

// NewRuleRegistry creates a new empty rule registry.
func NewRuleRegistry() *RuleRegistry {
	return &RuleRegistry{
		rules: make(map[string]Rule),
	}
}

// DefaultRegistry returns a registry holding DefaultRules.
func DefaultRegistry() *RuleRegistry {
	r := NewRuleRegistry()
	for _, rule := range DefaultRules() {
		r.Register(rule)
	}
	return r
}

// Register adds a rule to the registry.
// If a rule with the same ID already exists, it will be replaced in place.
func (r *RuleRegistry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[rule.ID()]; !ok {
		r.order = append(r.order, rule.ID())
	}
	r.rules[rule.ID()] = rule
}

// Get returns the rule with the given ID, or nil if not found.
func (r *RuleRegistry) Get(id string) Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rules[id]
}

// All returns all registered rules in registration order.
func (r *RuleRegistry) All() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rules := make([]Rule, 0, len(r.order))
	for _, id := range r.order {
		rules = append(rules, r.rules[id])
	}
	return rules
}

// IDs returns all registered rule IDs in sorted order.
func (r *RuleRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.rules))
	for id := range r.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Known reports whether name is a registered rule ID or a code emitted by
// a registered rule.
func (r *RuleRegistry) Known(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.rules[name]; ok {
		return true
	}
	for _, rule := range r.rules {
		for _, code := range rule.Codes() {
			if code == name {
				return true
			}
		}
	}
	return false
}

// DefaultRules returns the built-in rules in the order they run. The first
// four are the structural, style, event and cross-reference checks; the rest
// are whole-document analyses.
func DefaultRules() []Rule {
	return []Rule{
		requiredSectionsRule{},
		stylesRule{},
		eventsRule{},
		styleReferencesRule{},
		timingOverlapRule{},
		styleInheritanceRule{},
		duplicateStylesRule{},
		overrideTagsRule{},
		lineHygieneRule{},
	}
}
