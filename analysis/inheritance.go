package analysis

import (
	"fmt"

	"github.com/lex00/ass-lsp-go/script"
)

// StyleNode is one style in the inheritance graph.
type StyleNode struct {
	Name string
	// Parent is empty when the style inherits from nothing. The ASS style
	// grammar has no inheritance field, so nodes built from a Document never
	// carry a parent.
	Parent string
	// Properties maps synthetic keys (prop_1, prop_2, ...) to raw field
	// values. Empty fields are not recorded.
	Properties map[string]string
	Range      script.Range
}

// FindingKind classifies an inheritance finding.
type FindingKind int

const (
	// CircularInheritance means the style's parent chain loops.
	CircularInheritance FindingKind = iota
	// NoProperties means the style declares no non-empty fields.
	NoProperties
)

// InheritanceFinding is a warning about one style.
type InheritanceFinding struct {
	Kind    FindingKind
	Style   string
	Message string
	Range   script.Range
}

// StyleGraph builds inheritance nodes from parsed styles.
func StyleGraph(styles []script.Style) []StyleNode {
	nodes := make([]StyleNode, 0, len(styles))
	for _, st := range styles {
		props := make(map[string]string)
		for i := 1; i < len(st.Fields); i++ {
			if st.Fields[i] != "" {
				props[fmt.Sprintf("prop_%d", i)] = st.Fields[i]
			}
		}
		nodes = append(nodes, StyleNode{Name: st.Name, Properties: props, Range: st.Range})
	}
	return nodes
}

type walkState int

const (
	unvisited walkState = iota
	acyclic
	cyclic
)

// AnalyzeInheritance reports styles whose parent chain revisits a name on
// the current walk, and styles with no properties. When a name is declared
// more than once the last declaration wins; findings follow the order in
// which names were first declared.
//
// Each walk keeps an explicit path instead of recursing, and results are
// memoised so a chain of n styles is resolved in O(n) overall.
func AnalyzeInheritance(nodes []StyleNode) []InheritanceFinding {
	byName := make(map[string]StyleNode, len(nodes))
	var order []string
	for _, n := range nodes {
		if _, seen := byName[n.Name]; !seen {
			order = append(order, n.Name)
		}
		byName[n.Name] = n
	}

	state := make(map[string]walkState, len(byName))
	for _, name := range order {
		resolve(name, byName, state)
	}

	var findings []InheritanceFinding
	for _, name := range order {
		node := byName[name]
		if state[name] == cyclic {
			findings = append(findings, InheritanceFinding{
				Kind:    CircularInheritance,
				Style:   name,
				Message: fmt.Sprintf("Circular style inheritance detected: %s", name),
				Range:   node.Range,
			})
		}
		if len(node.Properties) == 0 {
			findings = append(findings, InheritanceFinding{
				Kind:    NoProperties,
				Style:   name,
				Message: fmt.Sprintf("Style '%s' has no properties defined", name),
				Range:   node.Range,
			})
		}
	}
	return findings
}

// resolve walks parent links from origin and labels every style on the path.
func resolve(origin string, byName map[string]StyleNode, state map[string]walkState) {
	if state[origin] != unvisited {
		return
	}

	var path []string
	onPath := make(map[string]bool)
	result := acyclic

	for cur := origin; ; {
		if onPath[cur] {
			result = cyclic
			break
		}
		if s := state[cur]; s != unvisited {
			result = s
			break
		}
		path = append(path, cur)
		onPath[cur] = true

		node, ok := byName[cur]
		if !ok || node.Parent == "" {
			break
		}
		if _, declared := byName[node.Parent]; !declared {
			break
		}
		cur = node.Parent
	}

	for _, name := range path {
		state[name] = result
	}
}
