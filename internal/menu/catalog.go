package menu

import (
	"fmt"
	"strings"
)

// Node ids of the fixed menu flow.
const (
	StateMain           = "main"
	StateBrowseSubjects = "browse_subjects"
	StateBrowseGrades   = "browse_grades"
	StateResourceList   = "resource_list"
	StateRequestSMS     = "request_sms"
	StateGetAISummary   = "get_ai_summary"
	StateHelp           = "help"
)

// Terminate is the reserved transition target that ends a session. It is
// a sentinel, not a node: sessions never persist in this state.
const Terminate = "terminate"

// Wildcard is the reserved transition key matching any input.
const Wildcard = "*"

// Placeholder is the reserved template marker replaced with dynamically
// rendered content at display time.
const Placeholder = "{resources}"

// ErrUnknownNode reports a reference to a node id absent from the catalog.
var ErrUnknownNode = fmt.Errorf("unknown menu node")

// Node is one screen of the flow: display text plus a fixed mapping from
// input token to the next node id.
type Node struct {
	ID          string            `yaml:"id"`
	Template    string            `yaml:"template"`
	Transitions map[string]string `yaml:"transitions"`
}

// Catalog is the immutable set of menu nodes, loaded once at startup and
// read-only afterwards.
type Catalog struct {
	nodes map[string]Node
}

// NewCatalog builds a catalog from the given nodes and validates that it
// is closed under its own transition targets.
func NewCatalog(nodes []Node) (*Catalog, error) {
	c := &Catalog{nodes: make(map[string]Node, len(nodes))}
	for _, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("menu node with empty id")
		}
		if _, dup := c.nodes[n.ID]; dup {
			return nil, fmt.Errorf("duplicate menu node %q", n.ID)
		}
		c.nodes[n.ID] = n
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// validate checks every transition target resolves to an existing node or
// the terminate sentinel. Runs once at load time, never at request time.
func (c *Catalog) validate() error {
	for id, n := range c.nodes {
		for input, target := range n.Transitions {
			if target == Terminate {
				continue
			}
			if _, ok := c.nodes[target]; !ok {
				return fmt.Errorf("node %q transition %q -> %q: %w", id, input, target, ErrUnknownNode)
			}
		}
	}
	return nil
}

// Resolve returns the node with the given id.
func (c *Catalog) Resolve(id string) (Node, error) {
	n, ok := c.nodes[id]
	if !ok {
		return Node{}, fmt.Errorf("node %q: %w", id, ErrUnknownNode)
	}
	return n, nil
}

// Has reports whether a node id exists in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.nodes[id]
	return ok
}

// Render returns the node's display text. When the template carries the
// reserved placeholder it is substituted with the supplied string;
// otherwise the substitution is ignored.
func (c *Catalog) Render(id, substitution string) (string, error) {
	n, err := c.Resolve(id)
	if err != nil {
		return "", err
	}
	if strings.Contains(n.Template, Placeholder) {
		return strings.ReplaceAll(n.Template, Placeholder, substitution), nil
	}
	return n.Template, nil
}

// Default returns the built-in catalog matching the production flow.
func Default() *Catalog {
	c, err := NewCatalog(defaultNodes())
	if err != nil {
		// The built-in definition is validated by tests; failing here
		// means the binary itself is broken.
		panic(err)
	}
	return c
}

func defaultNodes() []Node {
	return []Node{
		{
			ID:       StateMain,
			Template: "Welcome to LMS USSD\n\n1. Browse Resources\n2. Help\n3. Exit",
			Transitions: map[string]string{
				"1": StateBrowseSubjects,
				"2": StateHelp,
				"3": Terminate,
			},
		},
		{
			ID:       StateBrowseSubjects,
			Template: "Select Subject:\n\n1. Mathematics\n2. Science\n3. English\n4. History\n5. Geography\n6. Back",
			Transitions: map[string]string{
				"1": StateBrowseGrades,
				"2": StateBrowseGrades,
				"3": StateBrowseGrades,
				"4": StateBrowseGrades,
				"5": StateBrowseGrades,
				"6": StateMain,
			},
		},
		{
			ID:       StateBrowseGrades,
			Template: "Select Grade:\n\n1. K-5 (Elementary)\n2. 6-8 (Middle)\n3. 9-12 (High)\n4. College\n5. Back",
			Transitions: map[string]string{
				"1": StateResourceList,
				"2": StateResourceList,
				"3": StateResourceList,
				"4": StateResourceList,
				"5": StateBrowseSubjects,
			},
		},
		{
			ID:       StateResourceList,
			Template: "Resources found:\n\n{resources}\n\n1. Request SMS Link\n2. Get AI Summary\n3. Browse More\n4. Back to Main",
			Transitions: map[string]string{
				"1": StateRequestSMS,
				"2": StateGetAISummary,
				"3": StateBrowseSubjects,
				"4": StateMain,
			},
		},
		{
			ID:       StateRequestSMS,
			Template: "Enter the resource number (1-{resources}) to receive SMS link:",
			Transitions: map[string]string{
				Wildcard: StateResourceList,
			},
		},
		{
			ID:       StateGetAISummary,
			Template: "Enter the resource number (1-{resources}) to get AI summary:",
			Transitions: map[string]string{
				Wildcard: StateResourceList,
			},
		},
		{
			ID:       StateHelp,
			Template: "LMS USSD Help:\n\n• Browse educational resources\n• Request SMS links\n• Get AI summaries\n\nDial *384*1234# to start",
			Transitions: map[string]string{
				Wildcard: StateMain,
			},
		},
	}
}
