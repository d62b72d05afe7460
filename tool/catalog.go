package tool

import (
	"fmt"
)

// Catalog is the ordered, read-only set of tools available to one agent.
// It is built once at process start and shared by the decision and execution
// stages without mutation, so it is safe for concurrent use.
type Catalog struct {
	ordered []Tool
	byName  map[string]Tool
}

// NewCatalog builds a catalog from the given tools preserving registration
// order. Tool names must be unique; a duplicate name is a configuration error.
func NewCatalog(tools ...Tool) (*Catalog, error) {
	c := &Catalog{
		ordered: make([]Tool, 0, len(tools)),
		byName:  make(map[string]Tool, len(tools)),
	}
	for _, t := range tools {
		if _, exists := c.byName[t.Name()]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name())
		}
		c.ordered = append(c.ordered, t)
		c.byName[t.Name()] = t
	}
	return c, nil
}

// Lookup resolves a tool by name.
func (c *Catalog) Lookup(name string) (Tool, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Tools returns the tools in registration order. Callers must not mutate the
// returned slice.
func (c *Catalog) Tools() []Tool { return c.ordered }

// Names returns the tool names in registration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.ordered))
	for i, t := range c.ordered {
		names[i] = t.Name()
	}
	return names
}

// Len returns the number of registered tools.
func (c *Catalog) Len() int { return len(c.ordered) }
