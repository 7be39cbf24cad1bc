package router

import "strings"

// param is one captured variable. components is non-nil only for wildcard
// captures, where it holds the matched segments of the remainder.
type param struct {
	name       string
	value      string
	components []string
}

// Params holds the variables captured during a lookup, preserving the order
// in which they are declared in the route template. The zero value is an
// empty, read-only set.
type Params struct {
	items []param
}

// add records a single-segment capture.
func (p *Params) add(name, value string) {
	p.items = append(p.items, param{name: name, value: value})
}

// addRest records a wildcard capture. The joined form uses "/" separators;
// an empty remainder yields an empty string and an empty component list.
func (p *Params) addRest(name string, components []string) {
	p.items = append(p.items, param{
		name:       name,
		value:      strings.Join(components, "/"),
		components: components,
	})
}

// Get returns the value captured under name, or "" when absent. Wildcard
// captures are returned with their components joined by "/".
func (p Params) Get(name string) string {
	v, _ := p.Lookup(name)
	return v
}

// Lookup returns the value captured under name and whether it was present.
func (p Params) Lookup(name string) (string, bool) {
	for _, it := range p.items {
		if it.name == name {
			return it.value, true
		}
	}
	return "", false
}

// Components returns the individual remainder segments of a wildcard
// capture. The second return is false when name is absent or was captured
// by a single-segment parameter.
func (p Params) Components(name string) ([]string, bool) {
	for _, it := range p.items {
		if it.name == name {
			return it.components, it.components != nil
		}
	}
	return nil, false
}

// Names returns the captured variable names in declaration order.
func (p Params) Names() []string {
	if len(p.items) == 0 {
		return nil
	}
	names := make([]string, len(p.items))
	for i, it := range p.items {
		names[i] = it.name
	}
	return names
}

// Len returns the number of captured variables.
func (p Params) Len() int {
	return len(p.items)
}
