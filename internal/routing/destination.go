package routing

import (
	"net/url"
	"strings"
)

// Param is one query parameter of a destination.
type Param struct {
	Name  string
	Value string
}

// Destination is a path inside the web app plus ordered query parameters.
type Destination struct {
	Path  string
	Query []Param
}

// String renders the destination as a relative URL, keeping parameters in
// the order the rule produced them.
func (d Destination) String() string {
	if len(d.Query) == 0 {
		return d.Path
	}

	var b strings.Builder
	b.WriteString(d.Path)
	for i, p := range d.Query {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Lookup returns the value of the first parameter called name.
func (d Destination) Lookup(name string) (string, bool) {
	for _, p := range d.Query {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}
