// Package filterdto maps the JSON filter schema accepted by the HTTP
// API and the CLI onto domain filter nodes. It is a DTO conversion, not
// a query parser: opaque payloads stay opaque behind the raw variant.
package filterdto

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/querygate"
)

// Node is the JSON form of one filter tree node. Exactly one variant
// must be set.
type Node struct {
	Not  *Not            `json:"not,omitempty"`
	Bool *Bool           `json:"bool,omitempty"`
	Term map[string]any  `json:"term,omitempty"`
	Raw  json.RawMessage `json:"raw,omitempty"`
}

// Not is the negation variant.
type Not struct {
	Filter *Node  `json:"filter"`
	Cache  *bool  `json:"cache,omitempty"`
	Name   string `json:"name,omitempty"`
}

// Bool is the boolean composite variant.
type Bool struct {
	Must    []Node `json:"must,omitempty"`
	Should  []Node `json:"should,omitempty"`
	MustNot []Node `json:"must_not,omitempty"`
	Cache   *bool  `json:"cache,omitempty"`
	Name    string `json:"name,omitempty"`
}

// ToFilter converts a DTO tree into domain filter nodes.
func ToFilter(n *Node) (querygate.Filter, error) {
	variants := 0
	if n.Not != nil {
		variants++
	}
	if n.Bool != nil {
		variants++
	}
	if n.Term != nil {
		variants++
	}
	if n.Raw != nil {
		variants++
	}
	if variants != 1 {
		return nil, fmt.Errorf("filter node must have exactly one of not, bool, term, raw; got %d", variants)
	}

	switch {
	case n.Not != nil:
		return toNotFilter(n.Not)
	case n.Bool != nil:
		return toBoolFilter(n.Bool)
	case n.Term != nil:
		if len(n.Term) != 1 {
			return nil, fmt.Errorf("term filter must have exactly one field, got %d", len(n.Term))
		}
		for field, value := range n.Term {
			return querygate.NewTermFilter(field, value), nil
		}
	}
	return querygate.RawFilter(n.Raw), nil
}

func toNotFilter(n *Not) (querygate.Filter, error) {
	if n.Filter == nil {
		return nil, fmt.Errorf("not filter requires a child filter")
	}
	child, err := ToFilter(n.Filter)
	if err != nil {
		return nil, fmt.Errorf("not: %w", err)
	}
	f, err := querygate.NewNotFilter(child)
	if err != nil {
		return nil, err
	}
	if n.Cache != nil {
		f.Cache(*n.Cache)
	}
	if n.Name != "" {
		f.Named(n.Name)
	}
	return f, nil
}

func toBoolFilter(n *Bool) (querygate.Filter, error) {
	f := querygate.NewBoolFilter()
	for i := range n.Must {
		c, err := ToFilter(&n.Must[i])
		if err != nil {
			return nil, fmt.Errorf("bool must[%d]: %w", i, err)
		}
		f.Must(c)
	}
	for i := range n.Should {
		c, err := ToFilter(&n.Should[i])
		if err != nil {
			return nil, fmt.Errorf("bool should[%d]: %w", i, err)
		}
		f.Should(c)
	}
	for i := range n.MustNot {
		c, err := ToFilter(&n.MustNot[i])
		if err != nil {
			return nil, fmt.Errorf("bool must_not[%d]: %w", i, err)
		}
		f.MustNot(c)
	}
	if n.Cache != nil {
		f.Cache(*n.Cache)
	}
	if n.Name != "" {
		f.Named(n.Name)
	}
	return f, nil
}
