package querygate

import "errors"

// NotFilter matches documents that do not match its child filter.
//
// Peers at V5_0_0 or later no longer accept the "not" shape, so the
// filter rewrites itself into the equivalent bool/must_not composite at
// render time. Older peers still receive the legacy "not" object. Both
// shapes mean the same thing; cache hint and name carry over unchanged.
type NotFilter struct {
	child Filter
	cache *bool
	name  string
}

// NewNotFilter creates a negation of the given child filter. The child
// is required.
func NewNotFilter(child Filter) (*NotFilter, error) {
	if child == nil {
		return nil, errors.New("not filter requires a child filter")
	}
	return &NotFilter{child: child}, nil
}

// Cache sets the cache hint. Unset by default.
func (f *NotFilter) Cache(cache bool) *NotFilter {
	f.cache = &cache
	return f
}

// Named tags the filter so its matches can be identified in responses.
func (f *NotFilter) Named(name string) *NotFilter {
	f.name = name
	return f
}

// Source renders the version-appropriate shape:
//
//	v <  V5_0_0: {"not": {"filter": <child>, "_cache": bool?, "_name": s?}}
//	v >= V5_0_0: {"bool": {"must_not": [<child>], "_cache": bool?, "_name": s?}}
func (f *NotFilter) Source(b *ContentBuilder, v Version) error {
	if v.OnOrAfter(V5_0_0) {
		eq := NewBoolFilter().MustNot(f.child)
		if f.cache != nil {
			eq.Cache(*f.cache)
		}
		if f.name != "" {
			eq.Named(f.name)
		}
		return eq.Source(b, v)
	}

	b.StartObject().Key("not").StartObject().Key("filter")
	if err := f.child.Source(b, v); err != nil {
		return err
	}
	if f.cache != nil {
		b.Field("_cache", *f.cache)
	}
	if f.name != "" {
		b.Field("_name", f.name)
	}
	b.EndObject().EndObject()
	return b.Err()
}
