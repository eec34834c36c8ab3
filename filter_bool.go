package querygate

// BoolFilter matches documents matching boolean combinations of other
// filters.
type BoolFilter struct {
	must    []Filter
	should  []Filter
	mustNot []Filter
	cache   *bool
	name    string
}

// NewBoolFilter creates an empty boolean composite filter.
func NewBoolFilter() *BoolFilter {
	return &BoolFilter{}
}

// Must adds filters that all matching documents must satisfy.
func (f *BoolFilter) Must(filters ...Filter) *BoolFilter {
	f.must = append(f.must, filters...)
	return f
}

// Should adds filters of which at least one must match.
func (f *BoolFilter) Should(filters ...Filter) *BoolFilter {
	f.should = append(f.should, filters...)
	return f
}

// MustNot adds filters that matching documents must not satisfy.
func (f *BoolFilter) MustNot(filters ...Filter) *BoolFilter {
	f.mustNot = append(f.mustNot, filters...)
	return f
}

// Cache sets the cache hint. Unset by default.
func (f *BoolFilter) Cache(cache bool) *BoolFilter {
	f.cache = &cache
	return f
}

// Named tags the filter so its matches can be identified in responses.
func (f *BoolFilter) Named(name string) *BoolFilter {
	f.name = name
	return f
}

// Source renders {"bool": {"must": [...], "should": [...],
// "must_not": [...], "_cache": bool?, "_name": s?}}. Empty clauses and
// unset attributes are omitted; each present clause is always an array.
func (f *BoolFilter) Source(b *ContentBuilder, v Version) error {
	b.StartObject().Key("bool").StartObject()
	if err := writeClause(b, "must", f.must, v); err != nil {
		return err
	}
	if err := writeClause(b, "should", f.should, v); err != nil {
		return err
	}
	if err := writeClause(b, "must_not", f.mustNot, v); err != nil {
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

func writeClause(b *ContentBuilder, name string, filters []Filter, v Version) error {
	if len(filters) == 0 {
		return nil
	}
	b.Key(name).StartArray()
	for _, f := range filters {
		if err := f.Source(b, v); err != nil {
			return err
		}
	}
	b.EndArray()
	return b.Err()
}
