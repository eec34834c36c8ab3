package querygate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Ownership tags who may mutate a source buffer after it is handed to a
// request. A Borrowed buffer still belongs to the caller, so the request
// copies it before the bytes cross any transport boundary; an Owned
// buffer is stored as-is.
type Ownership int

const (
	// Owned means the request takes the buffer; the caller must not
	// touch it again.
	Owned Ownership = iota
	// Borrowed means the caller keeps the buffer and may reuse it after
	// the call returns.
	Borrowed
)

// ValidationError aggregates every validation failure for a request.
// Validate returns all of them at once instead of stopping at the first.
type ValidationError struct {
	errs []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.errs, "; ")
}

// Errors returns the individual failure messages.
func (e *ValidationError) Errors() []string { return e.errs }

// addValidationError appends msg to err, allocating it on first use.
func addValidationError(msg string, err *ValidationError) *ValidationError {
	if err == nil {
		err = &ValidationError{}
	}
	err.errs = append(err.errs, msg)
	return err
}

// replicationBase carries the fields shared by all replicated write
// requests: index targeting and the operation timeout. Its validation
// and wire layout are part of the shared replication contract, not of
// any one request type.
type replicationBase struct {
	indices []string
	timeout time.Duration
}

func (b *replicationBase) validate() *ValidationError {
	var err *ValidationError
	if b.timeout < 0 {
		err = addValidationError("timeout must not be negative", err)
	}
	return err
}

// DeleteByQueryRequest deletes all documents matching a query. The
// request requires the source to be set via one of the Source setters
// before it is validated or serialized.
//
// Build it with the fluent setters, validate once, then serialize as
// often as needed; it must not be mutated after the first serialization.
// Distinct requests are safe to encode concurrently, a single request is
// not.
type DeleteByQueryRequest struct {
	base    replicationBase
	types   []string
	routing string
	source  []byte
	own     Ownership
}

// NewDeleteByQuery creates a delete-by-query request against the given
// indices. No indices means it runs against all indices.
func NewDeleteByQuery(indices ...string) *DeleteByQueryRequest {
	return &DeleteByQueryRequest{base: replicationBase{indices: indices}}
}

// Indices replaces the target indices.
func (r *DeleteByQueryRequest) Indices(indices ...string) *DeleteByQueryRequest {
	r.base.indices = indices
	return r
}

// GetIndices returns the target indices.
func (r *DeleteByQueryRequest) GetIndices() []string { return r.base.indices }

// Types sets the document types the query runs against. Defaults to all
// types.
func (r *DeleteByQueryRequest) Types(types ...string) *DeleteByQueryRequest {
	r.types = types
	return r
}

// GetTypes returns the document types.
func (r *DeleteByQueryRequest) GetTypes() []string { return r.types }

// Timeout sets the operation timeout.
func (r *DeleteByQueryRequest) Timeout(d time.Duration) *DeleteByQueryRequest {
	r.base.timeout = d
	return r
}

// GetTimeout returns the operation timeout.
func (r *DeleteByQueryRequest) GetTimeout() time.Duration { return r.base.timeout }

// Routing sets the raw routing value. It may already be a comma
// separated list of routing values.
func (r *DeleteByQueryRequest) Routing(routing string) *DeleteByQueryRequest {
	r.routing = routing
	return r
}

// RoutingValues joins the given routing values with commas, skipping
// empty ones.
func (r *DeleteByQueryRequest) RoutingValues(values ...string) *DeleteByQueryRequest {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	r.routing = strings.Join(kept, ",")
	return r
}

// GetRouting returns the routing value; "" means unset.
func (r *DeleteByQueryRequest) GetRouting() string { return r.routing }

// SourceBytes sets the query source from raw bytes. With Borrowed
// ownership the caller may reuse the buffer after the call; the request
// copies it before the bytes leave the process.
func (r *DeleteByQueryRequest) SourceBytes(src []byte, own Ownership) *DeleteByQueryRequest {
	r.source = src
	r.own = own
	return r
}

// SourceString sets the query source from a string.
func (r *DeleteByQueryRequest) SourceString(src string) *DeleteByQueryRequest {
	r.source = []byte(src)
	r.own = Owned
	return r
}

// SourceMap sets the query source from a map. Generation failures are
// wrapped in a *GenerationError carrying the map.
func (r *DeleteByQueryRequest) SourceMap(src map[string]any) error {
	enc, err := json.Marshal(src)
	if err != nil {
		return &GenerationError{Input: src, Err: err}
	}
	r.source = enc
	r.own = Owned
	return nil
}

// SourceBuilder sets the query source from a content builder.
func (r *DeleteByQueryRequest) SourceBuilder(b *ContentBuilder) error {
	enc, err := b.Bytes()
	if err != nil {
		return err
	}
	r.source = enc
	r.own = Owned
	return nil
}

// SourceQuery sets the query source to {"query": <filter>} rendered for
// the given peer version.
func (r *DeleteByQueryRequest) SourceQuery(f Filter, v Version) error {
	b := NewContent()
	b.StartObject().Key("query")
	if err := f.Source(b, v); err != nil {
		return err
	}
	b.EndObject()
	return r.SourceBuilder(b)
}

// Source returns the query source. A Borrowed buffer is copied on first
// read so the returned slice stays valid however the caller reuses the
// original.
func (r *DeleteByQueryRequest) Source() []byte {
	if r.own == Borrowed && r.source != nil {
		r.source = append([]byte(nil), r.source...)
		r.own = Owned
	}
	return r.source
}

// Validate collects every problem with the request. It returns nil when
// the request can be executed.
func (r *DeleteByQueryRequest) Validate() *ValidationError {
	err := r.base.validate()
	if r.source == nil {
		err = addValidationError("source is missing", err)
	}
	return err
}

// String renders a diagnostic description. Failures to render the source
// are swallowed and replaced with a placeholder; diagnostics never fail.
func (r *DeleteByQueryRequest) String() string {
	src := "_na_"
	if r.source != nil && json.Valid(r.source) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, r.source); err == nil {
			src = buf.String()
		}
	}
	return fmt.Sprintf("[%s][%s], source[%s]",
		strings.Join(r.base.indices, ","), strings.Join(r.types, ","), src)
}
