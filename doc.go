// Package querygate encodes delete-by-query requests and filter
// expression trees for peers that may speak different protocol versions.
//
// A request is built once and rendered into two independent forms: the
// internal binary transport frame, whose layout never varies, and the
// REST request, whose method, endpoint and filter shapes depend on the
// peer's version. Filters that changed shape across versions (the "not"
// filter) rewrite themselves into the equivalent current form at render
// time, so both serialization paths come from the same source of truth.
//
//	req := querygate.NewDeleteByQuery("logs").
//	    Types("event").
//	    Routing("shardkey").
//	    SourceString(`{"query":{"term":{"level":"debug"}}}`)
//	if err := req.Validate(); err != nil { ... }
//
//	rest := req.RESTRequest(querygate.V5_0_1)
//	// POST logs/event/_delete_by_query?routing=shardkey
//
//	var frame bytes.Buffer
//	_ = req.Encode(&frame) // version-independent transport form
package querygate
