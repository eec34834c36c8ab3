package querygate

import (
	"net/http"
	"strings"
)

// RESTStrategy is the HTTP surface a peer version expects: the method
// and the action segment closing the endpoint path.
type RESTStrategy struct {
	Method string
	Action string
}

var (
	legacyStrategy  = RESTStrategy{Method: http.MethodDelete, Action: "_query"}
	currentStrategy = RESTStrategy{Method: http.MethodPost, Action: "_delete_by_query"}
)

// SelectRESTStrategy picks the REST surface for a peer version. It is a
// pure function of the version: everything before V5_0_0 gets the legacy
// DELETE /_query surface, everything else the POST /_delete_by_query one.
func SelectRESTStrategy(v Version) RESTStrategy {
	if v.OnOrAfter(V5_0_0) {
		return currentStrategy
	}
	return legacyStrategy
}

// Endpoint builds the request path: comma-joined indices, comma-joined
// types, then the action. Empty segments contribute neither text nor a
// separator; segments are not additionally encoded.
func (s RESTStrategy) Endpoint(indices, types []string) string {
	segments := make([]string, 0, 3)
	if len(indices) > 0 {
		segments = append(segments, strings.Join(indices, ","))
	}
	if len(types) > 0 {
		segments = append(segments, strings.Join(types, ","))
	}
	segments = append(segments, s.Action)
	return strings.Join(segments, "/")
}

// RESTRequest is the HTTP form of a request for a specific peer version.
type RESTRequest struct {
	Method   string
	Endpoint string
	Params   map[string]string
	Body     []byte
}

// RESTRequest maps the request onto the REST surface of the given peer
// version. The body is the query source as-is; a borrowed source buffer
// is copied before it is exposed here.
func (r *DeleteByQueryRequest) RESTRequest(v Version) RESTRequest {
	s := SelectRESTStrategy(v)
	params := map[string]string{}
	if r.routing != "" {
		params["routing"] = r.routing
	}
	return RESTRequest{
		Method:   s.Method,
		Endpoint: s.Endpoint(r.base.indices, r.types),
		Params:   params,
		Body:     r.Source(),
	}
}
