package filterdto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/kailas-cloud/querygate"
)

func parseNode(t *testing.T, src string) *Node {
	t.Helper()
	var n Node
	if err := json.Unmarshal([]byte(src), &n); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return &n
}

func render(t *testing.T, f querygate.Filter, v querygate.Version) string {
	t.Helper()
	b, err := querygate.RenderFilter(f, v)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(b)
}

func TestToFilter(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		version querygate.Version
		want    string
	}{
		{
			name:    "term",
			src:     `{"term":{"user":"kimchy"}}`,
			version: querygate.Current,
			want:    `{"term":{"user":"kimchy"}}`,
		},
		{
			name:    "raw passthrough",
			src:     `{"raw":{"exists":{"field":"user"}}}`,
			version: querygate.Current,
			want:    `{"exists":{"field":"user"}}`,
		},
		{
			name:    "not legacy",
			src:     `{"not":{"filter":{"term":{"user":"kimchy"}},"cache":true,"name":"n"}}`,
			version: querygate.V2_4_3,
			want:    `{"not":{"filter":{"term":{"user":"kimchy"}},"_cache":true,"_name":"n"}}`,
		},
		{
			name:    "not current",
			src:     `{"not":{"filter":{"term":{"user":"kimchy"}},"cache":true,"name":"n"}}`,
			version: querygate.V5_0_0,
			want:    `{"bool":{"must_not":[{"term":{"user":"kimchy"}}],"_cache":true,"_name":"n"}}`,
		},
		{
			name:    "bool composite",
			src:     `{"bool":{"must":[{"term":{"a":1}}],"must_not":[{"term":{"b":2}}]}}`,
			version: querygate.Current,
			want:    `{"bool":{"must":[{"term":{"a":1}}],"must_not":[{"term":{"b":2}}]}}`,
		},
		{
			name:    "nested not inside bool",
			src:     `{"bool":{"must":[{"not":{"filter":{"term":{"a":1}}}}]}}`,
			version: querygate.V5_0_1,
			want:    `{"bool":{"must":[{"bool":{"must_not":[{"term":{"a":1}}]}}]}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ToFilter(parseNode(t, tt.src))
			if err != nil {
				t.Fatalf("ToFilter: %v", err)
			}
			if got := render(t, f, tt.version); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestToFilter_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"no variant", `{}`, "exactly one of"},
		{"two variants", `{"term":{"a":1},"raw":{}}`, "exactly one of"},
		{"term with two fields", `{"term":{"a":1,"b":2}}`, "exactly one field"},
		{"not without child", `{"not":{}}`, "requires a child"},
		{"bad clause indexed", `{"bool":{"must":[{"term":{"a":1}},{}]}}`, "bool must[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToFilter(parseNode(t, tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}
