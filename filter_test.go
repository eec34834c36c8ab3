package querygate

import (
	"bytes"
	"testing"
)

func mustNotFilter(t *testing.T, child Filter) *NotFilter {
	t.Helper()
	f, err := NewNotFilter(child)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return f
}

func TestTermFilter_Source(t *testing.T) {
	got, err := RenderFilter(NewTermFilter("user", "kimchy"), Current)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"term":{"user":"kimchy"}}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestNotFilter_NilChild(t *testing.T) {
	if _, err := NewNotFilter(nil); err == nil {
		t.Fatal("expected error for nil child")
	}
}

func TestNotFilter_LegacyShape(t *testing.T) {
	child := NewTermFilter("user", "kimchy")

	tests := []struct {
		name   string
		filter *NotFilter
		want   string
	}{
		{
			name:   "bare",
			filter: mustNotFilter(t, child),
			want:   `{"not":{"filter":{"term":{"user":"kimchy"}}}}`,
		},
		{
			name:   "cache true",
			filter: mustNotFilter(t, child).Cache(true),
			want:   `{"not":{"filter":{"term":{"user":"kimchy"}},"_cache":true}}`,
		},
		{
			name:   "cache false",
			filter: mustNotFilter(t, child).Cache(false),
			want:   `{"not":{"filter":{"term":{"user":"kimchy"}},"_cache":false}}`,
		},
		{
			name:   "cache and name",
			filter: mustNotFilter(t, child).Cache(true).Named("n"),
			want:   `{"not":{"filter":{"term":{"user":"kimchy"}},"_cache":true,"_name":"n"}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderFilter(tt.filter, V2_4_3)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNotFilter_CurrentShape(t *testing.T) {
	f := mustNotFilter(t, NewTermFilter("user", "kimchy")).Cache(true).Named("n")

	got, err := RenderFilter(f, V5_0_0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"bool":{"must_not":[{"term":{"user":"kimchy"}}],"_cache":true,"_name":"n"}}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// A rewritten not filter must render byte-identically to the bool filter
// a caller would have built by hand.
func TestNotFilter_MatchesEquivalentBool(t *testing.T) {
	child := NewTermFilter("user", "kimchy")
	not := mustNotFilter(t, child).Cache(true).Named("n")
	equiv := NewBoolFilter().MustNot(child).Cache(true).Named("n")

	for _, v := range []Version{V5_0_0, V5_0_1, Current} {
		gotNot, err := RenderFilter(not, v)
		if err != nil {
			t.Fatalf("not: unexpected error: %v", err)
		}
		gotBool, err := RenderFilter(equiv, v)
		if err != nil {
			t.Fatalf("bool: unexpected error: %v", err)
		}
		if !bytes.Equal(gotNot, gotBool) {
			t.Errorf("version %s: not rendered %s, bool rendered %s", v, gotNot, gotBool)
		}
	}
}

func TestNotFilter_ThresholdBoundary(t *testing.T) {
	f := mustNotFilter(t, NewTermFilter("a", 1))

	below, err := RenderFilter(f, V2_4_3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(below) != `{"not":{"filter":{"term":{"a":1}}}}` {
		t.Errorf("below threshold: got %s", below)
	}

	at, err := RenderFilter(f, V5_0_0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(at) != `{"bool":{"must_not":[{"term":{"a":1}}]}}` {
		t.Errorf("at threshold: got %s", at)
	}
}

func TestNotFilter_Nested(t *testing.T) {
	inner := mustNotFilter(t, NewTermFilter("a", 1))
	outer := mustNotFilter(t, inner)

	got, err := RenderFilter(outer, V5_0_0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"bool":{"must_not":[{"bool":{"must_not":[{"term":{"a":1}}]}}]}}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestBoolFilter_AllClauses(t *testing.T) {
	f := NewBoolFilter().
		Must(NewTermFilter("a", 1)).
		Should(NewTermFilter("b", 2), NewTermFilter("c", 3)).
		MustNot(NewTermFilter("d", 4))

	got, err := RenderFilter(f, Current)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"bool":{"must":[{"term":{"a":1}}],"should":[{"term":{"b":2}},{"term":{"c":3}}],"must_not":[{"term":{"d":4}}]}}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestBoolFilter_Empty(t *testing.T) {
	got, err := RenderFilter(NewBoolFilter(), Current)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"bool":{}}` {
		t.Errorf("got %s", got)
	}
}

func TestRawFilter_Passthrough(t *testing.T) {
	raw := RawFilter(`{"exists":{"field":"user"}}`)

	f := mustNotFilter(t, raw)
	got, err := RenderFilter(f, V2_4_0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"not":{"filter":{"exists":{"field":"user"}}}}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestRenderFilter_Deterministic(t *testing.T) {
	f := mustNotFilter(t, NewTermFilter("user", "kimchy")).Cache(true).Named("n")

	first, err := RenderFilter(f, V5_0_1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := RenderFilter(f, V5_0_1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("render %d differs: %s vs %s", i, first, again)
		}
	}
}
