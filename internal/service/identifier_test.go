package service

import "testing"

func TestParseIdentifierClassification(t *testing.T) {
	cases := []struct {
		raw   string
		kind  IdentifierKind
		index int
		slug  string
	}{
		{raw: "", kind: IdentifierDefault},
		{raw: "default", kind: IdentifierDefault},
		{raw: "0", kind: IdentifierDefault},
		{raw: "1", kind: IdentifierIndex, index: 1},
		{raw: "42", kind: IdentifierIndex, index: 42},
		{raw: "007", kind: IdentifierIndex, index: 7},
		{raw: "blog", kind: IdentifierSlug, slug: "blog"},
		{raw: "my-page", kind: IdentifierSlug, slug: "my-page"},
		{raw: "1a", kind: IdentifierSlug, slug: "1a"},
		{raw: "Default", kind: IdentifierSlug, slug: "Default"},
		{raw: "-1", kind: IdentifierSlug, slug: "-1"},
	}

	for _, tc := range cases {
		got := ParseIdentifier(tc.raw)
		if got.Kind != tc.kind {
			t.Fatalf("ParseIdentifier(%q): expected kind %d, got %d", tc.raw, tc.kind, got.Kind)
		}
		if tc.kind == IdentifierIndex && got.Index != tc.index {
			t.Fatalf("ParseIdentifier(%q): expected index %d, got %d", tc.raw, tc.index, got.Index)
		}
		if tc.kind == IdentifierSlug && got.Slug != tc.slug {
			t.Fatalf("ParseIdentifier(%q): expected slug %s, got %s", tc.raw, tc.slug, got.Slug)
		}
	}
}

func TestParseIdentifierDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := ParseIdentifier("blog"); got.Kind != IdentifierSlug || got.Slug != "blog" {
			t.Fatalf("expected stable slug classification, got %+v", got)
		}
	}
}
