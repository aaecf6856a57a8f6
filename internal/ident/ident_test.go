package ident

import "testing"

func TestSlug(t *testing.T) {
	cases := []struct {
		name     string
		label    string
		fallback string
		seed     string
		want     string
	}{
		{name: "plain", label: "Fruits", want: "fruits"},
		{name: "spaces collapse", label: "Red   Apples and  Pears", want: "red-apples-and-pears"},
		{name: "diacritics", label: "Crème Brûlée", want: "creme-brulee"},
		{name: "punctuation removed", label: "Hello, World!", want: "hello-world"},
		{name: "keeps dashes", label: "group-a", want: "group-a"},
		{name: "unicode letters", label: "Группа 1", want: "группа-1"},
		{name: "empty uses seed", label: "  ", seed: "r:1:", want: "invalid-option-r1"},
		{name: "symbols use fallback", label: "!!!", fallback: "group", seed: "7", want: "group-7"},
		{name: "no seed", label: "", fallback: "empty", want: "empty"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slug(tc.label, tc.fallback, tc.seed); got != tc.want {
				t.Fatalf("Slug(%q) = %q, want %q", tc.label, got, tc.want)
			}
		})
	}
}
