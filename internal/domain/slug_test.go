package domain

import (
	"reflect"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{name: "punctuation trimmed", title: "HVAC Marketing Blueprint!!", expected: "hvac-marketing-blueprint"},
		{name: "spaces collapsed", title: "  Multiple   Spaces  ", expected: "multiple-spaces"},
		{name: "already a slug", title: "hvac-tips", expected: "hvac-tips"},
		{name: "mixed separators", title: "Google Ads vs. Facebook Ads: Which is Better?", expected: "google-ads-vs-facebook-ads-which-is-better"},
		{name: "digits kept", title: "Top 10 SEO Tips (2024)", expected: "top-10-seo-tips-2024"},
		{name: "non ascii treated as separator", title: "Café Marketing", expected: "caf-marketing"},
		{name: "only symbols", title: "!!!", expected: ""},
		{name: "empty", title: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.title); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.expected)
			}
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	title := "How to Dominate Local SEO in Calgary"
	first := Slugify(title)
	for i := 0; i < 5; i++ {
		if got := Slugify(title); got != first {
			t.Fatalf("Slugify not deterministic: %q != %q", got, first)
		}
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags(" SEO, Local Marketing ,, Calgary ,")
	want := []string{"SEO", "Local Marketing", "Calgary"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitTags() = %v, want %v", got, want)
	}
}

func TestParseLeadStatus(t *testing.T) {
	for _, s := range LeadStatuses {
		if _, err := ParseLeadStatus(string(s)); err != nil {
			t.Errorf("ParseLeadStatus(%q) unexpected error: %v", s, err)
		}
	}
	if _, err := ParseLeadStatus("archived"); err == nil {
		t.Error("ParseLeadStatus(archived) should fail")
	}
}

func TestParsePostStatus(t *testing.T) {
	if s, err := ParsePostStatus("published"); err != nil || s != PostPublished {
		t.Errorf("ParsePostStatus(published) = %v, %v", s, err)
	}
	if _, err := ParsePostStatus("scheduled"); err == nil {
		t.Error("ParsePostStatus(scheduled) should fail")
	}
}
