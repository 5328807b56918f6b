package parley

import (
	"reflect"
	"testing"
)

func TestResolveFamily(t *testing.T) {
	cases := []struct {
		provider string
		family   Family
		ok       bool
	}{
		{"openai", FamilyOpenAICompatible, true},
		{"openrouter", FamilyOpenAICompatible, true},
		{"opencode", FamilyOpenAICompatible, true},
		{"zenmux", FamilyOpenAICompatible, true},
		{"anthropic", FamilyAnthropic, true},
		{"google", FamilyGoogle, true},
		{"made-up-vendor", "", false},
		{"OpenAI", "", false}, // lookups are case-sensitive
	}
	for _, tc := range cases {
		family, ok := ResolveFamily(tc.provider)
		if ok != tc.ok || family != tc.family {
			t.Errorf("ResolveFamily(%q) = (%q, %v), want (%q, %v)",
				tc.provider, family, ok, tc.family, tc.ok)
		}
	}
}

func TestDefaultBaseURL(t *testing.T) {
	cases := []struct {
		provider string
		url      string
		ok       bool
	}{
		{"openai", "https://api.openai.com/v1", true},
		{"openrouter", "https://openrouter.ai/api/v1", true},
		{"opencode", "https://opencode.ai/zen/v1", true},
		{"zenmux", "https://zenmux.ai/api/v1", true},
		{"anthropic", "https://api.anthropic.com/v1", true},
		{"google", "https://generativelanguage.googleapis.com/v1beta", true},
		{"made-up-vendor", "", false},
	}
	for _, tc := range cases {
		url, ok := DefaultBaseURL(tc.provider)
		if ok != tc.ok || url != tc.url {
			t.Errorf("DefaultBaseURL(%q) = (%q, %v), want (%q, %v)",
				tc.provider, url, ok, tc.url, tc.ok)
		}
	}
}

func TestProvidersSorted(t *testing.T) {
	want := []string{"anthropic", "google", "openai", "opencode", "openrouter", "zenmux"}
	if got := Providers(); !reflect.DeepEqual(got, want) {
		t.Errorf("Providers() = %v, want %v", got, want)
	}
}
