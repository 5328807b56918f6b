package parley

import "sort"

// Family selects the wire schema a provider speaks.
type Family string

const (
	// FamilyOpenAICompatible covers OpenAI and every service exposing
	// its chat-completions schema.
	FamilyOpenAICompatible Family = "openai-compatible"

	// FamilyAnthropic is the Anthropic messages schema.
	FamilyAnthropic Family = "anthropic"

	// FamilyGoogle is the Gemini generateContent REST schema.
	FamilyGoogle Family = "google"
)

// providerInfo is one registry row.
type providerInfo struct {
	family     Family
	baseURL    string
	aggregator bool // sends the referrer header pair
}

// registry maps provider ids (exact, case-sensitive) to their wire
// family and default endpoint. The table is immutable; concurrent
// calls share it without synchronization.
var registry = map[string]providerInfo{
	"openai":     {family: FamilyOpenAICompatible, baseURL: "https://api.openai.com/v1"},
	"openrouter": {family: FamilyOpenAICompatible, baseURL: "https://openrouter.ai/api/v1", aggregator: true},
	"opencode":   {family: FamilyOpenAICompatible, baseURL: "https://opencode.ai/zen/v1", aggregator: true},
	"zenmux":     {family: FamilyOpenAICompatible, baseURL: "https://zenmux.ai/api/v1", aggregator: true},
	"anthropic":  {family: FamilyAnthropic, baseURL: "https://api.anthropic.com/v1"},
	"google":     {family: FamilyGoogle, baseURL: "https://generativelanguage.googleapis.com/v1beta"},
}

// ResolveFamily returns the wire family for a provider id.
func ResolveFamily(provider string) (Family, bool) {
	info, ok := registry[provider]
	return info.family, ok
}

// DefaultBaseURL returns the built-in endpoint for a provider id.
func DefaultBaseURL(provider string) (string, bool) {
	info, ok := registry[provider]
	return info.baseURL, ok
}

// Providers returns the known provider ids, sorted.
func Providers() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
