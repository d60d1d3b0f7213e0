package pgcache

import "testing"

func TestCacheKey(t *testing.T) {
	a := CacheKey("openai/text-embedding-3-small", "Warfarin Anticoagulant")
	b := CacheKey("openai/text-embedding-3-small", "Warfarin Anticoagulant")
	if a != b {
		t.Fatalf("CacheKey() not deterministic: %q vs %q", a, b)
	}
	if len(a) != 40 {
		t.Fatalf("CacheKey() length = %d, want 40", len(a))
	}

	tests := []struct {
		name          string
		encoder, text string
	}{
		{name: "other encoder", encoder: "ollama/nomic-embed-text", text: "Warfarin Anticoagulant"},
		{name: "other text", encoder: "openai/text-embedding-3-small", text: "Ibuprofen NSAID"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CacheKey(tc.encoder, tc.text); got == a {
				t.Fatalf("CacheKey(%q, %q) collided with base key", tc.encoder, tc.text)
			}
		})
	}
}
