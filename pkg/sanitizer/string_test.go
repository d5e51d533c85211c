package sanitizer

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Sakura Studio  ",
			want:  "Sakura Studio",
		},
		{
			name:  "multiple spaces between words",
			input: "Sakura    Studio",
			want:  "Sakura Studio",
		},
		{
			name:  "tabs and newlines",
			input: "Sakura\t\nStudio",
			want:  "Sakura Studio",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "japanese characters preserved",
			input: " 渋谷スタジオA ",
			want:  "渋谷スタジオA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Taro@Example.COM "); got != "taro@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
	if got := NormalizeEmail(""); got != "" {
		t.Errorf("NormalizeEmail(empty) = %q", got)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"http://Example.com/Studio", "https://example.com/Studio"},
		{"HTTP://Example.COM/studio", "https://example.com/studio"},
		{"HTTPS://EXAMPLE.COM", "https://example.com"},
		{"example.com", "https://example.com"},
		{"https://example.com/", "https://example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.input); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
