package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "japanese mobile without prefix",
			input: "090-1234-5678",
			want:  "+819012345678",
		},
		{
			name:  "already E164",
			input: "+819012345678",
			want:  "+819012345678",
		},
		{
			name:  "us number with punctuation",
			input: "(212) 555-0175",
			want:  "+12125550175",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "garbage collapses to empty",
			input: "call me maybe",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
