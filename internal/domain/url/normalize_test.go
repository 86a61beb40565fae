package url

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "http scheme unchanged",
			input: "http://example.com",
			want:  "http://example.com",
		},
		{
			name:  "https scheme unchanged",
			input: "https://example.com",
			want:  "https://example.com",
		},
		{
			name:  "domain gets https",
			input: "example.com",
			want:  "https://example.com",
		},
		{
			name:  "domain with path gets https",
			input: "example.com/path",
			want:  "https://example.com/path",
		},
		{
			name:  "free text unchanged",
			input: "hello world",
			want:  "hello world",
		},
		{
			name:  "single word unchanged",
			input: "hello",
			want:  "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain domain",
			input: "https://example.com",
			want:  "example.com",
		},
		{
			name:  "www stripped",
			input: "https://www.youtube.com/watch",
			want:  "youtube.com",
		},
		{
			name:  "port kept",
			input: "http://localhost:5173",
			want:  "localhost:5173",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "not a url",
			input: "hello world",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDomain(tt.input); got != tt.want {
				t.Errorf("ExtractDomain(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestOrigin(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "https origin",
			input: "https://example.com/some/path?q=1",
			want:  "https://example.com",
		},
		{
			name:  "www preserved in origin",
			input: "https://www.example.com/path",
			want:  "https://www.example.com",
		},
		{
			name:  "schemeless input rejected",
			input: "example.com",
			want:  "",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Origin(tt.input); got != tt.want {
				t.Errorf("Origin(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
