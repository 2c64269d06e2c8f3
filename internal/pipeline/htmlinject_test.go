package pipeline

import (
	"context"
	"testing"
)

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain rule", "p { margin: 0; }", "p { margin: 0; }"},
		{"style close", "</style>", `<\/style>`},
		{"repeated", "</a></b>", `<\/a><\/b>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := sanitizeCSS(tt.input); got != tt.want {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		css  string
		want string
	}{
		{
			name: "before head close",
			html: "<html><head><title>x</title></head><body></body></html>",
			css:  "p{}",
			want: "<html><head><title>x</title><style>p{}</style></head><body></body></html>",
		},
		{
			name: "uppercase head",
			html: "<HTML><HEAD></HEAD></HTML>",
			css:  "p{}",
			want: "<HTML><HEAD><style>p{}</style></HEAD></HTML>",
		},
		{
			name: "after body open",
			html: `<body class="a"><p>x</p></body>`,
			css:  "p{}",
			want: `<body class="a"><style>p{}</style><p>x</p></body>`,
		},
		{
			name: "fragment prepended",
			html: "<p>x</p>",
			css:  "p{}",
			want: "<style>p{}</style><p>x</p>",
		},
		{
			name: "empty css is noop",
			html: "<p>x</p>",
			css:  "",
			want: "<p>x</p>",
		},
		{
			name: "css sanitized",
			html: "<p>x</p>",
			css:  "</style><script>",
			want: `<style><\/style><script></style><p>x</p>`,
		},
	}

	injector := &CSSInjection{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := injector.InjectCSS(context.Background(), tt.html, tt.css); got != tt.want {
				t.Errorf("InjectCSS() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInjectCSS_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := "<head></head>"
	if got := (&CSSInjection{}).InjectCSS(ctx, in, "p{}"); got != in {
		t.Errorf("InjectCSS() = %q, want unchanged on cancelled context", got)
	}
}
