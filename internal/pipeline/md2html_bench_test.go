//go:build bench

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// BenchmarkEngines compares the two HTML engines on the same documents.
func BenchmarkEngines(b *testing.B) {
	ctx := context.Background()
	engines := []struct {
		name string
		conv HTMLConverter
	}{
		{EngineLite, &LiteConverter{}},
		{EngineGFM, NewGoldmarkConverter()},
	}
	inputs := []struct {
		name    string
		content string
	}{
		{"minimal", "# Hello\n\nWorld"},
		{"tables", generateTables(10)},
		{"code", strings.Repeat("```go\nfunc f() int { return 1 }\n```\n\n", 20)},
	}

	for _, e := range engines {
		for _, in := range inputs {
			b.Run(e.name+"/"+in.name, func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					if _, err := e.conv.ToHTML(ctx, in.content); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func generateTables(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "| col %d | value |\n|---|---|\n| a | b |\n| c | d |\n\n", i)
	}
	return sb.String()
}
