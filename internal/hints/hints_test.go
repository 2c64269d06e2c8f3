package hints

// Notes:
// - ForBrowserConnect tests cannot use t.Parallel(): they call t.Setenv and
//   swap the package-level IsInContainer.

import (
	"path/filepath"
	"strings"
	"testing"
)

func stubContainer(t *testing.T, in bool) {
	t.Helper()
	orig := IsInContainer
	t.Cleanup(func() { IsInContainer = orig })
	IsInContainer = func() bool { return in }
}

func clearCI(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		t.Setenv(key, "")
	}
}

// ---------------------------------------------------------------------------
// TestForBrowserConnect
// ---------------------------------------------------------------------------

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name         string
		ci           string
		container    bool
		noSandbox    string
		browserBin   string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "ci suggests sandbox",
			ci:           "true",
			wantContains: []string{"ROD_NO_SANDBOX", "ROD_BROWSER_BIN", "-f print"},
		},
		{
			name:         "container suggests sandbox",
			container:    true,
			wantContains: []string{"ROD_NO_SANDBOX"},
		},
		{
			name:         "sandbox already set",
			container:    true,
			noSandbox:    "1",
			wantExcludes: []string{"ROD_NO_SANDBOX"},
		},
		{
			name:         "desktop with custom browser",
			browserBin:   "/opt/chrome",
			wantContains: []string{"-f print"},
			wantExcludes: []string{"ROD_NO_SANDBOX", "ROD_BROWSER_BIN"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCI(t)
			stubContainer(t, tt.container)
			t.Setenv("CI", tt.ci)
			t.Setenv("ROD_NO_SANDBOX", tt.noSandbox)
			t.Setenv("ROD_BROWSER_BIN", tt.browserBin)

			got := ForBrowserConnect()
			if !strings.HasPrefix(got, "\n  hint: ") {
				t.Errorf("ForBrowserConnect() = %q, want hint prefix", got)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("ForBrowserConnect() = %q, want %q", got, want)
				}
			}
			for _, bad := range tt.wantExcludes {
				if strings.Contains(got, bad) {
					t.Errorf("ForBrowserConnect() = %q, should not mention %q", got, bad)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestStaticHints
// ---------------------------------------------------------------------------

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	userPath := filepath.Join("home", "u", ".config", "mdkit", "team.yaml")
	tests := []struct {
		name     string
		searched []string
		want     string
	}{
		{"no paths", nil, "\n  hint: use --config /path/to/file.yaml"},
		{"local only", []string{"team.yaml"}, "\n  hint: use --config /path/to/file.yaml"},
		{"user dir", []string{"team.yaml", userPath}, "\n  hint: use --config /path/to/file.yaml or create " + userPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ForConfigNotFound(tt.searched); got != tt.want {
				t.Errorf("ForConfigNotFound() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestForChoices(t *testing.T) {
	t.Parallel()

	if got := ForChoices(nil); got != "" {
		t.Errorf("ForChoices(nil) = %q, want empty", got)
	}
	if got, want := ForChoices([]string{"lite", "gfm"}), "\n  hint: available: lite, gfm"; got != want {
		t.Errorf("ForChoices() = %q, want %q", got, want)
	}
}

func TestFixedHints(t *testing.T) {
	t.Parallel()

	for name, got := range map[string]string{
		"timeout": ForTimeout(),
		"output":  ForOutputDirectory(),
		"range":   ForRangeTooSmall(),
	} {
		if !strings.HasPrefix(got, "\n  hint: ") || len(got) <= len("\n  hint: ") {
			t.Errorf("%s hint = %q", name, got)
		}
	}
}
