package main

// Notes:
// - Expression semantics are tested in internal/calc. These tests cover the
//   one-shot command and the line loop in batch and interactive mode.

import (
	"bytes"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunCalcCmd - One-shot evaluation
// ---------------------------------------------------------------------------

func TestRunCalcCmd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"simple", []string{"2+3*4"}, ExitSuccess, "14\n", ""},
		{"joined args", []string{"2", "^", "10"}, ExitSuccess, "1024\n", ""},
		{"function", []string{"sqrt(16)"}, ExitSuccess, "4\n", ""},
		{"syntax error", []string{"2+"}, ExitUsage, "", "error:"},
		{"domain error", []string{"sqrt(-1)"}, ExitUsage, "", "error:"},
		{"help", []string{"--help"}, ExitSuccess, "Usage: mdkit calc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			if code := runCalcCmd(tt.args, env); code != tt.wantCode {
				t.Errorf("runCalcCmd(%v) = %d, want %d", tt.args, code, tt.wantCode)
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", stdout, tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", stderr, tt.wantStderr)
			}
		})
	}
}

func TestRunCalcCmd_ReadsStdin(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv()
	env.Stdin = strings.NewReader("1+1\n3*3\n")

	if code := runCalcCmd(nil, env); code != ExitSuccess {
		t.Fatalf("runCalcCmd() = %d", code)
	}
	if stdout.String() != "2\n9\n" {
		t.Errorf("stdout = %q, want %q", stdout, "2\n9\n")
	}
}

// ---------------------------------------------------------------------------
// TestRunCalcLoop
// ---------------------------------------------------------------------------

func TestRunCalcLoop_Batch(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	code := runCalcLoop(strings.NewReader("1+2\n\n2+\nhistory\n4/2\n"), &out, &errOut, false)

	if code != ExitUsage {
		t.Errorf("runCalcLoop() = %d, want %d after a failed line", code, ExitUsage)
	}
	if out.String() != "3\n2\n" {
		t.Errorf("stdout = %q, want %q", out.String(), "3\n2\n")
	}
	// "history" is an expression in batch mode, so it fails too.
	if got := strings.Count(errOut.String(), "error:"); got != 2 {
		t.Errorf("stderr = %q, want 2 errors", errOut.String())
	}
	if strings.Contains(out.String(), calcPrompt) {
		t.Error("batch mode should not print a prompt")
	}
}

func TestRunCalcLoop_Interactive(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	in := strings.NewReader("1+2\n2*5\nhistory\nclear\nhistory\nexit\n7*7\n")
	code := runCalcLoop(in, &out, &errOut, true)

	if code != ExitSuccess {
		t.Errorf("runCalcLoop() = %d, want %d", code, ExitSuccess)
	}
	got := out.String()
	for _, want := range []string{"mdkit calc:", calcPrompt, "2*5 = 10\n1+2 = 3\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("stdout = %q, want to contain %q", got, want)
		}
	}
	if strings.Count(got, "1+2 = 3") != 1 {
		t.Errorf("stdout = %q, history should be empty after clear", got)
	}
	if strings.Contains(got, "49") {
		t.Errorf("stdout = %q, input after exit should be ignored", got)
	}
}

func TestRunCalcLoop_InteractiveErrorKeepsGoing(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	code := runCalcLoop(strings.NewReader("foo(1)\n5!\n"), &out, &errOut, true)

	if code != ExitUsage {
		t.Errorf("runCalcLoop() = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(out.String(), "120") {
		t.Errorf("stdout = %q, want 120 after the error", out.String())
	}
	if !strings.HasSuffix(out.String(), "\n") {
		t.Errorf("stdout = %q, want trailing newline at EOF", out.String())
	}
}
