package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRenderText(t *testing.T) {
	code, out, errOut := runCLI(t, "render", "-format", "text", "-log-level", "error")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{"TODO List", "[ ] Сделать домашку", "3 of 3 remaining"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderFragmentFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "todolist.yaml")
	cfg := "widget:\n  heading: Покупки\n  seed: [Хлеб]\nstorage:\n  driver: file\n  path: " + filepath.Join(dir, "state.json") + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	code, out, errOut := runCLI(t, "render", "-config", cfgPath, "-fragment", "-log-level", "error")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if strings.Contains(out, "<html") {
		t.Fatalf("expected fragment, got page")
	}
	if !strings.Contains(out, "Покупки") || !strings.Contains(out, "Хлеб") {
		t.Fatalf("unexpected fragment %s", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	code, _, errOut := runCLI(t, "frobnicate")
	if code != 2 {
		t.Fatalf("exit = %d, want 2", code)
	}
	if !strings.Contains(errOut, `unknown command "frobnicate"`) {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestNoCommandPrintsUsage(t *testing.T) {
	code, _, errOut := runCLI(t)
	if code != 2 || !strings.Contains(errOut, "Commands:") {
		t.Fatalf("exit = %d, stderr = %q", code, errOut)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	blob := filepath.Join(dir, "blob.json")
	files := map[string]string{
		good: `{"todo-list": "{\"items\":[{\"name\":\"a\",\"completed\":false}],\"pendingInput\":\"\"}"}`,
		bad:  `{"todo-list": "{\"items\":[{\"completed\":\"yes\"}]}"}`,
		blob: `{"items":[],"pendingInput":""}`,
	}
	for path, body := range files {
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	code, out, errOut := runCLI(t, "check", good, blob)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "2 file(s) ok") {
		t.Fatalf("stdout = %q", out)
	}

	code, _, errOut = runCLI(t, "check", good, bad)
	if code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if !strings.Contains(errOut, bad+": todo-list.items.0") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestCheckWithoutFiles(t *testing.T) {
	if code, _, _ := runCLI(t, "check"); code != 2 {
		t.Fatalf("exit = %d, want 2", code)
	}
}
