package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/iksnae/cursor-chat-browser/internal"
)

func TestTabsCommand(t *testing.T) {
	layout := setupStorage(t)

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{
			name: "composer workspace",
			args: []string{"tabs", "composer-ws"},
			want: []string{"Found 1 chat(s)", "c1", "Test"},
		},
		{
			name: "legacy workspace",
			args: []string{"tabs", "legacy-ws"},
			want: []string{"t1", "Legacy chat"},
		},
		{
			name:    "missing workspace",
			args:    []string{"tabs", "missing-ws"},
			wantErr: true,
		},
		{
			name:    "invalid workspace id",
			args:    []string{"tabs", ".."},
			wantErr: true,
		},
		{
			name:    "missing argument",
			args:    []string{"tabs"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--storage", layout.WorkspaceStorage}, tt.args...)
			out, err := runCLI(t, args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output does not contain %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestFindTab(t *testing.T) {
	resp := &internal.TabsResponse{Tabs: []internal.ChatTab{*internal.CreateTestTab("a"), *internal.CreateTestTab("b")}}

	tab, err := findTab(resp, "b")
	if err != nil || tab.ID != "b" {
		t.Errorf("findTab(b) = (%v, %v)", tab, err)
	}
	if _, err := findTab(resp, "c"); err == nil {
		t.Error("findTab(c) should fail")
	}
}

func TestShowCommand(t *testing.T) {
	layout := setupStorage(t)

	out, err := runCLI(t, "--storage", layout.WorkspaceStorage, "show", "composer-ws", "c1", "--raw")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"# Test", "### User", "hi there", "### AI (gpt-4)", "hello back"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}

	if _, err := runCLI(t, "--storage", layout.WorkspaceStorage, "show", "composer-ws", "nope"); err == nil {
		t.Error("show of a missing chat should fail")
	}
}

func TestRenderTerminal(t *testing.T) {
	out := renderTerminal("# Heading\n\nSome text\n", 40)
	if !strings.Contains(out, "Heading") || !strings.Contains(out, "Some text") {
		t.Errorf("renderTerminal() = %q", out)
	}
}

func TestCopyCommand(t *testing.T) {
	layout := setupStorage(t)

	var copied string
	orig := writeClipboard
	writeClipboard = func(text string) error {
		copied = text
		return nil
	}
	defer func() { writeClipboard = orig }()

	if _, err := runCLI(t, "--storage", layout.WorkspaceStorage, "copy", "legacy-ws", "t1"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(copied, "# Legacy chat") || !strings.Contains(copied, "old answer") {
		t.Errorf("copied = %q", copied)
	}

	writeClipboard = func(string) error { return errors.New("no clipboard") }
	if _, err := runCLI(t, "--storage", layout.WorkspaceStorage, "copy", "legacy-ws", "t1"); err == nil {
		t.Error("copy should fail when the clipboard is unavailable")
	}
}
