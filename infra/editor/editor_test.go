package editor

import (
	"os"
	"strings"
	"testing"
)

func TestCmd_UsesEditorAndWritesTemplate(t *testing.T) {
	t.Setenv("EDITOR", "code --wait")
	e := NewEnvEditor()

	cmd, path, err := e.Cmd("hello", "@alice")
	if err != nil {
		t.Fatalf("cmd failed: %v", err)
	}
	defer os.Remove(path)
	if len(cmd.Args) != 3 || cmd.Args[0] != "code" || cmd.Args[1] != "--wait" || cmd.Args[2] != path {
		t.Fatalf("unexpected command args: %#v", cmd.Args)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read temp file failed: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "Replying to @alice") || !strings.Contains(text, "hello") {
		t.Fatalf("unexpected template content: %q", text)
	}
}

func TestCmd_NoReplyHeaderForTopLevel(t *testing.T) {
	t.Setenv("EDITOR", "")
	cmd, path, err := NewEnvEditor().Cmd("", "")
	if err != nil {
		t.Fatalf("cmd failed: %v", err)
	}
	defer os.Remove(path)
	if cmd.Args[0] != "vi" {
		t.Fatalf("expected vi fallback, got %q", cmd.Args[0])
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "Replying to") {
		t.Fatalf("top-level template must not mention a reply: %q", data)
	}
}

func TestReadContent_StripsInstructionAndDeletesFile(t *testing.T) {
	e := NewEnvEditor()
	f, err := os.CreateTemp("", "threadline-test-*.md")
	if err != nil {
		t.Fatalf("create temp failed: %v", err)
	}
	path := f.Name()
	_, _ = f.WriteString(instructionComment("@bob") + "\nline1\nline2\n")
	_ = f.Close()

	content, err := e.ReadContent(path)
	if err != nil {
		t.Fatalf("read content failed: %v", err)
	}
	if content != "line1\nline2" {
		t.Fatalf("unexpected content: %q", content)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be deleted")
	}
}

func TestReadContent_KeepsArrowsInBody(t *testing.T) {
	f, err := os.CreateTemp("", "threadline-test-*.md")
	if err != nil {
		t.Fatalf("create temp failed: %v", err)
	}
	_, _ = f.WriteString("a --> b")
	_ = f.Close()

	content, err := NewEnvEditor().ReadContent(f.Name())
	if err != nil || content != "a --> b" {
		t.Fatalf("body without header must be untouched, got %q err=%v", content, err)
	}
}
