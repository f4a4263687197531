package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EnvEditor prepares an external editor command using $EDITOR (fallback: "vi").
// It does not run the editor itself: callers hand the *exec.Cmd to tea.Exec
// so Bubble Tea suspends raw terminal mode.
type EnvEditor struct{}

// NewEnvEditor creates an EnvEditor.
func NewEnvEditor() *EnvEditor {
	return &EnvEditor{}
}

const instructionEnd = "-->"

func instructionComment(replyTo string) string {
	var b strings.Builder
	b.WriteString("<!--\nthreadline: write your comment below.\n\n")
	if replyTo != "" {
		fmt.Fprintf(&b, "Replying to %s\n\n", replyTo)
	}
	b.WriteString("- SAVE and EXIT to publish (e.g., :wq in vi).\n")
	b.WriteString("- Emptying the file or making NO CHANGES will cancel.\n")
	b.WriteString(instructionEnd + "\n\n")
	return b.String()
}

// Cmd writes content under an instruction header to a temp file and returns
// the editor command for it. replyTo names the author being answered and may
// be empty.
func (e *EnvEditor) Cmd(content, replyTo string) (*exec.Cmd, string, error) {
	editorCmd := strings.TrimSpace(os.Getenv("EDITOR"))
	if editorCmd == "" {
		editorCmd = "vi"
	}

	tmpFile, err := os.CreateTemp("", "threadline-*.md")
	if err != nil {
		return nil, "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer tmpFile.Close()

	if _, err := tmpFile.WriteString(instructionComment(replyTo) + content); err != nil {
		os.Remove(tmpPath)
		return nil, "", fmt.Errorf("writing to temp file: %w", err)
	}

	fields := strings.Fields(editorCmd)
	args := append(fields[1:], tmpPath)
	cmd := exec.Command(fields[0], args...)
	return cmd, tmpPath, nil
}

// ReadContent reads the temp file, strips the instruction header, trims
// whitespace and removes the file.
func (e *EnvEditor) ReadContent(path string) (string, error) {
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading temp file: %w", err)
	}

	content := string(data)
	if strings.HasPrefix(strings.TrimSpace(content), "<!--") {
		if idx := strings.Index(content, instructionEnd); idx != -1 {
			content = content[idx+len(instructionEnd):]
		}
	}
	return strings.TrimSpace(content), nil
}
