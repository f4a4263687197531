package compose

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runCmd(t *testing.T, cmd tea.Cmd) DoneMsg {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	msg, ok := cmd().(DoneMsg)
	if !ok {
		t.Fatalf("expected DoneMsg")
	}
	return msg
}

func TestInline_SubmitTrimsAndCarriesTarget(t *testing.T) {
	m := NewInline(Target{Kind: KindReply, ID: "42", ReplyTo: "@alice"})
	m.textarea.SetValue("  hello there \n")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	done := runCmd(t, cmd)
	if done.Content != "hello there" || done.Target.ID != "42" || done.Target.Kind != KindReply {
		t.Fatalf("unexpected done msg: %#v", done)
	}
	if done.Cancelled() {
		t.Fatalf("submitted text must not count as cancelled")
	}
}

func TestInline_UnchangedEditCancels(t *testing.T) {
	m := NewInline(Target{Kind: KindEdit, ID: "7", Content: "same"})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if done := runCmd(t, cmd); !done.Cancelled() {
		t.Fatalf("unchanged edit must cancel, got %#v", done)
	}
}

func TestInline_EscCancels(t *testing.T) {
	m := NewInline(Target{Kind: KindCreate})
	m.textarea.SetValue("draft")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if done := runCmd(t, cmd); !done.Cancelled() {
		t.Fatalf("esc must cancel, got %#v", done)
	}
}

func TestView_Headings(t *testing.T) {
	if v := NewInline(Target{Kind: KindReply, ReplyTo: "@bob"}).View(); !strings.Contains(v, "Reply to @bob") {
		t.Fatalf("reply heading missing: %q", v)
	}
	if v := NewInline(Target{Kind: KindEdit, Content: "x"}).View(); !strings.Contains(v, "Edit comment") {
		t.Fatalf("edit heading missing: %q", v)
	}
}
