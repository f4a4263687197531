package common

import (
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 5); got != "hell…" {
		t.Fatalf("unexpected truncate result: %q", got)
	}
	if got := Truncate("hi", 5); got != "hi" {
		t.Fatalf("short strings must be untouched: %q", got)
	}
	if got := Truncate("hi", 0); got != "" {
		t.Fatalf("zero width must be empty: %q", got)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in   time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-49 * time.Hour), "2d"},
		{now.Add(-30 * 24 * time.Hour), "Apr 10 2024"},
		{time.Time{}, ""},
	}
	for _, tc := range tests {
		if got := RelativeTime(tc.in, now); got != tc.want {
			t.Fatalf("RelativeTime(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIndent(t *testing.T) {
	if Indent(0) != "" || Indent(2) != "│ │ " {
		t.Fatalf("unexpected indent output")
	}
}
