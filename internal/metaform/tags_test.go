// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package metaform

import (
	"testing"
)

func TestTagList_AppendThenBackspace(t *testing.T) {
	// Typing "a," then "b," then Backspace on an empty input leaves
	// exactly one token, and the serialized value is "a" with no
	// trailing separator artifacts.
	tl := &TagList{}
	if err := tl.Append("a"); err != nil {
		t.Fatalf("Append a: %v", err)
	}
	if err := tl.Append("b"); err != nil {
		t.Fatalf("Append b: %v", err)
	}
	tl.RemoveLast()

	if len(tl.Tokens) != 1 || tl.Tokens[0] != "a" {
		t.Fatalf("Tokens = %v, want [a]", tl.Tokens)
	}
	if got := tl.String(); got != "a" {
		t.Errorf("String() = %q, want %q", got, "a")
	}
}

func TestTagList_SerializationSeparator(t *testing.T) {
	tl := &TagList{}
	tl.Append("go")
	tl.Append("chi")
	if got := tl.String(); got != "go, chi" {
		t.Errorf("String() = %q, want %q", got, "go, chi")
	}
}

func TestTagList_TrimsAndDropsDuplicates(t *testing.T) {
	tl := &TagList{}
	tl.Append("  web ")
	tl.Append("web")
	tl.Append("")
	if len(tl.Tokens) != 1 || tl.Tokens[0] != "web" {
		t.Errorf("Tokens = %v, want single trimmed token", tl.Tokens)
	}
}

func TestTagList_MaxTagsRejected(t *testing.T) {
	tl := &TagList{MaxTags: 2}
	tl.Append("a")
	tl.Append("b")
	if err := tl.Append("c"); err == nil {
		t.Fatal("Append past MaxTags: expected error")
	}
	if len(tl.Tokens) != 2 {
		t.Errorf("rejected token must not be stored, got %v", tl.Tokens)
	}
}

func TestParseTags_RoundTrip(t *testing.T) {
	tl := ParseTags("a, b , ,a,c", 0)
	if got := tl.String(); got != "a, b, c" {
		t.Errorf("String() = %q, want %q", got, "a, b, c")
	}
}

func TestTagList_RemoveByIndex(t *testing.T) {
	tl := ParseTags("a, b, c", 0)
	tl.Remove(1)
	if got := tl.String(); got != "a, c" {
		t.Errorf("String() = %q, want %q", got, "a, c")
	}
	tl.Remove(99) // out of range is ignored
	if len(tl.Tokens) != 2 {
		t.Errorf("out-of-range Remove changed tokens: %v", tl.Tokens)
	}
}
