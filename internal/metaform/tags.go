// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package metaform

import (
	"fmt"
	"strings"
)

// TagSeparator is the canonical separator used when a token list is
// serialized back into its single-string form value.
const TagSeparator = ", "

// TagList edits a list of short string tokens whose form-model value is
// a single comma-joined string. Tokens are trimmed and de-duplicated.
// MaxTags of zero means unlimited.
type TagList struct {
	Tokens  []string
	MaxTags int
}

// ParseTags splits a comma-joined form value into a TagList, dropping
// empty and duplicate tokens.
func ParseTags(value string, maxTags int) *TagList {
	tl := &TagList{MaxTags: maxTags}
	for _, part := range strings.Split(value, ",") {
		tok := strings.TrimSpace(part)
		if tok == "" || tl.contains(tok) {
			continue
		}
		tl.Tokens = append(tl.Tokens, tok)
	}
	return tl
}

// Append adds a trimmed token. Duplicates are silently dropped; a token
// past the configured maximum is rejected with an error the UI shows as
// a notice.
func (tl *TagList) Append(token string) error {
	tok := strings.TrimSpace(token)
	if tok == "" || tl.contains(tok) {
		return nil
	}
	if tl.MaxTags > 0 && len(tl.Tokens) >= tl.MaxTags {
		return fmt.Errorf("at most %d tags allowed", tl.MaxTags)
	}
	tl.Tokens = append(tl.Tokens, tok)
	return nil
}

// RemoveLast drops the last token. Bound to Backspace on an empty input.
func (tl *TagList) RemoveLast() {
	if len(tl.Tokens) > 0 {
		tl.Tokens = tl.Tokens[:len(tl.Tokens)-1]
	}
}

// Remove drops the token at index i, ignoring out-of-range indices.
func (tl *TagList) Remove(i int) {
	if i < 0 || i >= len(tl.Tokens) {
		return
	}
	tl.Tokens = append(tl.Tokens[:i], tl.Tokens[i+1:]...)
}

// String re-serializes the token list into the comma-joined form value.
func (tl *TagList) String() string {
	return strings.Join(tl.Tokens, TagSeparator)
}

func (tl *TagList) contains(token string) bool {
	for _, t := range tl.Tokens {
		if t == token {
			return true
		}
	}
	return false
}
