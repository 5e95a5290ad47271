package dialogue

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Keywords is a compiled keyword list. Every entry is a sequence of one or more
// tokens; multi-word entries such as "hasta luego" match only as a contiguous run
// in the tokenized message.
type Keywords [][]string

// CompileKeywords lowercases, composes (NFC) and splits every entry on
// whitespace, the same shape the tokenizer produces
func CompileKeywords(entries []string) Keywords {
	out := make(Keywords, 0, len(entries))
	for _, e := range entries {
		parts := strings.Fields(norm.NFC.String(strings.ToLower(e)))
		if len(parts) == 0 {
			continue
		}
		out = append(out, parts)
	}
	return out
}

// Match reports whether any entry occurs in tokens
func (k Keywords) Match(tokens []string) bool {
	for _, phrase := range k {
		if containsRun(tokens, phrase) {
			return true
		}
	}
	return false
}

// Empty reports whether the list has no entries
func (k Keywords) Empty() bool {
	return len(k) == 0
}

func containsRun(tokens, phrase []string) bool {
	if len(phrase) == 1 {
		for _, t := range tokens {
			if t == phrase[0] {
				return true
			}
		}
		return false
	}

	for i := 0; i+len(phrase) <= len(tokens); i++ {
		matched := true
		for j, p := range phrase {
			if tokens[i+j] != p {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}
