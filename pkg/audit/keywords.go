package audit

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// stopWords are skipped when counting keywords.
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "all": {}, "also": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "been": {}, "but": {}, "by": {}, "can": {}, "do": {}, "for": {}, "from": {}, "has": {}, "have": {},
	"he": {}, "her": {}, "his": {}, "how": {}, "i": {}, "if": {}, "in": {}, "into": {}, "is": {}, "it": {},
	"its": {}, "just": {}, "more": {}, "most": {}, "my": {}, "no": {}, "not": {}, "of": {}, "on": {}, "or": {},
	"our": {}, "out": {}, "so": {}, "than": {}, "that": {}, "the": {}, "their": {}, "them": {}, "then": {},
	"there": {}, "these": {}, "they": {}, "this": {}, "to": {}, "up": {}, "us": {}, "was": {}, "we": {},
	"were": {}, "what": {}, "when": {}, "which": {}, "who": {}, "will": {}, "with": {}, "you": {}, "your": {},
}

// TopKeywords counts words of at least three letters outside stopWords and returns the n most
// frequent as "word:count", highest first, ties alphabetical.
func TopKeywords(text string, n int) []string {
	counts := make(map[string]int)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	for _, w := range words {
		w = strings.Trim(w, "-")
		if len([]rune(w)) < 3 {
			continue
		}
		if _, skip := stopWords[w]; skip {
			continue
		}
		counts[w]++
	}

	type kv struct {
		word  string
		count int
	}
	sorted := make([]kv, 0, len(counts))
	for w, c := range counts {
		sorted = append(sorted, kv{w, c})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].word < sorted[j].word
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]string, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, fmt.Sprintf("%s:%d", e.word, e.count))
	}
	return out
}
