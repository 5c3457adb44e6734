// Package matching implements fuzzy equality for free-text answers.
// Grading must tolerate minor lexical variation (stop words, plural drift,
// word reordering) without requiring admins to author exhaustive answer
// lists, so exact comparison is only the first of several checks.
package matching

import (
	"strings"
	"unicode"
)

// DefaultThreshold is the acceptance threshold used when grading free-text
// answers.
const DefaultThreshold = 0.80

// stopWords are discarded during tokenization: articles, conjunctions and
// common prepositions carry no grading signal.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"and": true, "or": true, "but": true, "nor": true, "so": true, "yet": true,
	"of": true, "in": true, "on": true, "at": true, "to": true, "for": true,
	"by": true, "with": true, "from": true, "as": true, "into": true,
	"is": true, "are": true, "was": true, "were": true, "be": true,
}

// IsMatch reports whether candidate is an acceptable rendering of reference.
// Cheap exact checks run first; the blended Jaccard/edit-distance score is
// the last resort.
func IsMatch(candidate, reference string, threshold float64) bool {
	normCand := Normalize(candidate)
	normRef := Normalize(reference)

	if normCand == normRef {
		return true
	}
	if normCand == "" || normRef == "" {
		return false
	}

	if pluralMatch(normCand, normRef) {
		return true
	}

	candTokens := tokenize(normCand)
	refTokens := tokenize(normRef)

	if sameSet(candTokens, refTokens) {
		return true
	}
	// Tolerate a single missing minor word, e.g. "water cycle" against
	// "the water cycle process".
	if subsetWithin(candTokens, refTokens, 1) {
		return true
	}

	score := 0.6*jaccard(candTokens, refTokens) + 0.4*editSimilarity(normCand, normRef)
	return score >= threshold
}

// Normalize trims, lowercases, strips punctuation and collapses runs of
// whitespace to single spaces.
func Normalize(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsPunct(r):
			// skip
		default:
			if space && len(out) > 0 {
				out = append(out, ' ')
			}
			space = false
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}

// tokenize splits a normalized string into its non-stop-word token set.
func tokenize(s string) map[string]bool {
	tokens := map[string]bool{}
	for _, w := range strings.Fields(s) {
		if !stopWords[w] {
			tokens[w] = true
		}
	}
	return tokens
}

func sameSet(a, b map[string]bool) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	for w := range a {
		if !b[w] {
			return false
		}
	}
	return true
}

// subsetWithin reports whether one token set contains the other and the
// size difference is at most maxDiff.
func subsetWithin(a, b map[string]bool, maxDiff int) bool {
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	if len(small) == 0 || len(large)-len(small) > maxDiff {
		return false
	}
	for w := range small {
		if !large[w] {
			return false
		}
	}
	return true
}

// pluralMatch shortcuts singular/plural suffix pairs: "cats"/"cat",
// "boxes"/"box", "studies"/"study".
func pluralMatch(a, b string) bool {
	if len(a) < len(b) {
		a, b = b, a
	}
	switch {
	case strings.HasSuffix(a, "ies") && b == a[:len(a)-3]+"y":
		return true
	case strings.HasSuffix(a, "es") && b == a[:len(a)-2]:
		return true
	case strings.HasSuffix(a, "s") && b == a[:len(a)-1]:
		return true
	}
	return false
}

// jaccard is intersection size over union size of the two token sets.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// editSimilarity maps levenshtein distance into [0,1], where 1 is identical.
func editSimilarity(a, b string) float64 {
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

// levenshtein computes edit distance (insertion, deletion, substitution
// cost 1) over a single rolling row.
func levenshtein(a, b string) int {
	ar := []rune(a)
	br := []rune(b)
	n, m := len(ar), len(br)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}
	dp := make([]int, m+1)
	for j := 0; j <= m; j++ {
		dp[j] = j
	}
	for i := 1; i <= n; i++ {
		prev := dp[0]
		dp[0] = i
		for j := 1; j <= m; j++ {
			tmp := dp[j]
			cost := 0
			if ar[i-1] != br[j-1] {
				cost = 1
			}
			dp[j] = min3(dp[j]+1, dp[j-1]+1, prev+cost)
			prev = tmp
		}
	}
	return dp[m]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
