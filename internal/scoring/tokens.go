package scoring

import (
	"strings"
	"unicode"
)

// stopWords are title filler that would inflate token overlap ("senior
// engineer for our team" should not match on "for" or "our").
var stopWords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "our": true,
	"you": true, "are": true, "will": true, "this": true, "that": true,
	"job": true, "role": true, "position": true, "team": true,
}

// significantTokens splits lowercased text into tokens of three or more
// runes, skipping stop words. The characters + # . stay inside tokens so
// "c++", "c#" and "node.js" survive tokenization.
func significantTokens(text string) []string {
	var tokens []string
	var word strings.Builder

	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if len([]rune(w)) >= 3 && !stopWords[w] {
			tokens = append(tokens, w)
		}
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

func containsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}
	return false
}

// containsSkill reports whether the skill appears in the haystack. Skills of
// one or two characters ("go", "r") match only as whole tokens; longer
// skills match as substrings so "postgresql" still hits "postgres" queries
// written the other way around.
func containsSkill(haystack, skill string) bool {
	if len([]rune(skill)) > 2 {
		return strings.Contains(haystack, skill)
	}

	for _, token := range strings.FieldsFunc(haystack, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	}) {
		if token == skill {
			return true
		}
	}
	return false
}
