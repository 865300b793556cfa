package game

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Point values for the shared-answer penalty: an answer nobody else gave is
// worth uniquePoints, an answer given by two or more players is worth
// sharedPoints to each of them.
const (
	uniquePoints = 10
	sharedPoints = 5
)

// ScoreRound computes the per-player point delta for one round.
//
// answers maps player name -> category -> raw answer text. For each category
// in Categories, every answer is normalized (trimmed, case-folded), answers
// that are empty or whose first rune does not match letter are discarded,
// and the remainder are grouped by exact normalized text. A group of one
// scores uniquePoints for its author; a group of two or more scores
// sharedPoints for every member.
//
// ScoreRound is a pure function: applying the deltas to cumulative scores,
// exactly once per round, is the caller's job.
func ScoreRound(letter string, answers map[string]map[string]string) map[string]int {
	deltas := make(map[string]int, len(answers))
	for name := range answers {
		deltas[name] = 0
	}

	for _, category := range Categories {
		// normalized answer -> authors
		groups := make(map[string][]string)
		for name, byCategory := range answers {
			norm := normalizeAnswer(byCategory[category])
			if norm == "" || !firstLetterMatches(norm, letter) {
				continue
			}
			groups[norm] = append(groups[norm], name)
		}
		for _, authors := range groups {
			points := uniquePoints
			if len(authors) >= 2 {
				points = sharedPoints
			}
			for _, name := range authors {
				deltas[name] += points
			}
		}
	}
	return deltas
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// firstLetterMatches reports whether the first rune of answer matches the
// first rune of letter, case-insensitively. Works for scripts without case
// (e.g. Arabic) because ToLower is the identity there.
func firstLetterMatches(answer, letter string) bool {
	a, _ := utf8.DecodeRuneInString(answer)
	l, _ := utf8.DecodeRuneInString(strings.TrimSpace(letter))
	if a == utf8.RuneError || l == utf8.RuneError {
		return false
	}
	return unicode.ToLower(a) == unicode.ToLower(l)
}

// validLetter reports whether s is a single recognized alphabetic symbol.
func validLetter(s string) bool {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	return size > 0 && size == len(s) && unicode.IsLetter(r)
}
