package game

import "testing"

func TestScoreRoundUniqueAndShared(t *testing.T) {
	// Three players, letter "S": "sun" is unique, "snake" is shared.
	answers := map[string]map[string]string{
		"Alice": {"animal": "sun"},
		"Bob":   {"animal": "snake"},
		"Carol": {"animal": "snake"},
	}
	deltas := ScoreRound("S", answers)

	if deltas["Alice"] != 10 {
		t.Errorf("Alice: expected 10 for a unique answer, got %d", deltas["Alice"])
	}
	if deltas["Bob"] != 5 || deltas["Carol"] != 5 {
		t.Errorf("Bob/Carol: expected 5 each for a shared answer, got %d/%d", deltas["Bob"], deltas["Carol"])
	}
}

func TestScoreRoundNormalization(t *testing.T) {
	// Case and surrounding whitespace must not split a group.
	answers := map[string]map[string]string{
		"Alice": {"country": "  Sweden "},
		"Bob":   {"country": "sweden"},
	}
	deltas := ScoreRound("s", answers)

	if deltas["Alice"] != 5 || deltas["Bob"] != 5 {
		t.Errorf("expected shared 5/5 after normalization, got %d/%d", deltas["Alice"], deltas["Bob"])
	}
}

func TestScoreRoundDiscards(t *testing.T) {
	cases := []struct {
		name   string
		answer string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"wrong first letter", "tiger"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deltas := ScoreRound("S", map[string]map[string]string{
				"Alice": {"animal": tc.answer},
			})
			if deltas["Alice"] != 0 {
				t.Errorf("answer %q: expected 0 points, got %d", tc.answer, deltas["Alice"])
			}
		})
	}
}

func TestScoreRoundLetterCaseInsensitive(t *testing.T) {
	deltas := ScoreRound("s", map[string]map[string]string{
		"Alice": {"animal": "Snake"},
	})
	if deltas["Alice"] != 10 {
		t.Errorf("expected 10 for case-insensitive letter match, got %d", deltas["Alice"])
	}
}

func TestScoreRoundArabicLetters(t *testing.T) {
	// Arabic script has no case; answers must still match and group.
	answers := map[string]map[string]string{
		"Alice": {"animal": "سلحفاة"},
		"Bob":   {"animal": "سمكة"},
		"Carol": {"animal": "سمكة"},
	}
	deltas := ScoreRound("س", answers)

	if deltas["Alice"] != 10 {
		t.Errorf("Alice: expected 10, got %d", deltas["Alice"])
	}
	if deltas["Bob"] != 5 || deltas["Carol"] != 5 {
		t.Errorf("Bob/Carol: expected 5/5, got %d/%d", deltas["Bob"], deltas["Carol"])
	}
}

func TestScoreRoundSumsAcrossCategories(t *testing.T) {
	answers := map[string]map[string]string{
		"Alice": {"name": "sam", "animal": "snake", "country": "spain"},
		"Bob":   {"name": "sara", "animal": "snake"},
	}
	deltas := ScoreRound("S", answers)

	// Alice: 10 (sam) + 5 (snake shared) + 10 (spain) = 25.
	if deltas["Alice"] != 25 {
		t.Errorf("Alice: expected 25, got %d", deltas["Alice"])
	}
	// Bob: 10 (sara) + 5 (snake shared) = 15.
	if deltas["Bob"] != 15 {
		t.Errorf("Bob: expected 15, got %d", deltas["Bob"])
	}
}

func TestScoreRoundNoAnswers(t *testing.T) {
	deltas := ScoreRound("S", map[string]map[string]string{})
	if len(deltas) != 0 {
		t.Errorf("expected empty deltas, got %v", deltas)
	}
}

func TestValidLetter(t *testing.T) {
	valid := []string{"s", "S", "م", "س", " a "}
	for _, s := range valid {
		if !validLetter(s) {
			t.Errorf("expected %q to be a valid letter", s)
		}
	}
	invalid := []string{"", "ab", "سم", "1", "!", "  "}
	for _, s := range invalid {
		if validLetter(s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}
