// Package flashcard recovers question/answer cards from model text that is not valid JSON.
package flashcard

import (
	"strings"

	"github.com/yungbote/learning-planner/internal/types"
)

const (
	MaxCards = 8

	defaultCategory   = "General"
	defaultDifficulty = "medium"
)

var placeholderCard = types.Flashcard{
	Question:   "What did you learn about the topic?",
	Answer:     "Review the generated content to understand key concepts.",
	Category:   defaultCategory,
	Difficulty: "easy",
}

// Parse segments raw text into cards line by line. It never fails: text without any
// recognizable question yields a single generic card.
func Parse(raw string) types.FlashcardSet {
	var (
		cards    []types.Flashcard
		question string
		answer   []string
	)

	flush := func() {
		if question == "" || len(answer) == 0 {
			return
		}
		cards = append(cards, types.Flashcard{
			Question:   question,
			Answer:     strings.Join(answer, " "),
			Category:   defaultCategory,
			Difficulty: defaultDifficulty,
		})
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case opensQuestion(line):
			flush()
			question = stripPrefix(line, "Q:", "Question:")
			answer = answer[:0]
		case strings.HasPrefix(line, "A:") || strings.HasPrefix(line, "Answer:"):
			answer = append(answer, stripPrefix(line, "A:", "Answer:"))
		case question != "" && line != "":
			answer = append(answer, line)
		}
	}
	flush()

	if len(cards) == 0 {
		return types.FlashcardSet{Flashcards: []types.Flashcard{placeholderCard}}
	}
	if len(cards) > MaxCards {
		cards = cards[:MaxCards]
	}
	return types.FlashcardSet{Flashcards: cards}
}

func opensQuestion(line string) bool {
	return strings.HasPrefix(line, "Q:") ||
		strings.HasPrefix(line, "Question:") ||
		strings.Contains(line, "?")
}

func stripPrefix(line string, prefixes ...string) string {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return strings.TrimSpace(strings.TrimPrefix(line, p))
		}
	}
	return strings.TrimSpace(line)
}
