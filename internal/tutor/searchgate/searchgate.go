// Package searchgate decides whether a learner message should be augmented with a web search.
package searchgate

import "strings"

type Vocabulary string

const (
	VocabularyNone     Vocabulary = ""
	VocabularyRecency  Vocabulary = "recency"
	VocabularyHowTo    Vocabulary = "how_to"
	VocabularyResource Vocabulary = "resource"
)

type trigger struct {
	vocab Vocabulary
	terms []string
}

// Checked in this order; the first vocabulary with a substring hit wins.
var triggers = []trigger{
	{vocab: VocabularyRecency, terms: []string{"current", "recent", "latest", "new", "update", "2024", "2025"}},
	{vocab: VocabularyHowTo, terms: []string{"tutorial", "how to", "guide", "learn"}},
	{vocab: VocabularyResource, terms: []string{"tools", "libraries", "frameworks", "resources"}},
}

// Decide reports which trigger vocabulary the message hits, or VocabularyNone.
// topic is accepted for symmetry with the other tutor calls and does not influence the result.
func Decide(message, topic string) Vocabulary {
	_ = topic
	msg := strings.ToLower(message)
	for _, tr := range triggers {
		for _, term := range tr.terms {
			if strings.Contains(msg, term) {
				return tr.vocab
			}
		}
	}
	return VocabularyNone
}

func ShouldSearch(message, topic string) bool {
	return Decide(message, topic) != VocabularyNone
}
