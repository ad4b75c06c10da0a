// Package mastery scores learner understanding per concept from conversation heuristics.
package mastery

import (
	"math"
	"strings"

	"github.com/yungbote/learning-planner/internal/types"
)

const (
	MaxDepth       = 10
	MaxConcepts    = 6
	MaxScore       = 100
	MaxImprovement = 12.0
)

// Concept is one extracted concept with the weights used to score it.
type Concept struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Complexity int     `json:"complexity"`
}

type tier struct {
	terms      []string
	confidence float64
	complexity int
}

var (
	complexityIndicators = []string{"how", "why", "explain", "compare", "difference", "implement", "optimize", "architecture", "best practice"}
	followUpIndicators   = []string{"following up", "previous", "earlier", "based on"}

	tiers = []tier{
		{terms: []string{"variable", "function", "loop", "if", "else", "print"}, confidence: 0.6, complexity: 1},
		{terms: []string{"class", "object", "method", "array", "string", "number"}, confidence: 0.7, complexity: 2},
		{terms: []string{"algorithm", "framework", "api", "database", "async", "promise"}, confidence: 0.8, complexity: 3},
	}
)

// ConversationDepth rates a turn from 0 to MaxDepth.
func ConversationDepth(question, response string) int {
	q := strings.ToLower(question)
	depth := 0
	if len(strings.Fields(question)) > 15 {
		depth += 2
	}
	if len(strings.Fields(response)) > 100 {
		depth += 3
	}
	for _, ind := range complexityIndicators {
		if strings.Contains(q, ind) {
			depth += 2
		}
	}
	for _, ind := range followUpIndicators {
		if strings.Contains(q, ind) {
			depth += 3
		}
	}
	if strings.Contains(q, "code") || strings.Contains(response, "```") {
		depth += 3
	}
	if depth > MaxDepth {
		depth = MaxDepth
	}
	return depth
}

// ExtractConcepts returns up to MaxConcepts concepts, topic first, deduplicated in first-seen order.
// Vocabulary terms match as substrings, so "if" also hits "different".
func ExtractConcepts(text, topic string) []Concept {
	var all []Concept
	if t := strings.ToLower(strings.TrimSpace(topic)); t != "" {
		all = append(all, Concept{Name: t, Confidence: 0.8, Complexity: 2})
	}
	lower := strings.ToLower(text)
	for _, tr := range tiers {
		for _, term := range tr.terms {
			if strings.Contains(lower, term) {
				all = append(all, Concept{Name: term, Confidence: tr.confidence, Complexity: tr.complexity})
			}
		}
	}

	out := make([]Concept, 0, MaxConcepts)
	seen := map[string]bool{}
	for _, c := range all {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		out = append(out, c)
		if len(out) == MaxConcepts {
			break
		}
	}
	return out
}

// Improvement is the score gain for one concept at the given depth, capped at MaxImprovement.
func Improvement(depth int, c Concept) float64 {
	return math.Min(MaxImprovement, float64(depth)*1.5+c.Confidence*2+float64(c.Complexity)*1.2)
}

// Update returns a new score table for the turn. current is never modified and concepts
// not touched by the turn keep their prior score.
func Update(turn types.ConversationTurn, current types.ConceptScores) types.ConceptScores {
	out := current.Clone()
	depth := ConversationDepth(turn.Question, turn.Response)
	for _, c := range ExtractConcepts(turn.Question+" "+turn.Response, turn.Topic) {
		prior := clamp(out[c.Name])
		next := math.Min(MaxScore, float64(prior)+Improvement(depth, c))
		out[c.Name] = int(math.RoundToEven(next))
	}
	return out
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
