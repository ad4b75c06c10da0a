// Package normalize turns raw model completions into structured values through a fixed ladder of
// progressively more permissive parse attempts, stopping at the first one that succeeds.
package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/yungbote/learning-planner/internal/tutor/flashcard"
)

type Stage string

const (
	StageStrict            Stage = "strict"
	StageFenceStrip        Stage = "fence_strip"
	StageBraceSlice        Stage = "brace_slice"
	StageFlashcardFallback Stage = "flashcard_fallback"
	StageNone              Stage = "none"
)

// Result is a recovered structured value and the ladder stage that produced it.
type Result struct {
	Value any
	Stage Stage
}

// input is shared by all stages of one Normalize call. Each stage may read what earlier ones derived.
type input struct {
	raw      string
	hint     string
	stripped string
}

type stage struct {
	name Stage
	run  func(in *input) (any, bool)
}

// Order matters: brace_slice is more permissive than fence_strip and only runs after it fails.
var ladder = []stage{
	{name: StageStrict, run: strictStage},
	{name: StageFenceStrip, run: fenceStripStage},
	{name: StageBraceSlice, run: braceSliceStage},
	{name: StageFlashcardFallback, run: flashcardStage},
}

// Normalize runs the ladder over raw. schemaHint names the expected shape (e.g. "flashcards");
// it only matters for the last-resort flashcard stage. ok is false when every stage failed.
func Normalize(raw, schemaHint string) (Result, bool) {
	in := &input{raw: raw, hint: strings.ToLower(schemaHint)}
	in.stripped = stripFence(raw)
	for _, st := range ladder {
		if v, ok := st.run(in); ok {
			return Result{Value: v, Stage: st.name}, true
		}
	}
	return Result{Stage: StageNone}, false
}

// Stages lists the ladder in evaluation order.
func Stages() []Stage {
	out := make([]Stage, 0, len(ladder))
	for _, st := range ladder {
		out = append(out, st.name)
	}
	return out
}

// Decode converts a recovered value into a typed call-site shape.
func Decode[T any](r Result) (T, error) {
	var out T
	b, err := json.Marshal(r.Value)
	if err != nil {
		return out, fmt.Errorf("normalize: re-encode %s value: %w", r.Stage, err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("normalize: decode %s value: %w", r.Stage, err)
	}
	return out, nil
}

func strictStage(in *input) (any, bool) {
	return parse(in.raw)
}

func fenceStripStage(in *input) (any, bool) {
	if in.stripped == in.raw {
		return nil, false
	}
	return parse(in.stripped)
}

func braceSliceStage(in *input) (any, bool) {
	start := strings.Index(in.stripped, "{")
	end := strings.LastIndex(in.stripped, "}")
	if start == -1 || end == -1 || end < start {
		return nil, false
	}
	return parse(in.stripped[start : end+1])
}

func flashcardStage(in *input) (any, bool) {
	if !strings.Contains(in.hint, "flashcards") && !strings.Contains(in.hint, "question") {
		return nil, false
	}
	return flashcard.Parse(in.stripped), true
}

// parse treats a JSON null as a failure: it carries no structure for any call site.
func parse(s string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil || v == nil {
		return nil, false
	}
	return v, true
}

var langTagRe = regexp.MustCompile(`^\w+$`)

// stripFence removes a leading and a trailing ``` from the trimmed text. A bare-word language tag
// line ("json", "python") right after the opening fence goes with it.
func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = s[3:]
		first, rest, found := strings.Cut(s, "\n")
		if found && langTagRe.MatchString(strings.TrimSpace(first)) {
			s = rest
		}
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(s[:len(s)-3])
	}
	return s
}
