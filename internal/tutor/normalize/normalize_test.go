package normalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yungbote/learning-planner/internal/types"
)

func TestNormalizeLadder(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		hint  string
		want  any
		stage Stage
	}{
		{
			name:  "strict object",
			raw:   `{"a":1}`,
			want:  map[string]any{"a": float64(1)},
			stage: StageStrict,
		},
		{
			name:  "strict array with whitespace",
			raw:   "  [1, 2]\n",
			want:  []any{float64(1), float64(2)},
			stage: StageStrict,
		},
		{
			name:  "json fence",
			raw:   "```json\n{\"a\":1}\n```",
			want:  map[string]any{"a": float64(1)},
			stage: StageFenceStrip,
		},
		{
			name:  "python tagged fence",
			raw:   "```python\n{\"topic\": \"go\"}\n```",
			want:  map[string]any{"topic": "go"},
			stage: StageFenceStrip,
		},
		{
			name:  "untagged fence",
			raw:   "```\n[\"x\"]\n```",
			want:  []any{"x"},
			stage: StageFenceStrip,
		},
		{
			name:  "prose around object",
			raw:   `Here is the answer: {"a":1} hope this helps`,
			want:  map[string]any{"a": float64(1)},
			stage: StageBraceSlice,
		},
		{
			name:  "fence plus prose",
			raw:   "```json\nSure! {\"days\": 3}\nEnjoy\n```",
			want:  map[string]any{"days": float64(3)},
			stage: StageBraceSlice,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Normalize(tc.raw, tc.hint)
			if !ok {
				t.Fatalf("expected success")
			}
			if got.Stage != tc.stage {
				t.Fatalf("stage=%s want %s", got.Stage, tc.stage)
			}
			if diff := cmp.Diff(tc.want, got.Value); diff != "" {
				t.Fatalf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeFlashcardFallback(t *testing.T) {
	got, ok := Normalize("```\nQ: What is X?\nA: X is Y.\n```", "flashcards")
	if !ok {
		t.Fatalf("expected fallback success")
	}
	if got.Stage != StageFlashcardFallback {
		t.Fatalf("stage=%s", got.Stage)
	}
	set, err := Decode[types.FlashcardSet](got)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(set.Flashcards) != 1 || set.Flashcards[0].Question != "What is X?" || set.Flashcards[0].Answer != "X is Y." {
		t.Fatalf("cards=%#v", set.Flashcards)
	}
}

func TestNormalizeFlashcardHintIsCaseInsensitive(t *testing.T) {
	got, ok := Normalize("no structure at all", "Quiz QUESTION set")
	if !ok || got.Stage != StageFlashcardFallback {
		t.Fatalf("ok=%v stage=%s", ok, got.Stage)
	}
	set, err := Decode[types.FlashcardSet](got)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(set.Flashcards) != 1 {
		t.Fatalf("expected placeholder card, got %#v", set.Flashcards)
	}
}

func TestNormalizeTotalFailure(t *testing.T) {
	for _, raw := range []string{"", "no json here", "{ broken", "} backwards {", "null", " null ", "```json\nnull\n```"} {
		got, ok := Normalize(raw, "roadmap")
		if ok {
			t.Fatalf("%q: expected failure, got %#v", raw, got)
		}
		if got.Stage != StageNone || got.Value != nil {
			t.Fatalf("%q: result=%#v", raw, got)
		}
	}
}

func TestStagesOrder(t *testing.T) {
	want := []Stage{StageStrict, StageFenceStrip, StageBraceSlice, StageFlashcardFallback}
	if diff := cmp.Diff(want, Stages()); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}

func TestDecodeRoadmap(t *testing.T) {
	raw := "```json\n" + `{"topic":"Go","days":1,"hours":2,"roadmap":[{"day":1,"tasks":[{"parent_task":"Setup","original_duration_minutes":60,"sub_tasks":[{"task":"Install","duration_minutes":20,"description":"Install Go."},{"task":"Hello","duration_minutes":30,"description":"Write hello world."}]}]}]}` + "\n```"
	res, ok := Normalize(raw, "roadmap")
	if !ok {
		t.Fatalf("expected success")
	}
	rm, err := Decode[types.Roadmap](res)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rm.Topic != "Go" || len(rm.Roadmap) != 1 || len(rm.Roadmap[0].Tasks[0].SubTasks) != 2 {
		t.Fatalf("roadmap=%#v", rm)
	}
	// Sub-task minutes (50) do not add up to the parent (60); that is passed through untouched.
	if rm.Roadmap[0].Tasks[0].OriginalDurationMinutes != 60 {
		t.Fatalf("parent duration=%d", rm.Roadmap[0].Tasks[0].OriginalDurationMinutes)
	}
}

func TestDecodeShapeMismatch(t *testing.T) {
	res, ok := Normalize(`["not","an","object"]`, "")
	if !ok {
		t.Fatalf("expected success")
	}
	if _, err := Decode[types.Roadmap](res); err == nil {
		t.Fatalf("expected decode error for array into struct")
	}
}
