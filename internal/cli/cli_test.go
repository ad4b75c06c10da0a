package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yungbote/learning-planner/internal/types"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNormalizeCommand(t *testing.T) {
	out, err := run(t, "```json\n{\"a\":1}\n```", "normalize")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	var got normalizeOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if !got.OK || got.Stage != "fence_strip" {
		t.Fatalf("got %+v", got)
	}
}

func TestNormalizeCommandFailure(t *testing.T) {
	out, err := run(t, "nothing structured", "normalize", "--hint", "roadmap")
	if !errors.Is(err, errUnparseable) {
		t.Fatalf("err=%v", err)
	}
	if !strings.Contains(out, `"ok": false`) {
		t.Fatalf("output=%s", out)
	}
}

func TestNormalizeCommandFlashcardHint(t *testing.T) {
	out, err := run(t, "Q: What is Go?\nA: A language.", "normalize", "--hint", "flashcards")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !strings.Contains(out, `"flashcard_fallback"`) || !strings.Contains(out, "A language.") {
		t.Fatalf("output=%s", out)
	}
}

func TestCodeBlocksCommand(t *testing.T) {
	input := "Intro\n```go\nfmt.Println(1)\n```\nOutro"
	out, err := run(t, input, "codeblocks")
	if err != nil {
		t.Fatalf("codeblocks: %v", err)
	}
	var got extractionOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []types.CodeBlock{{ID: "CODE_BLOCK_0", Language: "go", Code: "fmt.Println(1)"}}
	if diff := cmp.Diff(want, got.Blocks); diff != "" {
		t.Fatalf("blocks (-want +got):\n%s", diff)
	}
	if !strings.Contains(got.Text, "CODE_BLOCK_0") {
		t.Fatalf("text=%q", got.Text)
	}

	out, err = run(t, input, "codeblocks", "--process")
	if err != nil {
		t.Fatalf("codeblocks --process: %v", err)
	}
	if !strings.Contains(out, "```go\\nfmt.Println(1)\\n```") {
		t.Fatalf("processed output=%s", out)
	}
}

func TestResourcesCommandReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.txt")
	content := "- Tour https://go.dev/tour/ interactive tutorial\n- Repo https://github.com/golang/go\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := run(t, "", "resources", "--topic", "go", "--file", path)
	if err != nil {
		t.Fatalf("resources: %v", err)
	}
	var got []types.Resource
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].Type != types.ResourceArticle || got[1].Type != types.ResourceTool {
		t.Fatalf("resources=%+v", got)
	}
}

func TestShouldSearchCommand(t *testing.T) {
	cases := []struct {
		args []string
		want shouldSearchOutput
	}{
		{args: []string{"should-search", "What are the latest Python features?"}, want: shouldSearchOutput{ShouldSearch: true, Vocabulary: "recency"}},
		{args: []string{"should-search", "--topic", "python", "What is a variable?"}, want: shouldSearchOutput{}},
	}
	for _, tc := range cases {
		out, err := run(t, "", tc.args...)
		if err != nil {
			t.Fatalf("%v: %v", tc.args, err)
		}
		var got shouldSearchOutput
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got != tc.want {
			t.Fatalf("%v: got %+v want %+v", tc.args, got, tc.want)
		}
	}
}

func TestMasteryCommand(t *testing.T) {
	out, err := run(t, "mock: What is a loop?", "mastery", "--question", "What is a loop?", "--topic", "Python", "--scores", `{"python":10,"rust":3}`)
	if err != nil {
		t.Fatalf("mastery: %v", err)
	}
	var got masteryOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := masteryOutput{
		Depth:    0,
		Concepts: []string{"python", "loop"},
		Scores:   types.ConceptScores{"python": 14, "loop": 2, "rust": 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mastery (-want +got):\n%s", diff)
	}

	if _, err := run(t, "", "mastery", "--scores", "not json"); err == nil {
		t.Fatal("expected error for bad --scores")
	}
}
