package codeblock

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yungbote/learning-planner/internal/types"
)

func TestExtractNoFences(t *testing.T) {
	in := "plain text with `inline` code only"
	ex := Extract(in)
	if ex.Text != in {
		t.Fatalf("text changed: %q", ex.Text)
	}
	if ex.Blocks == nil || len(ex.Blocks) != 0 {
		t.Fatalf("expected empty non-nil blocks, got %#v", ex.Blocks)
	}
}

func TestExtractAssignsSequentialIDs(t *testing.T) {
	in := "intro\n```go\nfmt.Println(1)\n```\nmiddle\n```\n  raw body  \n```\n```python\nprint(2)\n```"
	ex := Extract(in)

	want := []types.CodeBlock{
		{ID: "CODE_BLOCK_0", Language: "go", Code: "fmt.Println(1)"},
		{ID: "CODE_BLOCK_1", Language: "text", Code: "raw body"},
		{ID: "CODE_BLOCK_2", Language: "python", Code: "print(2)"},
	}
	if diff := cmp.Diff(want, ex.Blocks); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(ex.Text, "```") {
		t.Fatalf("fence left in text: %q", ex.Text)
	}
	for _, b := range want {
		if !strings.Contains(ex.Text, "\n\n"+b.ID+"\n\n") {
			t.Fatalf("placeholder %s missing from %q", b.ID, ex.Text)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"no code here",
		"```go\nx := 1\n```",
		"Here:\n```js\nconsole.log('a')\n```\nand\n```sql\nSELECT 1;\n```\ndone",
		"lead\n```\nuntagged\n```\ntrail",
	}
	for _, in := range cases {
		ex := Extract(in)
		out := Reinstate(ex.Text, ex.Blocks)

		again := Extract(out)
		if len(again.Blocks) != len(ex.Blocks) {
			t.Fatalf("%q: block count %d -> %d", in, len(ex.Blocks), len(again.Blocks))
		}
		for i := range ex.Blocks {
			if again.Blocks[i].Code != ex.Blocks[i].Code {
				t.Fatalf("%q: block %d code %q -> %q", in, i, ex.Blocks[i].Code, again.Blocks[i].Code)
			}
			if !strings.Contains(out, Fence(ex.Blocks[i])) {
				t.Fatalf("%q: fence for block %d not reinstated in %q", in, i, out)
			}
		}
	}
}

func TestRoundTripTaggedIsVerbatimModWhitespace(t *testing.T) {
	in := "Example:\n```python\ndef f():\n    return 1\n```\nThat's it."
	ex := Extract(in)
	out := Reinstate(ex.Text, ex.Blocks)
	if squash(out) != squash(in) {
		t.Fatalf("round trip mismatch:\nin:  %q\nout: %q", in, out)
	}
}

func TestReinstateIsIdempotent(t *testing.T) {
	ex := Extract("a\n```go\nreturn\n```\nb")
	once := Reinstate(ex.Text, ex.Blocks)
	twice := Reinstate(once, ex.Blocks)
	if once != twice {
		t.Fatalf("second reinstate changed text:\n%q\n%q", once, twice)
	}

	plain := "nothing to swap"
	if got := Reinstate(plain, ex.Blocks); got != plain {
		t.Fatalf("got %q", got)
	}
}

func TestReinstateLeavesTokensInsideCode(t *testing.T) {
	raw := "Try this:\n```go\nfmt.Println(\"CODE_BLOCK_0\")\n```\ndone"
	ex := Extract(raw)
	if len(ex.Blocks) != 1 || ex.Blocks[0].Code != `fmt.Println("CODE_BLOCK_0")` {
		t.Fatalf("blocks=%#v", ex.Blocks)
	}
	once := Reinstate(ex.Text, ex.Blocks)
	if strings.Count(once, "```") != 2 {
		t.Fatalf("block nested into itself:\n%s", once)
	}
	if twice := Reinstate(once, ex.Blocks); twice != once {
		t.Fatalf("second reinstate changed text:\n%q\n%q", once, twice)
	}

	got := Process(raw)
	if strings.Count(got.Text, "```") != 2 || !strings.Contains(got.Text, `fmt.Println("CODE_BLOCK_0")`) {
		t.Fatalf("Process text=%q", got.Text)
	}
}

func TestReinstateMatchesWholeTokens(t *testing.T) {
	blocks := make([]types.CodeBlock, 11)
	for i := range blocks {
		blocks[i] = types.CodeBlock{ID: Placeholder(i), Language: "go", Code: "c" + strings.Repeat("x", i)}
	}
	out := Reinstate("CODE_BLOCK_10 CODE_BLOCK_1", blocks)
	want := Fence(blocks[10]) + " " + Fence(blocks[1])
	if out != want {
		t.Fatalf("got %q want %q", out, want)
	}
}

func TestProcess(t *testing.T) {
	if got := Process(""); got.Text != "" || len(got.CodeBlocks) != 0 {
		t.Fatalf("empty input: %#v", got)
	}

	got := Process("  # Title\n```go\n  x := 1  \n```\n  ")
	if got.Text != "# Title\n\n\n```go\nx := 1\n```" {
		t.Fatalf("text=%q", got.Text)
	}
	if len(got.CodeBlocks) != 1 || got.CodeBlocks[0].Code != "x := 1" {
		t.Fatalf("blocks=%#v", got.CodeBlocks)
	}

	plain := "  keep **markdown** as is  "
	if got := Process(plain); got.Text != plain {
		t.Fatalf("plain text altered: %q", got.Text)
	}
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
