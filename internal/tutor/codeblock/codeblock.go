// Package codeblock lifts fenced code out of model markdown and puts it back in canonical form.
package codeblock

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yungbote/learning-planner/internal/types"
)

const (
	placeholderPrefix = "CODE_BLOCK_"
	defaultLanguage   = "text"
)

// Opening fence, optional bare-word language tag, newline, shortest body, closing fence.
// Backticks inside a body are not special-cased: the first ``` after the opening fence closes it.
var (
	fenceRe       = regexp.MustCompile("```(\\w+)?\\n([\\s\\S]*?)```")
	placeholderRe = regexp.MustCompile(placeholderPrefix + `(\d+)`)
)

type Extraction struct {
	Text   string
	Blocks []types.CodeBlock
}

// Placeholder returns the token that stands in for the i-th block of an extraction pass.
func Placeholder(i int) string {
	return placeholderPrefix + strconv.Itoa(i)
}

// Extract replaces every fenced region with a placeholder, in order of appearance.
func Extract(raw string) Extraction {
	matches := fenceRe.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		return Extraction{Text: raw, Blocks: []types.CodeBlock{}}
	}

	blocks := make([]types.CodeBlock, 0, len(matches))
	var b strings.Builder
	b.Grow(len(raw))
	last := 0
	for i, m := range matches {
		lang := defaultLanguage
		if m[2] >= 0 {
			lang = raw[m[2]:m[3]]
		}
		id := Placeholder(i)
		blocks = append(blocks, types.CodeBlock{
			ID:       id,
			Language: lang,
			Code:     strings.TrimSpace(raw[m[4]:m[5]]),
		})
		b.WriteString(raw[last:m[0]])
		b.WriteString("\n\n")
		b.WriteString(id)
		b.WriteString("\n\n")
		last = m[1]
	}
	b.WriteString(raw[last:])

	return Extraction{Text: b.String(), Blocks: blocks}
}

// Fence renders a block in canonical markdown form.
func Fence(block types.CodeBlock) string {
	lang := block.Language
	if lang == "" {
		lang = defaultLanguage
	}
	return fmt.Sprintf("```%s\n%s\n```", lang, block.Code)
}

// Reinstate swaps placeholders back for their fenced code. Tokens are matched whole, so
// CODE_BLOCK_1 never eats the prefix of CODE_BLOCK_10, and tokens without a block stay as they are.
// Tokens inside fenced regions are code, not placeholders, and are left alone.
func Reinstate(text string, blocks []types.CodeBlock) string {
	if len(blocks) == 0 || !strings.Contains(text, placeholderPrefix) {
		return text
	}
	byID := make(map[string]types.CodeBlock, len(blocks))
	for _, blk := range blocks {
		byID[blk.ID] = blk
	}
	swap := func(gap string) string {
		return placeholderRe.ReplaceAllStringFunc(gap, func(tok string) string {
			if blk, ok := byID[tok]; ok {
				return Fence(blk)
			}
			return tok
		})
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range fenceRe.FindAllStringIndex(text, -1) {
		b.WriteString(swap(text[last:m[0]]))
		b.WriteString(text[m[0]:m[1]])
		last = m[1]
	}
	b.WriteString(swap(text[last:]))
	return b.String()
}

// Process normalizes raw model markdown: code is re-fenced canonically and also returned as a list
// so clients can render it separately.
func Process(raw string) types.ChatAnswer {
	if raw == "" {
		return types.ChatAnswer{Text: "", CodeBlocks: []types.CodeBlock{}}
	}
	ex := Extract(raw)
	if len(ex.Blocks) == 0 {
		return types.ChatAnswer{Text: raw, CodeBlocks: ex.Blocks}
	}
	return types.ChatAnswer{
		Text:       strings.TrimSpace(Reinstate(ex.Text, ex.Blocks)),
		CodeBlocks: ex.Blocks,
	}
}
