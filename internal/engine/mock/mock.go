package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/yungbote/learning-planner/internal/engine"
)

type Call struct {
	Model    string
	Messages []engine.Message
	Opts     engine.GenerateOptions
}

// Engine is a deterministic engine. Replies are looked up by schema name, falling back to
// canned JSON for known schemas and an echo of the last user message otherwise.
type Engine struct {
	Replies map[string]string
	Err     error

	mu    sync.Mutex
	calls []Call
}

func New() *Engine {
	return &Engine{Replies: map[string]string{}}
}

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	e.mu.Lock()
	e.calls = append(e.calls, Call{Model: model, Messages: append([]engine.Message(nil), messages...), Opts: opts})
	e.mu.Unlock()

	if e.Err != nil {
		return "", e.Err
	}

	name := ""
	if opts.JSONSchema != nil {
		name = opts.JSONSchema.Name
	}
	if r, ok := e.Replies[name]; ok {
		return r, nil
	}
	if r, ok := canned[name]; ok {
		return r, nil
	}
	if opts.JSONSchema != nil {
		b, _ := json.Marshal(map[string]any{"ok": true, "schema": name})
		return string(b), nil
	}

	var user string
	for i := len(messages) - 1; i >= 0; i-- {
		if strings.EqualFold(messages[i].Role, engine.RoleUser) {
			user = messages[i].Content
			break
		}
	}
	if strings.TrimSpace(user) == "" {
		return "mock: ok", nil
	}
	return fmt.Sprintf("mock: %s", user), nil
}

func (e *Engine) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Call(nil), e.calls...)
}

var canned = map[string]string{
	"roadmap": `{"topic":"mock","days":1,"hours":1,"roadmap":[{"day":1,"tasks":[{"parent_task":"Read the overview","original_duration_minutes":60,` +
		`"sub_tasks":[{"task":"Skim the docs","duration_minutes":30},{"task":"Take notes","duration_minutes":30}]}]}]}`,
	"flashcards": "```json\n" + `{"flashcards":[{"question":"What is mock?","answer":"A stand-in.","category":"General","difficulty":"easy"}]}` + "\n```",
	"study_guide": `{"learning_objectives":["Understand the basics"],"key_concepts":["basics"],` +
		`"practice_exercises":[{"title":"Warm up","description":"Write a tiny program.","difficulty":"easy"}],` +
		`"study_schedule":[{"week":1,"topics":["basics"],"exercises":["Warm up"]}],"resources":[]}`,
	"materials": `{"videos":[],"articles":[],"practice":[],"tools":[]}`,
}
