package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/learning-planner/internal/engine"
	"github.com/yungbote/learning-planner/internal/platform/apierr"
	"github.com/yungbote/learning-planner/internal/platform/dbctx"
	"github.com/yungbote/learning-planner/internal/prompts"
	"github.com/yungbote/learning-planner/internal/tutor/codeblock"
	"github.com/yungbote/learning-planner/internal/tutor/mastery"
	"github.com/yungbote/learning-planner/internal/tutor/resources"
	"github.com/yungbote/learning-planner/internal/tutor/searchgate"
	"github.com/yungbote/learning-planner/internal/types"
)

const maxHistory = 10

type ChatRequest struct {
	Question     string              `json:"question"`
	Topic        string              `json:"topic"`
	History      []types.ChatMessage `json:"history"`
	TasksContext string              `json:"tasks_context"`
}

type ChatResponse struct {
	Answer        types.ChatAnswer    `json:"answer"`
	UsedSearch    bool                `json:"used_search"`
	Resources     []types.Resource    `json:"resources"`
	Understanding types.ConceptScores `json:"understanding"`
}

type TaskQuestion struct {
	Question     string `json:"question"`
	TasksContext string `json:"tasks_context"`
	Topic        string `json:"topic"`
}

func (s *tutorService) Chat(ctx context.Context, userID uuid.UUID, req ChatRequest) (out *ChatResponse, err error) {
	question := strings.TrimSpace(req.Question)
	topic := strings.TrimSpace(req.Topic)
	if question == "" {
		return nil, invalid("question is required")
	}
	ctx, span := startSpan(ctx, "chat", userID, topic)
	defer func() { endSpan(span, err) }()

	vocab := searchgate.Decide(question, topic)
	s.deps.Metrics.IncSearchDecision(string(vocab))

	var (
		current    types.ConceptScores
		searchText string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scores, err := s.snapshot(gctx, userID, topic)
		if err != nil {
			return err
		}
		current = scores
		return nil
	})
	if vocab != searchgate.VocabularyNone && s.deps.Searcher != nil {
		g.Go(func() error {
			text, err := s.deps.Searcher.Search(gctx, strings.TrimSpace(topic+" "+question))
			if err != nil {
				// Search only enriches the answer; degrade to a plain chat.
				s.log.Warn("web search failed", "vocabulary", string(vocab), "error", err)
				return nil
			}
			searchText = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &ChatResponse{Resources: []types.Resource{}}
	in := prompts.Input{
		Topic:             topic,
		Question:          question,
		TasksContext:      req.TasksContext,
		UnderstandingJSON: understandingJSON(current),
	}
	name := prompts.PromptChatQA
	if strings.TrimSpace(searchText) != "" {
		resp.UsedSearch = true
		resp.Resources = resources.Extract(searchText, topic)
		s.deps.Metrics.ObserveResources(len(resp.Resources))
		in.SearchResults = searchText
		name = prompts.PromptSearchEnhancedChat
	}

	p, err := buildPrompt(name, in)
	if err != nil {
		return nil, err
	}
	raw, err := s.complete(ctx, p, historyMessages(req.History))
	if err != nil {
		return nil, err
	}
	resp.Answer = codeblock.Process(raw)

	updated := mastery.Update(types.ConversationTurn{Question: question, Response: raw, Topic: topic}, current)
	for concept, score := range updated {
		if gain := score - current[concept]; gain > 0 {
			s.deps.Metrics.ObserveMasteryImprovement(gain)
		}
	}
	if s.deps.Mastery != nil && userID != uuid.Nil {
		if err := s.deps.Mastery.SaveSnapshot(dbctx.Context{Ctx: ctx}, userID, topic, updated); err != nil {
			return nil, apierr.New(http.StatusInternalServerError, apierr.CodeInternal, fmt.Errorf("save mastery: %w", err))
		}
	}
	resp.Understanding = updated

	s.recordExchange(ctx, userID, topic, string(name), question, "", resp.Answer)
	return resp, nil
}

func (s *tutorService) AskAboutTask(ctx context.Context, userID uuid.UUID, req TaskQuestion) (out *types.ChatAnswer, err error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, invalid("question is required")
	}
	ctx, span := startSpan(ctx, "ask_about_task", userID, req.Topic)
	defer func() { endSpan(span, err) }()

	p, err := buildPrompt(prompts.PromptTaskQA, prompts.Input{
		Topic:        strings.TrimSpace(req.Topic),
		Question:     question,
		TasksContext: req.TasksContext,
	})
	if err != nil {
		return nil, err
	}
	raw, err := s.complete(ctx, p, nil)
	if err != nil {
		return nil, err
	}
	answer := codeblock.Process(raw)
	s.recordExchange(ctx, userID, req.Topic, string(prompts.PromptTaskQA), question, "", answer)
	return &answer, nil
}

// historyMessages keeps the most recent turns. Unknown roles are treated as the learner.
func historyMessages(history []types.ChatMessage) []engine.Message {
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	out := make([]engine.Message, 0, len(history))
	for _, m := range history {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		role := engine.RoleUser
		switch strings.ToLower(strings.TrimSpace(m.Role)) {
		case "assistant", "ai", "model", "bot":
			role = engine.RoleAssistant
		}
		out = append(out, engine.Message{Role: role, Content: content})
	}
	return out
}
