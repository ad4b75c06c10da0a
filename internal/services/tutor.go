package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/yungbote/learning-planner/internal/engine"
	"github.com/yungbote/learning-planner/internal/observability"
	"github.com/yungbote/learning-planner/internal/platform/apierr"
	"github.com/yungbote/learning-planner/internal/platform/dbctx"
	"github.com/yungbote/learning-planner/internal/platform/logger"
	"github.com/yungbote/learning-planner/internal/prompts"
	"github.com/yungbote/learning-planner/internal/repos"
	"github.com/yungbote/learning-planner/internal/tutor/normalize"
	"github.com/yungbote/learning-planner/internal/types"
	"github.com/yungbote/learning-planner/internal/websearch"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnparseable  = errors.New("model response could not be parsed")
)

type TutorService interface {
	Chat(ctx context.Context, userID uuid.UUID, req ChatRequest) (*ChatResponse, error)
	AskAboutTask(ctx context.Context, userID uuid.UUID, req TaskQuestion) (*types.ChatAnswer, error)
	GenerateRoadmap(ctx context.Context, userID uuid.UUID, req RoadmapRequest) (*types.Roadmap, error)
	RefineRoadmap(ctx context.Context, userID uuid.UUID, req RefineRequest) (*types.Roadmap, error)
	Flashcards(ctx context.Context, userID uuid.UUID, topic string) (*types.FlashcardSet, error)
	StudyGuide(ctx context.Context, userID uuid.UUID, topic string) (*types.StudyGuide, error)
	Materials(ctx context.Context, topic string) (*MaterialsResult, error)
	Understanding(ctx context.Context, userID uuid.UUID, topic string) (types.ConceptScores, error)
}

// TutorDeps are the collaborators of the tutor service. Searcher, Mastery, Exchanges and Metrics
// may be nil; the service then skips search, persistence or metrics respectively.
type TutorDeps struct {
	Engine      engine.Engine
	Model       string
	Temperature float64

	Searcher websearch.Searcher

	Mastery   repos.ConceptMasteryRepo
	Exchanges repos.TutorExchangeRepo

	Metrics *observability.Metrics
}

type tutorService struct {
	log  *logger.Logger
	deps TutorDeps
}

func NewTutorService(log *logger.Logger, deps TutorDeps) (TutorService, error) {
	if deps.Engine == nil {
		return nil, fmt.Errorf("tutor service: engine is required")
	}
	return &tutorService{
		log:  log.With("service", "TutorService"),
		deps: deps,
	}, nil
}

func invalid(format string, args ...any) error {
	return apierr.BadRequest(fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...)))
}

func unparseable(name prompts.PromptName, cause error) error {
	if cause == nil {
		return apierr.New(http.StatusBadGateway, apierr.CodeUnparseable, fmt.Errorf("%s: %w", name, ErrUnparseable))
	}
	return apierr.New(http.StatusBadGateway, apierr.CodeUnparseable, fmt.Errorf("%s: %w: %v", name, ErrUnparseable, cause))
}

func startSpan(ctx context.Context, name string, userID uuid.UUID, topic string) (context.Context, trace.Span) {
	return observability.StartSpan(ctx, "tutor."+name,
		attribute.String("tutor.topic", topic),
		attribute.Bool("tutor.authenticated", userID != uuid.Nil),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// buildPrompt maps prompt validation failures to 400s.
func buildPrompt(name prompts.PromptName, in prompts.Input) (prompts.Prompt, error) {
	p, err := prompts.Build(name, in)
	if err != nil {
		return prompts.Prompt{}, apierr.BadRequest(fmt.Errorf("%w: %v", ErrInvalidInput, err))
	}
	return p, nil
}

// complete sends the prompt, with optional prior turns between system and user messages.
func (s *tutorService) complete(ctx context.Context, p prompts.Prompt, history []engine.Message) (string, error) {
	ctx, span := observability.StartSpan(ctx, "llm."+p.Name, attribute.String("llm.model", s.deps.Model))
	defer span.End()

	msgs := make([]engine.Message, 0, len(history)+2)
	if p.System != "" {
		msgs = append(msgs, engine.Message{Role: engine.RoleSystem, Content: p.System})
	}
	msgs = append(msgs, history...)
	msgs = append(msgs, engine.Message{Role: engine.RoleUser, Content: p.User})

	opts := engine.GenerateOptions{Temperature: s.deps.Temperature}
	if p.Structured() {
		opts.JSONSchema = &engine.JSONSchema{Name: p.SchemaName, Schema: p.Schema, Strict: true}
	}

	start := time.Now()
	raw, err := s.deps.Engine.GenerateText(ctx, s.deps.Model, msgs, opts)
	if err != nil {
		s.deps.Metrics.ObserveLLMRequest(p.Name, "error", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Warn("model call failed", "prompt", p.Name, "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", apierr.New(http.StatusBadGateway, apierr.CodeEngine, fmt.Errorf("%s: %w", p.Name, err))
	}
	s.deps.Metrics.ObserveLLMRequest(p.Name, "ok", time.Since(start))
	s.log.Debug("model call done", "prompt", p.Name, "fingerprint", p.Fingerprint(), "raw_text", raw)
	return raw, nil
}

// generateStructured runs a structured prompt through the normalizer and decodes the result into T.
func generateStructured[T any](ctx context.Context, s *tutorService, userID uuid.UUID, topic string, name prompts.PromptName, in prompts.Input) (T, error) {
	var zero T
	p, err := buildPrompt(name, in)
	if err != nil {
		return zero, err
	}
	raw, err := s.complete(ctx, p, nil)
	if err != nil {
		return zero, err
	}

	res, ok := normalize.Normalize(raw, p.SchemaName)
	s.deps.Metrics.IncNormalizeStage(string(name), string(res.Stage))
	if !ok {
		s.log.Warn("model response unparseable", "prompt", string(name), "raw_text", raw)
		s.recordExchange(ctx, userID, topic, string(name), "", res.Stage, nil)
		return zero, unparseable(name, nil)
	}
	out, err := normalize.Decode[T](res)
	if err != nil {
		s.log.Warn("model response shape mismatch", "prompt", string(name), "stage", string(res.Stage), "error", err)
		s.recordExchange(ctx, userID, topic, string(name), "", res.Stage, res.Value)
		return zero, unparseable(name, err)
	}
	s.recordExchange(ctx, userID, topic, string(name), "", res.Stage, res.Value)
	return out, nil
}

func (s *tutorService) snapshot(ctx context.Context, userID uuid.UUID, topic string) (types.ConceptScores, error) {
	if s.deps.Mastery == nil || userID == uuid.Nil {
		return types.ConceptScores{}, nil
	}
	scores, err := s.deps.Mastery.Snapshot(dbctx.Context{Ctx: ctx}, userID, topic)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, apierr.CodeInternal, fmt.Errorf("load mastery: %w", err))
	}
	return scores, nil
}

// understandingJSON renders scores for prompts; errors fall back to an empty object.
func understandingJSON(scores types.ConceptScores) string {
	if len(scores) == 0 {
		return "{}"
	}
	b, err := json.Marshal(scores)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// recordExchange writes an audit row. Failures are logged and never surface to the caller.
func (s *tutorService) recordExchange(ctx context.Context, userID uuid.UUID, topic, kind, question string, stage normalize.Stage, value any) {
	if s.deps.Exchanges == nil || userID == uuid.Nil {
		return
	}
	var payload datatypes.JSON
	if value != nil {
		b, err := json.Marshal(value)
		if err != nil {
			s.log.Warn("encode exchange payload failed", "kind", kind, "error", err)
		} else {
			payload = datatypes.JSON(b)
		}
	}
	row := &types.TutorExchange{
		UserID:   userID,
		Topic:    strings.TrimSpace(topic),
		Kind:     kind,
		Question: question,
		Stage:    string(stage),
		Payload:  payload,
	}
	if err := s.deps.Exchanges.Create(dbctx.Context{Ctx: context.WithoutCancel(ctx)}, row); err != nil {
		s.log.Warn("record exchange failed", "kind", kind, "error", err)
	}
}
