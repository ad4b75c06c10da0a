package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/learning-planner/internal/prompts"
	"github.com/yungbote/learning-planner/internal/repos"
	"github.com/yungbote/learning-planner/internal/tutor/resources"
	"github.com/yungbote/learning-planner/internal/types"
)

type RoadmapRequest struct {
	Topic      string  `json:"topic"`
	Days       int     `json:"days"`
	Hours      float64 `json:"hours"`
	Experience string  `json:"experience"`
}

type RefineRequest struct {
	Roadmap     types.Roadmap `json:"roadmap"`
	Instruction string        `json:"instruction"`
}

// MaterialsResult is the model's curated list plus resources lifted from a live web search.
type MaterialsResult struct {
	types.Materials
	WebResources []types.Resource `json:"web_resources"`
}

func (s *tutorService) GenerateRoadmap(ctx context.Context, userID uuid.UUID, req RoadmapRequest) (out *types.Roadmap, err error) {
	topic := strings.TrimSpace(req.Topic)
	ctx, span := startSpan(ctx, "roadmap", userID, topic)
	defer func() { endSpan(span, err) }()

	experience := strings.TrimSpace(req.Experience)
	if experience == "" {
		experience = "beginner"
	}
	roadmap, err := generateStructured[types.Roadmap](ctx, s, userID, topic, prompts.PromptRoadmap, prompts.Input{
		Topic:      topic,
		Days:       req.Days,
		Hours:      req.Hours,
		Experience: experience,
	})
	if err != nil {
		return nil, err
	}
	return &roadmap, nil
}

func (s *tutorService) RefineRoadmap(ctx context.Context, userID uuid.UUID, req RefineRequest) (out *types.Roadmap, err error) {
	if len(req.Roadmap.Roadmap) == 0 {
		return nil, invalid("roadmap must contain at least one day")
	}
	ctx, span := startSpan(ctx, "roadmap_refine", userID, req.Roadmap.Topic)
	defer func() { endSpan(span, err) }()

	b, err := json.Marshal(req.Roadmap)
	if err != nil {
		return nil, invalid("roadmap: %v", err)
	}
	roadmap, err := generateStructured[types.Roadmap](ctx, s, userID, req.Roadmap.Topic, prompts.PromptRoadmapRefine, prompts.Input{
		Topic:       req.Roadmap.Topic,
		RoadmapJSON: string(b),
		Instruction: strings.TrimSpace(req.Instruction),
	})
	if err != nil {
		return nil, err
	}
	return &roadmap, nil
}

func (s *tutorService) Flashcards(ctx context.Context, userID uuid.UUID, topic string) (out *types.FlashcardSet, err error) {
	topic = strings.TrimSpace(topic)
	ctx, span := startSpan(ctx, "flashcards", userID, topic)
	defer func() { endSpan(span, err) }()

	current, err := s.snapshot(ctx, userID, topic)
	if err != nil {
		return nil, err
	}
	set, err := generateStructured[types.FlashcardSet](ctx, s, userID, topic, prompts.PromptFlashcards, prompts.Input{
		Topic:             topic,
		UnderstandingJSON: understandingJSON(current),
	})
	if err != nil {
		return nil, err
	}
	if set.Flashcards == nil {
		set.Flashcards = []types.Flashcard{}
	}
	return &set, nil
}

func (s *tutorService) StudyGuide(ctx context.Context, userID uuid.UUID, topic string) (out *types.StudyGuide, err error) {
	topic = strings.TrimSpace(topic)
	ctx, span := startSpan(ctx, "study_guide", userID, topic)
	defer func() { endSpan(span, err) }()

	current, err := s.snapshot(ctx, userID, topic)
	if err != nil {
		return nil, err
	}
	guide, err := generateStructured[types.StudyGuide](ctx, s, userID, topic, prompts.PromptStudyGuide, prompts.Input{
		Topic:             topic,
		UnderstandingJSON: understandingJSON(current),
	})
	if err != nil {
		return nil, err
	}
	return &guide, nil
}

func (s *tutorService) Materials(ctx context.Context, topic string) (out *MaterialsResult, err error) {
	topic = strings.TrimSpace(topic)
	ctx, span := startSpan(ctx, "materials", uuid.Nil, topic)
	defer func() { endSpan(span, err) }()

	materials, err := generateStructured[types.Materials](ctx, s, uuid.Nil, topic, prompts.PromptMaterials, prompts.Input{Topic: topic})
	if err != nil {
		return nil, err
	}
	res := &MaterialsResult{Materials: materials, WebResources: []types.Resource{}}
	if s.deps.Searcher != nil {
		text, err := s.deps.Searcher.Search(ctx, topic+" tutorial documentation")
		if err != nil {
			s.log.Warn("materials web search failed", "error", err)
		} else {
			res.WebResources = resources.Extract(text, topic)
			s.deps.Metrics.ObserveResources(len(res.WebResources))
		}
	}
	return res, nil
}

func (s *tutorService) Understanding(ctx context.Context, userID uuid.UUID, topic string) (types.ConceptScores, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, invalid("topic is required")
	}
	return s.snapshot(ctx, userID, repos.TopicKey(topic))
}
