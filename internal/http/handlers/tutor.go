package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/learning-planner/internal/http/response"
	"github.com/yungbote/learning-planner/internal/platform/apierr"
	"github.com/yungbote/learning-planner/internal/platform/ctxutil"
	"github.com/yungbote/learning-planner/internal/platform/logger"
	"github.com/yungbote/learning-planner/internal/services"
	"github.com/yungbote/learning-planner/internal/types"
)

type TutorHandler struct {
	log   *logger.Logger
	tutor services.TutorService
}

func NewTutorHandler(log *logger.Logger, tutor services.TutorService) *TutorHandler {
	return &TutorHandler{log: log.With("handler", "TutorHandler"), tutor: tutor}
}

type topicRequest struct {
	Topic string `json:"topic"`
}

type understandingResponse struct {
	Topic         string              `json:"topic"`
	Understanding types.ConceptScores `json:"understanding"`
}

func userID(c *gin.Context) uuid.UUID {
	id, _ := ctxutil.UserID(c.Request.Context())
	return id
}

// bind decodes the JSON body, answering 400 itself on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (h *TutorHandler) fail(c *gin.Context, op string, err error) {
	_ = c.Error(err)
	if apierr.StatusOf(err) >= http.StatusInternalServerError {
		h.log.Warn("tutor request failed", "op", op, "request_id", ctxutil.RequestID(c.Request.Context()), "error", err)
	}
	response.RespondServiceError(c, err)
}

// POST /api/ask-about-task
func (h *TutorHandler) AskAboutTask(c *gin.Context) {
	var req services.TaskQuestion
	if !bind(c, &req) {
		return
	}
	answer, err := h.tutor.AskAboutTask(c.Request.Context(), userID(c), req)
	if err != nil {
		h.fail(c, "ask_about_task", err)
		return
	}
	response.RespondOK(c, answer)
}

// POST /api/ai-env/chat
func (h *TutorHandler) Chat(c *gin.Context) {
	var req services.ChatRequest
	if !bind(c, &req) {
		return
	}
	resp, err := h.tutor.Chat(c.Request.Context(), userID(c), req)
	if err != nil {
		h.fail(c, "chat", err)
		return
	}
	response.RespondOK(c, resp)
}

// POST /api/ai-env/flashcards
func (h *TutorHandler) Flashcards(c *gin.Context) {
	var req topicRequest
	if !bind(c, &req) {
		return
	}
	set, err := h.tutor.Flashcards(c.Request.Context(), userID(c), req.Topic)
	if err != nil {
		h.fail(c, "flashcards", err)
		return
	}
	response.RespondOK(c, set)
}

// POST /api/ai-env/study-guide
func (h *TutorHandler) StudyGuide(c *gin.Context) {
	var req topicRequest
	if !bind(c, &req) {
		return
	}
	guide, err := h.tutor.StudyGuide(c.Request.Context(), userID(c), req.Topic)
	if err != nil {
		h.fail(c, "study_guide", err)
		return
	}
	response.RespondOK(c, guide)
}

// POST /api/ai-env/materials
func (h *TutorHandler) Materials(c *gin.Context) {
	var req topicRequest
	if !bind(c, &req) {
		return
	}
	materials, err := h.tutor.Materials(c.Request.Context(), req.Topic)
	if err != nil {
		h.fail(c, "materials", err)
		return
	}
	response.RespondOK(c, materials)
}

// POST /api/roadmaps
func (h *TutorHandler) GenerateRoadmap(c *gin.Context) {
	var req services.RoadmapRequest
	if !bind(c, &req) {
		return
	}
	roadmap, err := h.tutor.GenerateRoadmap(c.Request.Context(), userID(c), req)
	if err != nil {
		h.fail(c, "roadmap", err)
		return
	}
	response.RespondOK(c, roadmap)
}

// POST /api/roadmaps/refine
func (h *TutorHandler) RefineRoadmap(c *gin.Context) {
	var req services.RefineRequest
	if !bind(c, &req) {
		return
	}
	roadmap, err := h.tutor.RefineRoadmap(c.Request.Context(), userID(c), req)
	if err != nil {
		h.fail(c, "roadmap_refine", err)
		return
	}
	response.RespondOK(c, roadmap)
}

// GET /api/understanding?topic=
func (h *TutorHandler) Understanding(c *gin.Context) {
	topic := strings.TrimSpace(c.Query("topic"))
	scores, err := h.tutor.Understanding(c.Request.Context(), userID(c), topic)
	if err != nil {
		h.fail(c, "understanding", err)
		return
	}
	response.RespondOK(c, understandingResponse{Topic: topic, Understanding: scores})
}
