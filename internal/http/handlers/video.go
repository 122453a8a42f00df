package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplan-backend/internal/domain/planning"
	"github.com/yungbote/studyplan-backend/internal/domain/video"
	"github.com/yungbote/studyplan-backend/internal/http/response"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

// VideoResolver is the resolution engine as seen by the HTTP layer.
type VideoResolver interface {
	ResolveVideo(ctx context.Context, topic, subject string) (video.Resolution, error)
	ResolvePlan(ctx context.Context, doc planning.LearningPlanDocument) planning.LearningPlanDocument
	FallbackSearchURL(topic, subject string) string
}

type VideoHandler struct {
	log    *logger.Logger
	videos VideoResolver
}

func NewVideoHandler(log *logger.Logger, videos VideoResolver) *VideoHandler {
	return &VideoHandler{
		log:    log.With("handler", "VideoHandler"),
		videos: videos,
	}
}

type resolveVideoRequest struct {
	Topic   string `json:"topic"`
	Subject string `json:"subject"`
}

type resolveVideoResponse struct {
	video.Resolution
	FallbackSearchURL string `json:"fallbackSearchUrl,omitempty"`
}

// POST /api/videos/resolve
func (h *VideoHandler) ResolveVideo(c *gin.Context) {
	var req resolveVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.videos.ResolveVideo(c.Request.Context(), req.Topic, req.Subject)
	if err != nil {
		if errors.Is(err, video.ErrInvalidInput) {
			response.RespondError(c, http.StatusBadRequest, "invalid_topic", err)
			return
		}
		h.log.Warn("ResolveVideo aborted", "error", err)
		response.RespondError(c, http.StatusServiceUnavailable, "resolution_aborted", err)
		return
	}
	out := resolveVideoResponse{Resolution: res}
	if !res.Found {
		out.FallbackSearchURL = h.videos.FallbackSearchURL(req.Topic, req.Subject)
	}
	response.RespondOK(c, out)
}

// POST /api/plans/resolve
func (h *VideoHandler) ResolvePlan(c *gin.Context) {
	var doc planning.LearningPlanDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := doc.Validate(); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_plan", err)
		return
	}
	response.RespondOK(c, h.videos.ResolvePlan(c.Request.Context(), doc))
}
