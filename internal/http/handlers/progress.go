package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplan-backend/internal/http/response"
	"github.com/yungbote/studyplan-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type ProgressHandler struct {
	log      *logger.Logger
	progress services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log:      log.With("handler", "ProgressHandler"),
		progress: progress,
	}
}

// GET /api/subjects/:id/progress
func (h *ProgressHandler) List(c *gin.Context) {
	subjectID, ok := subjectParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	userID := ctxutil.UserID(ctx)
	rows, err := h.progress.List(ctx, userID, subjectID)
	if err != nil {
		response.RespondAPIError(c, err, "load_progress_failed")
		return
	}
	summary, err := h.progress.Summary(ctx, userID, subjectID)
	if err != nil {
		response.RespondAPIError(c, err, "load_progress_failed")
		return
	}
	response.RespondOK(c, gin.H{"progress": rows, "summary": summary})
}

type completionRequest struct {
	Completed *bool `json:"completed"`
}

// PUT /api/subjects/:id/topics/:topicId/completion
func (h *ProgressHandler) SetCompletion(c *gin.Context) {
	subjectID, ok := subjectParam(c)
	if !ok {
		return
	}
	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Completed == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("completed is required"))
		return
	}
	ctx := c.Request.Context()
	row, err := h.progress.SetCompleted(ctx, ctxutil.UserID(ctx), subjectID, c.Param("topicId"), *req.Completed)
	if err != nil {
		response.RespondAPIError(c, err, "save_progress_failed")
		return
	}
	response.RespondOK(c, gin.H{"progress": row})
}

type notesRequest struct {
	Notes string `json:"notes"`
}

// PUT /api/subjects/:id/topics/:topicId/notes
func (h *ProgressHandler) SaveNotes(c *gin.Context) {
	subjectID, ok := subjectParam(c)
	if !ok {
		return
	}
	var req notesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ctx := c.Request.Context()
	row, err := h.progress.SaveNotes(ctx, ctxutil.UserID(ctx), subjectID, c.Param("topicId"), req.Notes)
	if err != nil {
		response.RespondAPIError(c, err, "save_notes_failed")
		return
	}
	response.RespondOK(c, gin.H{"progress": row})
}
