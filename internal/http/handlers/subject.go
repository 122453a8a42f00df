package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyplan-backend/internal/http/response"
	"github.com/yungbote/studyplan-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type SubjectHandler struct {
	log      *logger.Logger
	subjects services.SubjectService
}

func NewSubjectHandler(log *logger.Logger, subjects services.SubjectService) *SubjectHandler {
	return &SubjectHandler{
		log:      log.With("handler", "SubjectHandler"),
		subjects: subjects,
	}
}

// POST /api/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	var req services.CreateSubjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	subject, err := h.subjects.Create(c.Request.Context(), ctxutil.UserID(c.Request.Context()), req)
	if err != nil {
		h.log.Debug("Create subject failed", "error", err)
		response.RespondAPIError(c, err, "create_subject_failed")
		return
	}
	response.RespondCreated(c, gin.H{"subject": subject})
}

// GET /api/subjects
func (h *SubjectHandler) List(c *gin.Context) {
	subjects, err := h.subjects.List(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		h.log.Error("List subjects failed", "error", err)
		response.RespondAPIError(c, err, "load_subjects_failed")
		return
	}
	response.RespondOK(c, gin.H{"subjects": subjects})
}

// GET /api/subjects/:id
func (h *SubjectHandler) Get(c *gin.Context) {
	subjectID, ok := subjectParam(c)
	if !ok {
		return
	}
	subject, err := h.subjects.Get(c.Request.Context(), ctxutil.UserID(c.Request.Context()), subjectID)
	if err != nil {
		response.RespondAPIError(c, err, "load_subject_failed")
		return
	}
	response.RespondOK(c, gin.H{"subject": subject})
}

func subjectParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_subject_id", err)
		return uuid.Nil, false
	}
	return id, true
}
