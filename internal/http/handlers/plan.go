package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplan-backend/internal/http/response"
	"github.com/yungbote/studyplan-backend/internal/platform/ctxutil"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type PlanHandler struct {
	log   *logger.Logger
	plans services.PlanService
}

func NewPlanHandler(log *logger.Logger, plans services.PlanService) *PlanHandler {
	return &PlanHandler{
		log:   log.With("handler", "PlanHandler"),
		plans: plans,
	}
}

// POST /api/subjects/:id/plan
func (h *PlanHandler) Generate(c *gin.Context) {
	subjectID, ok := subjectParam(c)
	if !ok {
		return
	}
	view, err := h.plans.Generate(c.Request.Context(), ctxutil.UserID(c.Request.Context()), subjectID)
	if err != nil {
		h.log.Warn("Generate plan failed", "subject_id", subjectID, "error", err)
		response.RespondAPIError(c, err, "generate_plan_failed")
		return
	}
	response.RespondCreated(c, gin.H{"plan": view})
}

// GET /api/subjects/:id/plan
func (h *PlanHandler) Get(c *gin.Context) {
	subjectID, ok := subjectParam(c)
	if !ok {
		return
	}
	view, err := h.plans.Get(c.Request.Context(), ctxutil.UserID(c.Request.Context()), subjectID)
	if err != nil {
		response.RespondAPIError(c, err, "load_plan_failed")
		return
	}
	response.RespondOK(c, gin.H{"plan": view})
}
