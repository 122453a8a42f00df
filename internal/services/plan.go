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
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/data/repos"
	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/observability"
	"github.com/yungbote/studyplan-backend/internal/platform/apierr"
	"github.com/yungbote/studyplan-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/platform/openai"
)

// PlanVideoResolver fills topic video slots and builds manual search links.
type PlanVideoResolver interface {
	ResolvePlan(ctx context.Context, doc types.LearningPlanDocument) types.LearningPlanDocument
	FallbackSearchURL(topic, subject string) string
}

type TopicView struct {
	types.Topic
	Completed         bool       `json:"completed"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	Notes             string     `json:"notes"`
	FallbackSearchURL string     `json:"fallbackSearchUrl,omitempty"`
}

type UnitView struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	EstimatedHours float64     `json:"estimatedHours"`
	Topics         []TopicView `json:"topics"`
}

// PlanView is a stored plan merged with the user's progress.
type PlanView struct {
	SubjectID           uuid.UUID       `json:"subjectId"`
	SubjectName         string          `json:"subjectName"`
	UniversityName      string          `json:"universityName"`
	TotalEstimatedHours float64         `json:"totalEstimatedHours"`
	Units               []UnitView      `json:"units"`
	Progress            ProgressSummary `json:"progress"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

type PlanService interface {
	// Generate builds a plan from the subject's syllabus, resolves its videos and stores it,
	// replacing any previous plan of the subject.
	Generate(ctx context.Context, userID, subjectID uuid.UUID) (*PlanView, error)
	Get(ctx context.Context, userID, subjectID uuid.UUID) (*PlanView, error)
}

type planService struct {
	db        *gorm.DB
	log       *logger.Logger
	subjects  repos.SubjectRepo
	plans     repos.LearningPlanRepo
	progress  repos.StudyProgressRepo
	generator openai.PlanGenerator
	videos    PlanVideoResolver
}

func NewPlanService(
	db *gorm.DB,
	log *logger.Logger,
	subjects repos.SubjectRepo,
	plans repos.LearningPlanRepo,
	progress repos.StudyProgressRepo,
	generator openai.PlanGenerator,
	videos PlanVideoResolver,
) PlanService {
	return &planService{
		db:        db,
		log:       log.With("service", "PlanService"),
		subjects:  subjects,
		plans:     plans,
		progress:  progress,
		generator: generator,
		videos:    videos,
	}
}

func (s *planService) Generate(ctx context.Context, userID, subjectID uuid.UUID) (*PlanView, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	subject, err := s.subjects.GetByID(dbctx.Of(ctx), userID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("load subject: %w", err)
	}
	if subject == nil {
		return nil, apierr.NotFound("subject_not_found", fmt.Errorf("subject %s not found", subjectID))
	}
	if strings.TrimSpace(subject.SyllabusText) == "" {
		return nil, apierr.BadRequest("missing_syllabus", fmt.Errorf("subject has no syllabus text"))
	}
	if s.generator == nil {
		return nil, apierr.New(http.StatusServiceUnavailable, "plan_generator_unavailable", openai.ErrNotConfigured)
	}

	start := time.Now()
	doc, err := s.generator.GeneratePlan(ctx, openai.PlanRequest{
		SubjectName:    subject.Name,
		UniversityName: subject.University,
		SyllabusText:   subject.SyllabusText,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		if errors.Is(err, openai.ErrNotConfigured) {
			return nil, apierr.New(http.StatusServiceUnavailable, "plan_generator_unavailable", err)
		}
		observability.Current().ObservePlanGeneration("error")
		s.log.Warn("plan generation failed", "subject_id", subjectID, "error", err)
		return nil, apierr.New(http.StatusBadGateway, "plan_generation_failed", err)
	}
	observability.Current().ObservePlanGeneration("ok")
	if s.videos != nil {
		doc = s.videos.ResolvePlan(ctx, doc)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	row := &types.LearningPlan{
		UserID:    userID,
		SubjectID: subjectID,
		PlanData:  datatypes.JSON(raw),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.plans.Upsert(dbc, row); err != nil {
			return fmt.Errorf("store plan: %w", err)
		}
		if err := s.subjects.UpdateTotalHours(dbc, subjectID, doc.TotalEstimatedHours); err != nil {
			return fmt.Errorf("update subject hours: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("learning plan stored",
		"subject_id", subjectID,
		"units", len(doc.Units),
		"topics", doc.TopicCount(),
		"elapsed", time.Since(start).String(),
	)
	return s.Get(ctx, userID, subjectID)
}

func (s *planService) Get(ctx context.Context, userID, subjectID uuid.UUID) (*PlanView, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	subject, err := s.subjects.GetByID(dbctx.Of(ctx), userID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("load subject: %w", err)
	}
	if subject == nil {
		return nil, apierr.NotFound("subject_not_found", fmt.Errorf("subject %s not found", subjectID))
	}
	row, err := s.plans.GetBySubject(dbctx.Of(ctx), userID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}
	if row == nil {
		return nil, apierr.NotFound("plan_not_found", fmt.Errorf("no plan for subject %s", subjectID))
	}
	var doc types.LearningPlanDocument
	if err := json.Unmarshal(row.PlanData, &doc); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	rows, err := s.progress.ListBySubject(dbctx.Of(ctx), userID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return s.view(subjectID, doc, rows, row.UpdatedAt), nil
}

func (s *planService) view(subjectID uuid.UUID, doc types.LearningPlanDocument, rows []*types.StudyProgress, updated time.Time) *PlanView {
	byTopic := make(map[string]*types.StudyProgress, len(rows))
	for _, r := range rows {
		byTopic[r.TopicID] = r
	}

	v := &PlanView{
		SubjectID:           subjectID,
		SubjectName:         doc.SubjectName,
		UniversityName:      doc.UniversityName,
		TotalEstimatedHours: doc.TotalEstimatedHours,
		Units:               make([]UnitView, 0, len(doc.Units)),
		Progress:            summarize(doc, rows),
		UpdatedAt:           updated,
	}
	for _, u := range doc.Units {
		uv := UnitView{ID: u.ID, Name: u.Name, EstimatedHours: u.EstimatedHours, Topics: make([]TopicView, 0, len(u.Topics))}
		for _, t := range u.Topics {
			tv := TopicView{Topic: t}
			if p := byTopic[t.ID]; p != nil {
				tv.Completed = p.Completed
				tv.CompletedAt = p.CompletedAt
				tv.Notes = p.Notes
			}
			if t.HasVideo && t.VideoID == "" && s.videos != nil {
				tv.FallbackSearchURL = s.videos.FallbackSearchURL(t.LookupQuery(), doc.SubjectName)
			}
			uv.Topics = append(uv.Topics, tv)
		}
		v.Units = append(v.Units, uv)
	}
	return v
}
