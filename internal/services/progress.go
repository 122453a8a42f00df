package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/data/repos"
	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/platform/apierr"
	"github.com/yungbote/studyplan-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type UnitProgress struct {
	UnitID    string `json:"unitId"`
	Name      string `json:"name"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

type ProgressSummary struct {
	CompletedTopics int            `json:"completedTopics"`
	TotalTopics     int            `json:"totalTopics"`
	Percent         int            `json:"percent"`
	Units           []UnitProgress `json:"units"`
}

type ProgressService interface {
	SetCompleted(ctx context.Context, userID, subjectID uuid.UUID, topicID string, completed bool) (*types.StudyProgress, error)
	SaveNotes(ctx context.Context, userID, subjectID uuid.UUID, topicID, notes string) (*types.StudyProgress, error)
	List(ctx context.Context, userID, subjectID uuid.UUID) ([]*types.StudyProgress, error)
	Summary(ctx context.Context, userID, subjectID uuid.UUID) (*ProgressSummary, error)
}

type progressService struct {
	db       *gorm.DB
	log      *logger.Logger
	subjects repos.SubjectRepo
	plans    repos.LearningPlanRepo
	progress repos.StudyProgressRepo
}

func NewProgressService(
	db *gorm.DB,
	log *logger.Logger,
	subjects repos.SubjectRepo,
	plans repos.LearningPlanRepo,
	progress repos.StudyProgressRepo,
) ProgressService {
	return &progressService{
		db:       db,
		log:      log.With("service", "ProgressService"),
		subjects: subjects,
		plans:    plans,
		progress: progress,
	}
}

func (s *progressService) SetCompleted(ctx context.Context, userID, subjectID uuid.UUID, topicID string, completed bool) (*types.StudyProgress, error) {
	topicID, err := s.checkTopic(ctx, userID, subjectID, topicID)
	if err != nil {
		return nil, err
	}
	row := &types.StudyProgress{
		UserID:    userID,
		SubjectID: subjectID,
		TopicID:   topicID,
		Completed: completed,
	}
	if completed {
		now := time.Now().UTC()
		row.CompletedAt = &now
	}
	if err := s.progress.UpsertCompletion(dbctx.Of(ctx), row); err != nil {
		return nil, fmt.Errorf("save completion: %w", err)
	}
	s.log.Debug("topic completion saved", "subject_id", subjectID, "topic_id", topicID, "completed", completed)
	return s.find(ctx, userID, subjectID, topicID)
}

func (s *progressService) SaveNotes(ctx context.Context, userID, subjectID uuid.UUID, topicID, notes string) (*types.StudyProgress, error) {
	topicID, err := s.checkTopic(ctx, userID, subjectID, topicID)
	if err != nil {
		return nil, err
	}
	row := &types.StudyProgress{
		UserID:    userID,
		SubjectID: subjectID,
		TopicID:   topicID,
		Notes:     notes,
	}
	if err := s.progress.UpsertNotes(dbctx.Of(ctx), row); err != nil {
		return nil, fmt.Errorf("save notes: %w", err)
	}
	return s.find(ctx, userID, subjectID, topicID)
}

func (s *progressService) List(ctx context.Context, userID, subjectID uuid.UUID) ([]*types.StudyProgress, error) {
	if _, err := s.subject(ctx, userID, subjectID); err != nil {
		return nil, err
	}
	return s.progress.ListBySubject(dbctx.Of(ctx), userID, subjectID)
}

func (s *progressService) Summary(ctx context.Context, userID, subjectID uuid.UUID) (*ProgressSummary, error) {
	if _, err := s.subject(ctx, userID, subjectID); err != nil {
		return nil, err
	}
	doc, err := loadPlanDocument(ctx, s.plans, userID, subjectID)
	if err != nil {
		return nil, err
	}
	rows, err := s.progress.ListBySubject(dbctx.Of(ctx), userID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	sum := summarize(doc, rows)
	return &sum, nil
}

func (s *progressService) subject(ctx context.Context, userID, subjectID uuid.UUID) (*types.Subject, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	row, err := s.subjects.GetByID(dbctx.Of(ctx), userID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("load subject: %w", err)
	}
	if row == nil {
		return nil, apierr.NotFound("subject_not_found", fmt.Errorf("subject %s not found", subjectID))
	}
	return row, nil
}

// checkTopic verifies the subject belongs to the user and the topic exists in its plan.
func (s *progressService) checkTopic(ctx context.Context, userID, subjectID uuid.UUID, topicID string) (string, error) {
	topicID = strings.TrimSpace(topicID)
	if topicID == "" {
		return "", apierr.BadRequest("missing_topic_id", nil)
	}
	if _, err := s.subject(ctx, userID, subjectID); err != nil {
		return "", err
	}
	doc, err := loadPlanDocument(ctx, s.plans, userID, subjectID)
	if err != nil {
		return "", err
	}
	for _, u := range doc.Units {
		for _, t := range u.Topics {
			if t.ID == topicID {
				return topicID, nil
			}
		}
	}
	return "", apierr.NotFound("topic_not_found", fmt.Errorf("topic %q not in plan", topicID))
}

func (s *progressService) find(ctx context.Context, userID, subjectID uuid.UUID, topicID string) (*types.StudyProgress, error) {
	rows, err := s.progress.ListBySubject(dbctx.Of(ctx), userID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	for _, r := range rows {
		if r.TopicID == topicID {
			return r, nil
		}
	}
	return nil, fmt.Errorf("progress for topic %q not found after write", topicID)
}

func loadPlanDocument(ctx context.Context, plans repos.LearningPlanRepo, userID, subjectID uuid.UUID) (types.LearningPlanDocument, error) {
	row, err := plans.GetBySubject(dbctx.Of(ctx), userID, subjectID)
	if err != nil {
		return types.LearningPlanDocument{}, fmt.Errorf("load plan: %w", err)
	}
	if row == nil {
		return types.LearningPlanDocument{}, apierr.NotFound("plan_not_found", fmt.Errorf("no plan for subject %s", subjectID))
	}
	var doc types.LearningPlanDocument
	if err := json.Unmarshal(row.PlanData, &doc); err != nil {
		return types.LearningPlanDocument{}, fmt.Errorf("decode plan: %w", err)
	}
	return doc, nil
}

// summarize counts completed topics of the plan. Progress rows for topics no
// longer in the plan are ignored.
func summarize(doc types.LearningPlanDocument, rows []*types.StudyProgress) ProgressSummary {
	done := make(map[string]bool, len(rows))
	for _, r := range rows {
		if r != nil && r.Completed {
			done[r.TopicID] = true
		}
	}
	sum := ProgressSummary{Units: make([]UnitProgress, 0, len(doc.Units))}
	for _, u := range doc.Units {
		up := UnitProgress{UnitID: u.ID, Name: u.Name, Total: len(u.Topics)}
		for _, t := range u.Topics {
			if done[t.ID] {
				up.Completed++
			}
		}
		sum.CompletedTopics += up.Completed
		sum.TotalTopics += up.Total
		sum.Units = append(sum.Units, up)
	}
	if sum.TotalTopics > 0 {
		sum.Percent = int(math.Round(float64(sum.CompletedTopics) * 100 / float64(sum.TotalTopics)))
	}
	return sum
}
