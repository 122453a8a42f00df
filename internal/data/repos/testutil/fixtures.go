package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/studyplan-backend/internal/domain"
)

func SeedSubject(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) *types.Subject {
	tb.Helper()
	s := &types.Subject{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         name,
		University:   "Test University",
		SyllabusText: "Unit 1: basics",
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subject: %v", err)
	}
	return s
}

func SeedLearningPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, s *types.Subject, planJSON string) *types.LearningPlan {
	tb.Helper()
	p := &types.LearningPlan{
		ID:        uuid.New(),
		UserID:    s.UserID,
		SubjectID: s.ID,
		PlanData:  datatypes.JSON([]byte(planJSON)),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed learning plan: %v", err)
	}
	return p
}
