package study

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/studyplan-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/platform/dbctx"
)

func TestSubjectRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewSubjectRepo(db, testutil.Logger(t))

	userID := uuid.New()
	other := uuid.New()
	s := &types.Subject{UserID: userID, Name: "Data Structures", SyllabusText: "trees"}
	if err := repo.Create(dbc, s); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.ID == uuid.Nil {
		t.Fatal("Create did not assign an id")
	}
	testutil.SeedSubject(t, ctx, tx, other, "Someone else's")

	got, err := repo.GetByID(dbc, userID, s.ID)
	if err != nil || got == nil || got.Name != "Data Structures" {
		t.Fatalf("GetByID: got=%+v err=%v", got, err)
	}
	if got, err := repo.GetByID(dbc, other, s.ID); err != nil || got != nil {
		t.Fatalf("GetByID for another user: got=%+v err=%v", got, err)
	}
	if got, err := repo.GetByID(dbc, userID, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetByID missing: got=%+v err=%v", got, err)
	}

	rows, err := repo.ListByUser(dbc, userID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(rows))
	}

	if err := repo.UpdateTotalHours(dbc, s.ID, 42.5); err != nil {
		t.Fatalf("UpdateTotalHours: %v", err)
	}
	got, _ = repo.GetByID(dbc, userID, s.ID)
	if got.TotalEstimatedHours != 42.5 {
		t.Fatalf("TotalEstimatedHours = %v", got.TotalEstimatedHours)
	}
}

func TestLearningPlanRepoUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewLearningPlanRepo(db, testutil.Logger(t))

	s := testutil.SeedSubject(t, ctx, tx, uuid.New(), "Physics")

	first := &types.LearningPlan{UserID: s.UserID, SubjectID: s.ID, PlanData: datatypes.JSON([]byte(`{"subjectName":"v1"}`))}
	if err := repo.Upsert(dbc, first); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	second := &types.LearningPlan{UserID: s.UserID, SubjectID: s.ID, PlanData: datatypes.JSON([]byte(`{"subjectName":"v2"}`))}
	if err := repo.Upsert(dbc, second); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}

	var count int64
	if err := tx.Model(&types.LearningPlan{}).Where("subject_id = ?", s.ID).Count(&count).Error; err != nil || count != 1 {
		t.Fatalf("count = %d err=%v, want one plan per subject", count, err)
	}

	got, err := repo.GetBySubject(dbc, s.UserID, s.ID)
	if err != nil || got == nil {
		t.Fatalf("GetBySubject: got=%+v err=%v", got, err)
	}
	var doc types.LearningPlanDocument
	if err := json.Unmarshal(got.PlanData, &doc); err != nil || doc.SubjectName != "v2" {
		t.Fatalf("PlanData = %s err=%v", got.PlanData, err)
	}
	if got, err := repo.GetBySubject(dbc, uuid.New(), s.ID); err != nil || got != nil {
		t.Fatalf("GetBySubject other user: got=%+v err=%v", got, err)
	}
}

func TestStudyProgressRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewStudyProgressRepo(db, testutil.Logger(t))

	s := testutil.SeedSubject(t, ctx, tx, uuid.New(), "Chemistry")
	now := time.Now().UTC()

	if err := repo.UpsertNotes(dbc, &types.StudyProgress{UserID: s.UserID, SubjectID: s.ID, TopicID: "t1", Notes: "remember pKa"}); err != nil {
		t.Fatalf("UpsertNotes: %v", err)
	}
	if err := repo.UpsertCompletion(dbc, &types.StudyProgress{UserID: s.UserID, SubjectID: s.ID, TopicID: "t1", Completed: true, CompletedAt: &now}); err != nil {
		t.Fatalf("UpsertCompletion: %v", err)
	}
	if err := repo.UpsertCompletion(dbc, &types.StudyProgress{UserID: s.UserID, SubjectID: s.ID, TopicID: "t2", Completed: true, CompletedAt: &now}); err != nil {
		t.Fatalf("UpsertCompletion t2: %v", err)
	}

	rows, err := repo.ListBySubject(dbc, s.UserID, s.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListBySubject: err=%v len=%d", err, len(rows))
	}
	t1 := rows[0]
	if t1.TopicID != "t1" || !t1.Completed || t1.CompletedAt == nil || t1.Notes != "remember pKa" {
		t.Fatalf("t1 = %+v, want completion and notes merged", t1)
	}

	if err := repo.UpsertCompletion(dbc, &types.StudyProgress{UserID: s.UserID, SubjectID: s.ID, TopicID: "t1"}); err != nil {
		t.Fatalf("UpsertCompletion clear: %v", err)
	}
	rows, _ = repo.ListBySubject(dbc, s.UserID, s.ID)
	if rows[0].Completed || rows[0].CompletedAt != nil || rows[0].Notes != "remember pKa" {
		t.Fatalf("t1 after clear = %+v", rows[0])
	}

	if rows, err := repo.ListBySubject(dbc, uuid.New(), s.ID); err != nil || len(rows) != 0 {
		t.Fatalf("ListBySubject other user: err=%v len=%d", err, len(rows))
	}
}
