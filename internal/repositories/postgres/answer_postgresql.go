package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mindcanvas/mindcanvas-service/internal/models"
	"github.com/mindcanvas/mindcanvas-service/internal/repositories"
)

type AnswerPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerPostgreSQL(db *gorm.DB) repositories.AnswerRepository {
	return &AnswerPostgreSQL{db: db}
}

func (a AnswerPostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, answer *models.Answer) error {
	answer.UpdatedAt = time.Now().UTC()
	return getDB(a.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "submission_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(answer).Error
}

func (a AnswerPostgreSQL) ListBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) ([]*models.Answer, error) {
	var answers []*models.Answer
	if err := getDB(a.db, tx).WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("question_id ASC").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (a AnswerPostgreSQL) DeleteBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) error {
	return getDB(a.db, tx).WithContext(ctx).Where("submission_id = ?", submissionID).Delete(&models.Answer{}).Error
}
