package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-service/internal/models"
	"github.com/mindcanvas/mindcanvas-service/internal/repositories"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q QuestionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	return getDB(q.db, tx).WithContext(ctx).Create(question).Error
}

func (q QuestionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
	var question models.Question
	if err := getDB(q.db, tx).WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// Delete removes the question together with its options.
func (q QuestionPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(q.db, tx).WithContext(ctx)
	if err := db.Where("question_id = ?", id).Delete(&models.Option{}).Error; err != nil {
		return err
	}
	return db.Delete(&models.Question{}, id).Error
}

func (q QuestionPostgreSQL) ListByTest(ctx context.Context, tx *gorm.DB, testID uint) ([]*models.Question, error) {
	var questions []*models.Question
	if err := getDB(q.db, tx).WithContext(ctx).
		Where("test_id = ?", testID).
		Order("display_order ASC, id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q QuestionPostgreSQL) NextOrder(ctx context.Context, tx *gorm.DB, testID uint) (int, error) {
	var maxOrder *int
	if err := getDB(q.db, tx).WithContext(ctx).
		Model(&models.Question{}).
		Where("test_id = ?", testID).
		Select("MAX(display_order)").
		Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	if maxOrder == nil {
		return 1, nil
	}
	return *maxOrder + 1, nil
}
