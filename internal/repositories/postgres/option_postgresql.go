package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-service/internal/models"
	"github.com/mindcanvas/mindcanvas-service/internal/repositories"
)

type OptionPostgreSQL struct {
	db *gorm.DB
}

func NewOptionPostgreSQL(db *gorm.DB) repositories.OptionRepository {
	return &OptionPostgreSQL{db: db}
}

func (o OptionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, option *models.Option) error {
	return getDB(o.db, tx).WithContext(ctx).Create(option).Error
}

func (o OptionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Option, error) {
	var option models.Option
	if err := getDB(o.db, tx).WithContext(ctx).First(&option, id).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

// GetByIDs returns the options that exist among ids, ordered by id. Missing ids
// are simply absent from the result.
func (o OptionPostgreSQL) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Option, error) {
	options := make([]*models.Option, 0, len(ids))
	if len(ids) == 0 {
		return options, nil
	}
	if err := getDB(o.db, tx).WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (o OptionPostgreSQL) ListByQuestion(ctx context.Context, tx *gorm.DB, questionID uint) ([]*models.Option, error) {
	var options []*models.Option
	if err := getDB(o.db, tx).WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("display_order ASC, id ASC").
		Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (o OptionPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return getDB(o.db, tx).WithContext(ctx).Delete(&models.Option{}, id).Error
}
