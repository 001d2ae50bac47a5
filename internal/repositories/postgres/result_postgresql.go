package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mindcanvas/mindcanvas-service/internal/models"
	"github.com/mindcanvas/mindcanvas-service/internal/repositories"
)

type ResultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{db: db}
}

// Upsert replaces the stored result for the submission in one statement.
func (r ResultPostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, result *models.Result) error {
	return getDB(r.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "submission_id"}},
			UpdateAll: true,
		}).
		Create(result).Error
}

func (r ResultPostgreSQL) GetBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) (*models.Result, error) {
	var result models.Result
	if err := getDB(r.db, tx).WithContext(ctx).
		Where("submission_id = ?", submissionID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r ResultPostgreSQL) DeleteBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) error {
	return getDB(r.db, tx).WithContext(ctx).Where("submission_id = ?", submissionID).Delete(&models.Result{}).Error
}

func (r ResultPostgreSQL) ProfileDistribution(ctx context.Context, tx *gorm.DB, testID uint) (map[string]int64, error) {
	var rows []struct {
		ProfileCode string
		Count       int64
	}
	if err := getDB(r.db, tx).WithContext(ctx).
		Model(&models.Result{}).
		Select("results.profile_code AS profile_code, COUNT(*) AS count").
		Joins("JOIN submissions ON submissions.id = results.submission_id").
		Where("submissions.test_id = ?", testID).
		Group("results.profile_code").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	distribution := make(map[string]int64, len(rows))
	for _, row := range rows {
		distribution[row.ProfileCode] = row.Count
	}
	return distribution, nil
}

func (r ResultPostgreSQL) AverageFlows(ctx context.Context, tx *gorm.DB, testID uint) (*repositories.FlowAverages, error) {
	var averages repositories.FlowAverages
	if err := getDB(r.db, tx).WithContext(ctx).
		Model(&models.Result{}).
		Select(`COUNT(*) AS count,
			COALESCE(AVG(results.flow_a_pct), 0) AS flow_a,
			COALESCE(AVG(results.flow_b_pct), 0) AS flow_b,
			COALESCE(AVG(results.flow_c_pct), 0) AS flow_c,
			COALESCE(AVG(results.flow_d_pct), 0) AS flow_d`).
		Joins("JOIN submissions ON submissions.id = results.submission_id").
		Where("submissions.test_id = ?", testID).
		Scan(&averages).Error; err != nil {
		return nil, err
	}
	return &averages, nil
}
