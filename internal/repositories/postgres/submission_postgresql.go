package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-service/internal/models"
	"github.com/mindcanvas/mindcanvas-service/internal/repositories"
)

type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db}
}

func (s SubmissionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	return getDB(s.db, tx).WithContext(ctx).Create(submission).Error
}

func (s SubmissionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	if err := getDB(s.db, tx).WithContext(ctx).Where("id = ?", id).First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (s SubmissionPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	var submissions []*models.Submission
	var total int64

	// apply filter first
	query := getDB(s.db, tx).WithContext(ctx).Model(&models.Submission{})
	query = applySubmissionFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder,
		map[string]bool{"created_at": true, "finished_at": true, "email": true}, "created_at",
		filters.Limit, filters.Offset)

	if err := query.Preload("Result").Find(&submissions).Error; err != nil {
		return nil, 0, err
	}
	return submissions, total, nil
}

func (s SubmissionPostgreSQL) MarkFinished(ctx context.Context, tx *gorm.DB, id uuid.UUID, finishedAt time.Time) error {
	return getDB(s.db, tx).WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      models.SubmissionFinished,
			"finished_at": finishedAt,
		}).Error
}

func (s SubmissionPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return getDB(s.db, tx).WithContext(ctx).Where("id = ?", id).Delete(&models.Submission{}).Error
}

func (s SubmissionPostgreSQL) ListFinishedWithResults(ctx context.Context, tx *gorm.DB, testID uint) ([]*models.Submission, error) {
	var submissions []*models.Submission
	if err := getDB(s.db, tx).WithContext(ctx).
		Where("test_id = ? AND status = ?", testID, models.SubmissionFinished).
		Order("created_at ASC, id ASC").
		Preload("Result").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (s SubmissionPostgreSQL) CountByStatus(ctx context.Context, tx *gorm.DB, testID uint) (map[models.SubmissionStatus]int64, error) {
	var rows []struct {
		Status models.SubmissionStatus
		Count  int64
	}
	if err := getDB(s.db, tx).WithContext(ctx).
		Model(&models.Submission{}).
		Select("status, COUNT(*) AS count").
		Where("test_id = ?", testID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := map[models.SubmissionStatus]int64{
		models.SubmissionInProgress: 0,
		models.SubmissionFinished:   0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func applySubmissionFilters(query *gorm.DB, filters repositories.SubmissionFilters) *gorm.DB {
	if filters.TestID != nil {
		query = query.Where("test_id = ?", *filters.TestID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if email := strings.TrimSpace(filters.Email); email != "" {
		query = query.Where("LOWER(email) = ?", strings.ToLower(email))
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}
