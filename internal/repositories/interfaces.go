package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-service/internal/models"
)

// Repository groups the per-table repositories behind one handle. Every method
// accepts an optional tx; nil means the default connection.
type Repository interface {
	Test() TestRepository
	Question() QuestionRepository
	Option() OptionRepository
	Person() PersonRepository
	Submission() SubmissionRepository
	Answer() AnswerRepository
	Result() ResultRepository

	// WithTransaction runs fn inside a database transaction.
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// TestRepository interface for test catalogue operations
type TestRepository interface {
	Create(ctx context.Context, tx *gorm.DB, test *models.Test) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error)
	GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error) // questions and options, display order
	Update(ctx context.Context, tx *gorm.DB, test *models.Test) error
	List(ctx context.Context, tx *gorm.DB, filters TestFilters) ([]*models.Test, int64, error)
}

// QuestionRepository interface for question operations
type QuestionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, question *models.Question) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	ListByTest(ctx context.Context, tx *gorm.DB, testID uint) ([]*models.Question, error)
	NextOrder(ctx context.Context, tx *gorm.DB, testID uint) (int, error)
}

// OptionRepository interface for option operations
type OptionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, option *models.Option) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Option, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Option, error)
	ListByQuestion(ctx context.Context, tx *gorm.DB, questionID uint) ([]*models.Option, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

// PersonRepository interface for the respondent directory
type PersonRepository interface {
	UpsertByEmail(ctx context.Context, tx *gorm.DB, person *models.Person) error
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Person, error)
}

// SubmissionRepository interface for submission operations
type SubmissionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Submission, error)
	List(ctx context.Context, tx *gorm.DB, filters SubmissionFilters) ([]*models.Submission, int64, error)
	MarkFinished(ctx context.Context, tx *gorm.DB, id uuid.UUID, finishedAt time.Time) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	// Reporting
	ListFinishedWithResults(ctx context.Context, tx *gorm.DB, testID uint) ([]*models.Submission, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, testID uint) (map[models.SubmissionStatus]int64, error)
}

// AnswerRepository interface for recorded answers
type AnswerRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, answer *models.Answer) error // last write wins per (submission, question)
	ListBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) ([]*models.Answer, error)
	DeleteBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) error
}

// ResultRepository interface for computed results
type ResultRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, result *models.Result) error // replace keyed by submission id
	GetBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) (*models.Result, error)
	DeleteBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) error

	// Reporting
	ProfileDistribution(ctx context.Context, tx *gorm.DB, testID uint) (map[string]int64, error)
	AverageFlows(ctx context.Context, tx *gorm.DB, testID uint) (*FlowAverages, error)
}

// ===== SHARED FILTER STRUCTS =====

type TestFilters struct {
	Active    *bool  `json:"active"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "created_at", "title"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

type SubmissionFilters struct {
	TestID    *uint                    `json:"test_id"`
	Status    *models.SubmissionStatus `json:"status"`
	Email     string                   `json:"email"`
	DateFrom  *time.Time               `json:"date_from"`
	DateTo    *time.Time               `json:"date_to"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
	SortBy    string                   `json:"sort_by"`    // "created_at", "finished_at", "email"
	SortOrder string                   `json:"sort_order"` // "asc", "desc"
}

// ===== SHARED STATISTICS STRUCTS =====

type FlowAverages struct {
	Count int64   `json:"count"`
	FlowA float64 `json:"flow_a"`
	FlowB float64 `json:"flow_b"`
	FlowC float64 `json:"flow_c"`
	FlowD float64 `json:"flow_d"`
}
