package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-service/internal/models"
	"github.com/mindcanvas/mindcanvas-service/internal/repositories"
)

// MockRepository is a mock implementation of repositories.Repository
type MockRepository struct {
	mock.Mock
	test       *MockTestRepository
	question   *MockQuestionRepository
	option     *MockOptionRepository
	person     *MockPersonRepository
	submission *MockSubmissionRepository
	answer     *MockAnswerRepository
	result     *MockResultRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		test:       &MockTestRepository{},
		question:   &MockQuestionRepository{},
		option:     &MockOptionRepository{},
		person:     &MockPersonRepository{},
		submission: &MockSubmissionRepository{},
		answer:     &MockAnswerRepository{},
		result:     &MockResultRepository{},
	}
}

func (m *MockRepository) Test() repositories.TestRepository             { return m.test }
func (m *MockRepository) Question() repositories.QuestionRepository     { return m.question }
func (m *MockRepository) Option() repositories.OptionRepository         { return m.option }
func (m *MockRepository) Person() repositories.PersonRepository         { return m.person }
func (m *MockRepository) Submission() repositories.SubmissionRepository { return m.submission }
func (m *MockRepository) Answer() repositories.AnswerRepository         { return m.answer }
func (m *MockRepository) Result() repositories.ResultRepository         { return m.result }

// WithTransaction runs fn with a nil tx unless an error is configured
func (m *MockRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(nil)
}

func (m *MockRepository) AssertAll(t mock.TestingT) {
	m.AssertExpectations(t)
	m.test.AssertExpectations(t)
	m.question.AssertExpectations(t)
	m.option.AssertExpectations(t)
	m.person.AssertExpectations(t)
	m.submission.AssertExpectations(t)
	m.answer.AssertExpectations(t)
	m.result.AssertExpectations(t)
}

// MockTestRepository is a mock implementation of TestRepository
type MockTestRepository struct {
	mock.Mock
}

func (m *MockTestRepository) Create(ctx context.Context, tx *gorm.DB, test *models.Test) error {
	args := m.Called(ctx, tx, test)
	return args.Error(0)
}

func (m *MockTestRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error) {
	args := m.Called(ctx, tx, id)
	test, _ := args.Get(0).(*models.Test)
	return test, args.Error(1)
}

func (m *MockTestRepository) GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error) {
	args := m.Called(ctx, tx, id)
	test, _ := args.Get(0).(*models.Test)
	return test, args.Error(1)
}

func (m *MockTestRepository) Update(ctx context.Context, tx *gorm.DB, test *models.Test) error {
	args := m.Called(ctx, tx, test)
	return args.Error(0)
}

func (m *MockTestRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.TestFilters) ([]*models.Test, int64, error) {
	args := m.Called(ctx, tx, filters)
	tests, _ := args.Get(0).([]*models.Test)
	return tests, args.Get(1).(int64), args.Error(2)
}

// MockQuestionRepository is a mock implementation of QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	args := m.Called(ctx, tx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
	args := m.Called(ctx, tx, id)
	question, _ := args.Get(0).(*models.Question)
	return question, args.Error(1)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) ListByTest(ctx context.Context, tx *gorm.DB, testID uint) ([]*models.Question, error) {
	args := m.Called(ctx, tx, testID)
	questions, _ := args.Get(0).([]*models.Question)
	return questions, args.Error(1)
}

func (m *MockQuestionRepository) NextOrder(ctx context.Context, tx *gorm.DB, testID uint) (int, error) {
	args := m.Called(ctx, tx, testID)
	return args.Int(0), args.Error(1)
}

// MockOptionRepository is a mock implementation of OptionRepository
type MockOptionRepository struct {
	mock.Mock
}

func (m *MockOptionRepository) Create(ctx context.Context, tx *gorm.DB, option *models.Option) error {
	args := m.Called(ctx, tx, option)
	return args.Error(0)
}

func (m *MockOptionRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Option, error) {
	args := m.Called(ctx, tx, id)
	option, _ := args.Get(0).(*models.Option)
	return option, args.Error(1)
}

func (m *MockOptionRepository) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Option, error) {
	args := m.Called(ctx, tx, ids)
	options, _ := args.Get(0).([]*models.Option)
	return options, args.Error(1)
}

func (m *MockOptionRepository) ListByQuestion(ctx context.Context, tx *gorm.DB, questionID uint) ([]*models.Option, error) {
	args := m.Called(ctx, tx, questionID)
	options, _ := args.Get(0).([]*models.Option)
	return options, args.Error(1)
}

func (m *MockOptionRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

// MockPersonRepository is a mock implementation of PersonRepository
type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) UpsertByEmail(ctx context.Context, tx *gorm.DB, person *models.Person) error {
	args := m.Called(ctx, tx, person)
	return args.Error(0)
}

func (m *MockPersonRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Person, error) {
	args := m.Called(ctx, tx, email)
	person, _ := args.Get(0).(*models.Person)
	return person, args.Error(1)
}

// MockSubmissionRepository is a mock implementation of SubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	args := m.Called(ctx, tx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Submission, error) {
	args := m.Called(ctx, tx, id)
	submission, _ := args.Get(0).(*models.Submission)
	return submission, args.Error(1)
}

func (m *MockSubmissionRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	args := m.Called(ctx, tx, filters)
	submissions, _ := args.Get(0).([]*models.Submission)
	return submissions, args.Get(1).(int64), args.Error(2)
}

func (m *MockSubmissionRepository) MarkFinished(ctx context.Context, tx *gorm.DB, id uuid.UUID, finishedAt time.Time) error {
	args := m.Called(ctx, tx, id, finishedAt)
	return args.Error(0)
}

func (m *MockSubmissionRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockSubmissionRepository) ListFinishedWithResults(ctx context.Context, tx *gorm.DB, testID uint) ([]*models.Submission, error) {
	args := m.Called(ctx, tx, testID)
	submissions, _ := args.Get(0).([]*models.Submission)
	return submissions, args.Error(1)
}

func (m *MockSubmissionRepository) CountByStatus(ctx context.Context, tx *gorm.DB, testID uint) (map[models.SubmissionStatus]int64, error) {
	args := m.Called(ctx, tx, testID)
	counts, _ := args.Get(0).(map[models.SubmissionStatus]int64)
	return counts, args.Error(1)
}

// MockAnswerRepository is a mock implementation of AnswerRepository
type MockAnswerRepository struct {
	mock.Mock
}

func (m *MockAnswerRepository) Upsert(ctx context.Context, tx *gorm.DB, answer *models.Answer) error {
	args := m.Called(ctx, tx, answer)
	return args.Error(0)
}

func (m *MockAnswerRepository) ListBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) ([]*models.Answer, error) {
	args := m.Called(ctx, tx, submissionID)
	answers, _ := args.Get(0).([]*models.Answer)
	return answers, args.Error(1)
}

func (m *MockAnswerRepository) DeleteBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) error {
	args := m.Called(ctx, tx, submissionID)
	return args.Error(0)
}

// MockResultRepository is a mock implementation of ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Upsert(ctx context.Context, tx *gorm.DB, result *models.Result) error {
	args := m.Called(ctx, tx, result)
	return args.Error(0)
}

func (m *MockResultRepository) GetBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) (*models.Result, error) {
	args := m.Called(ctx, tx, submissionID)
	result, _ := args.Get(0).(*models.Result)
	return result, args.Error(1)
}

func (m *MockResultRepository) DeleteBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) error {
	args := m.Called(ctx, tx, submissionID)
	return args.Error(0)
}

func (m *MockResultRepository) ProfileDistribution(ctx context.Context, tx *gorm.DB, testID uint) (map[string]int64, error) {
	args := m.Called(ctx, tx, testID)
	distribution, _ := args.Get(0).(map[string]int64)
	return distribution, args.Error(1)
}

func (m *MockResultRepository) AverageFlows(ctx context.Context, tx *gorm.DB, testID uint) (*repositories.FlowAverages, error) {
	args := m.Called(ctx, tx, testID)
	averages, _ := args.Get(0).(*repositories.FlowAverages)
	return averages, args.Error(1)
}

// MockCache is a mock implementation of cache.CacheService
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) DeletePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}
