package handlers

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mindcanvas/mindcanvas-service/internal/models"
	"github.com/mindcanvas/mindcanvas-service/internal/repositories"
	"github.com/mindcanvas/mindcanvas-service/internal/services"
)

type mockServiceManager struct {
	scoring    *MockScoringService
	submission *MockSubmissionService
	test       *MockTestService
	export     *MockExportService
}

func newMockServiceManager() *mockServiceManager {
	return &mockServiceManager{
		scoring:    &MockScoringService{},
		submission: &MockSubmissionService{},
		test:       &MockTestService{},
		export:     &MockExportService{},
	}
}

func (m *mockServiceManager) Scoring() services.ScoringService       { return m.scoring }
func (m *mockServiceManager) Submission() services.SubmissionService { return m.submission }
func (m *mockServiceManager) Test() services.TestService             { return m.test }
func (m *mockServiceManager) Export() services.ExportService         { return m.export }

type MockScoringService struct {
	mock.Mock
}

func (m *MockScoringService) Finish(ctx context.Context, submissionID uuid.UUID) (*services.ResultResponse, error) {
	args := m.Called(ctx, submissionID)
	result, _ := args.Get(0).(*services.ResultResponse)
	return result, args.Error(1)
}

func (m *MockScoringService) Rescore(ctx context.Context, submissionID uuid.UUID) (*services.ResultResponse, error) {
	args := m.Called(ctx, submissionID)
	result, _ := args.Get(0).(*services.ResultResponse)
	return result, args.Error(1)
}

func (m *MockScoringService) GetResult(ctx context.Context, submissionID uuid.UUID) (*services.ResultResponse, error) {
	args := m.Called(ctx, submissionID)
	result, _ := args.Get(0).(*services.ResultResponse)
	return result, args.Error(1)
}

func (m *MockScoringService) Preview(ctx context.Context, submissionID uuid.UUID) (*services.ResultResponse, error) {
	args := m.Called(ctx, submissionID)
	result, _ := args.Get(0).(*services.ResultResponse)
	return result, args.Error(1)
}

type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Start(ctx context.Context, testID uint, req *services.StartSubmissionRequest) (*models.Submission, error) {
	args := m.Called(ctx, testID, req)
	submission, _ := args.Get(0).(*models.Submission)
	return submission, args.Error(1)
}

func (m *MockSubmissionService) RecordAnswer(ctx context.Context, submissionID uuid.UUID, req *services.RecordAnswerRequest) (*models.Answer, error) {
	args := m.Called(ctx, submissionID, req)
	answer, _ := args.Get(0).(*models.Answer)
	return answer, args.Error(1)
}

func (m *MockSubmissionService) Get(ctx context.Context, submissionID uuid.UUID) (*models.Submission, error) {
	args := m.Called(ctx, submissionID)
	submission, _ := args.Get(0).(*models.Submission)
	return submission, args.Error(1)
}

func (m *MockSubmissionService) List(ctx context.Context, filters repositories.SubmissionFilters) (*services.SubmissionListResponse, error) {
	args := m.Called(ctx, filters)
	list, _ := args.Get(0).(*services.SubmissionListResponse)
	return list, args.Error(1)
}

func (m *MockSubmissionService) Delete(ctx context.Context, submissionID uuid.UUID) error {
	args := m.Called(ctx, submissionID)
	return args.Error(0)
}

type MockTestService struct {
	mock.Mock
}

func (m *MockTestService) CreateTest(ctx context.Context, req *services.CreateTestRequest) (*models.Test, error) {
	args := m.Called(ctx, req)
	test, _ := args.Get(0).(*models.Test)
	return test, args.Error(1)
}

func (m *MockTestService) UpdateTest(ctx context.Context, id uint, req *services.UpdateTestRequest) (*models.Test, error) {
	args := m.Called(ctx, id, req)
	test, _ := args.Get(0).(*models.Test)
	return test, args.Error(1)
}

func (m *MockTestService) ListTests(ctx context.Context, filters repositories.TestFilters) (*services.TestListResponse, error) {
	args := m.Called(ctx, filters)
	list, _ := args.Get(0).(*services.TestListResponse)
	return list, args.Error(1)
}

func (m *MockTestService) GetTest(ctx context.Context, id uint) (*models.Test, error) {
	args := m.Called(ctx, id)
	test, _ := args.Get(0).(*models.Test)
	return test, args.Error(1)
}

func (m *MockTestService) GetPublicTest(ctx context.Context, id uint) (*services.PublicTest, error) {
	args := m.Called(ctx, id)
	test, _ := args.Get(0).(*services.PublicTest)
	return test, args.Error(1)
}

func (m *MockTestService) AddQuestion(ctx context.Context, testID uint, req *services.AddQuestionRequest) (*models.Question, error) {
	args := m.Called(ctx, testID, req)
	question, _ := args.Get(0).(*models.Question)
	return question, args.Error(1)
}

func (m *MockTestService) AddOption(ctx context.Context, questionID uint, req *services.AddOptionRequest) (*models.Option, error) {
	args := m.Called(ctx, questionID, req)
	option, _ := args.Get(0).(*models.Option)
	return option, args.Error(1)
}

func (m *MockTestService) DeleteQuestion(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTestService) DeleteOption(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTestService) GetTestStats(ctx context.Context, testID uint) (*services.TestStats, error) {
	args := m.Called(ctx, testID)
	stats, _ := args.Get(0).(*services.TestStats)
	return stats, args.Error(1)
}

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportResultsCSV(ctx context.Context, testID uint, w io.Writer) error {
	args := m.Called(ctx, testID, w)
	if content, ok := args.Get(1).(string); ok {
		_, _ = io.WriteString(w, content)
	}
	return args.Error(0)
}

func (m *MockExportService) ExportResultsXLSX(ctx context.Context, testID uint, w io.Writer) error {
	args := m.Called(ctx, testID, w)
	if content, ok := args.Get(1).(string); ok {
		_, _ = io.WriteString(w, content)
	}
	return args.Error(0)
}
