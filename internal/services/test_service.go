package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mindcanvas/mindcanvas-service/internal/cache"
	"github.com/mindcanvas/mindcanvas-service/internal/models"
	"github.com/mindcanvas/mindcanvas-service/internal/repositories"
	"github.com/mindcanvas/mindcanvas-service/internal/scoring"
	"github.com/mindcanvas/mindcanvas-service/internal/validator"
)

type testService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	validator *validator.Validator
	logger    *slog.Logger
	log       *ServiceLogger
	cacheTTL  time.Duration
}

func NewTestService(repo repositories.Repository, cacheService cache.CacheService, validator *validator.Validator, logger *slog.Logger, cacheTTL time.Duration) TestService {
	log := NewServiceLogger(logger, "test")
	return &testService{
		repo:      repo,
		cache:     cacheService,
		validator: validator,
		logger:    log.Logger(),
		log:       log,
		cacheTTL:  cacheTTL,
	}
}

// ===== TESTS =====

func (s *testService) CreateTest(ctx context.Context, req *CreateTestRequest) (*models.Test, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = trimOptional(req.Description)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	test := &models.Test{
		Title:       req.Title,
		Description: req.Description,
		Active:      true,
	}
	if req.Active != nil {
		test.Active = *req.Active
	}

	if err := s.repo.Test().Create(ctx, nil, test); err != nil {
		return nil, NewStorageError("create test", err)
	}

	s.log.LogAudit(ctx, AuditEventCreate, "test", uintToString(test.ID), map[string]interface{}{"title": test.Title})
	return test, nil
}

func (s *testService) UpdateTest(ctx context.Context, id uint, req *UpdateTestRequest) (*models.Test, error) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	test, err := s.loadTest(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		test.Title = *req.Title
	}
	if req.Description != nil {
		test.Description = trimOptional(req.Description)
	}
	if req.Active != nil {
		test.Active = *req.Active
	}

	if err := s.repo.Test().Update(ctx, nil, test); err != nil {
		return nil, NewStorageError("update test", err)
	}

	s.log.LogAudit(ctx, AuditEventUpdate, "test", uintToString(id), map[string]interface{}{"active": test.Active})
	return test, nil
}

func (s *testService) ListTests(ctx context.Context, filters repositories.TestFilters) (*TestListResponse, error) {
	tests, total, err := s.repo.Test().List(ctx, nil, filters)
	if err != nil {
		return nil, NewStorageError("list tests", err)
	}
	return &TestListResponse{Tests: tests, Total: total, Limit: filters.Limit, Offset: filters.Offset}, nil
}

func (s *testService) GetTest(ctx context.Context, id uint) (*models.Test, error) {
	test, err := s.repo.Test().GetByIDWithQuestions(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, NewStorageError("load test", err)
	}
	return test, nil
}

// GetPublicTest hides inactive tests and strips scoring data.
func (s *testService) GetPublicTest(ctx context.Context, id uint) (*PublicTest, error) {
	test, err := s.GetTest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !test.Active {
		return nil, ErrTestNotFound
	}
	return newPublicTest(test), nil
}

// ===== QUESTIONS AND OPTIONS =====

func (s *testService) AddQuestion(ctx context.Context, testID uint, req *AddQuestionRequest) (*models.Question, error) {
	req.Prompt = strings.TrimSpace(req.Prompt)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.loadTest(ctx, testID); err != nil {
		return nil, err
	}

	question := &models.Question{
		TestID:  testID,
		Prompt:  req.Prompt,
		Type:    req.Type,
		Scoring: true,
	}
	if req.Scoring != nil {
		question.Scoring = *req.Scoring
	}
	if question.Type == models.QuestionInfo {
		question.Scoring = false
	}

	if req.Order != nil {
		question.Order = *req.Order
	} else {
		next, err := s.repo.Question().NextOrder(ctx, nil, testID)
		if err != nil {
			return nil, NewStorageError("next question order", err)
		}
		question.Order = next
	}

	if err := s.repo.Question().Create(ctx, nil, question); err != nil {
		return nil, NewStorageError("create question", err)
	}
	return question, nil
}

func (s *testService) AddOption(ctx context.Context, questionID uint, req *AddOptionRequest) (*models.Option, error) {
	req.Label = strings.TrimSpace(req.Label)
	req.ProfileCode = trimOptional(req.ProfileCode)
	req.FlowCode = trimOptional(req.FlowCode)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question, err := s.loadQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Question().ValidateNewOption(question); err != nil {
		return nil, err
	}

	option := &models.Option{
		QuestionID: questionID,
		Label:      req.Label,
		Points:     req.Points,
	}
	// tags are stored in canonical form
	if req.ProfileCode != nil {
		code, _ := scoring.ParseProfileCode(*req.ProfileCode)
		value := string(code)
		option.ProfileCode = &value
	}
	if req.FlowCode != nil {
		code, _ := scoring.ParseFlowCode(*req.FlowCode)
		value := string(code)
		option.FlowCode = &value
	}

	if req.Order != nil {
		option.Order = *req.Order
	} else {
		existing, err := s.repo.Option().ListByQuestion(ctx, nil, questionID)
		if err != nil {
			return nil, NewStorageError("list options", err)
		}
		option.Order = len(existing)
	}

	if err := s.repo.Option().Create(ctx, nil, option); err != nil {
		return nil, NewStorageError("create option", err)
	}
	return option, nil
}

func (s *testService) DeleteQuestion(ctx context.Context, id uint) error {
	if _, err := s.loadQuestion(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Question().Delete(ctx, nil, id); err != nil {
		return NewStorageError("delete question", err)
	}
	s.log.LogAudit(ctx, AuditEventDelete, "question", uintToString(id), nil)
	return nil
}

func (s *testService) DeleteOption(ctx context.Context, id uint) error {
	if _, err := s.repo.Option().GetByID(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrOptionNotFound
		}
		return NewStorageError("load option", err)
	}
	if err := s.repo.Option().Delete(ctx, nil, id); err != nil {
		return NewStorageError("delete option", err)
	}
	s.log.LogAudit(ctx, AuditEventDelete, "option", uintToString(id), nil)
	return nil
}

// ===== DASHBOARD =====

func (s *testService) GetTestStats(ctx context.Context, testID uint) (*TestStats, error) {
	key := cache.TestStatsKey(testID)

	var cached TestStats
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Stats cache read failed", "test_id", testID, "error", err)
	}

	if _, err := s.loadTest(ctx, testID); err != nil {
		return nil, err
	}

	counts, err := s.repo.Submission().CountByStatus(ctx, nil, testID)
	if err != nil {
		return nil, NewStorageError("count submissions", err)
	}
	distribution, err := s.repo.Result().ProfileDistribution(ctx, nil, testID)
	if err != nil {
		return nil, NewStorageError("profile distribution", err)
	}
	averages, err := s.repo.Result().AverageFlows(ctx, nil, testID)
	if err != nil {
		return nil, NewStorageError("average flows", err)
	}

	stats := &TestStats{
		TestID:              testID,
		Submissions:         counts,
		ScoredResults:       averages.Count,
		ProfileDistribution: distribution,
		AverageFlowPercent: map[scoring.FlowCode]float64{
			scoring.FlowA: averages.FlowA,
			scoring.FlowB: averages.FlowB,
			scoring.FlowC: averages.FlowC,
			scoring.FlowD: averages.FlowD,
		},
	}
	for _, n := range counts {
		stats.TotalSubmissions += n
	}

	if err := s.cache.Set(ctx, key, stats, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache stats", "test_id", testID, "error", err)
	}
	return stats, nil
}

// ===== HELPERS =====

func (s *testService) loadTest(ctx context.Context, id uint) (*models.Test, error) {
	test, err := s.repo.Test().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, NewStorageError("load test", err)
	}
	return test, nil
}

func (s *testService) loadQuestion(ctx context.Context, id uint) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, NewStorageError("load question", err)
	}
	return question, nil
}
