package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-service/internal/cache"
	"github.com/mindcanvas/mindcanvas-service/internal/events"
	"github.com/mindcanvas/mindcanvas-service/internal/models"
	"github.com/mindcanvas/mindcanvas-service/internal/repositories"
	"github.com/mindcanvas/mindcanvas-service/internal/validator"
)

type submissionService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
	log       *ServiceLogger
}

func NewSubmissionService(repo repositories.Repository, cacheService cache.CacheService, publisher events.EventPublisher, validator *validator.Validator, logger *slog.Logger) SubmissionService {
	log := NewServiceLogger(logger, "submission")
	return &submissionService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		validator: validator,
		logger:    log.Logger(),
		log:       log,
	}
}

func (s *submissionService) Start(ctx context.Context, testID uint, req *StartSubmissionRequest) (*models.Submission, error) {
	op := s.log.WithOperation(ctx, "start_submission")

	submission, err := s.start(ctx, testID, req)
	if err != nil {
		op.LogResult("test", uintToString(testID), err)
		return nil, err
	}
	op.LogResult("submission", submission.ID.String(), nil)
	return submission, nil
}

func (s *submissionService) start(ctx context.Context, testID uint, req *StartSubmissionRequest) (*models.Submission, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	test, err := s.repo.Test().GetByID(ctx, nil, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, NewStorageError("load test", err)
	}
	if !test.Active {
		return nil, ErrTestInactive
	}

	submission := &models.Submission{
		TestID: testID,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Status: models.SubmissionInProgress,
	}

	if req.Email != "" {
		person := &models.Person{Name: req.Name, Email: req.Email, Phone: req.Phone}
		if err := s.repo.Person().UpsertByEmail(ctx, nil, person); err != nil {
			// the directory entry is a convenience; the submission still starts
			s.logger.Warn("Failed to upsert person", "email", req.Email, "error", err)
		} else {
			submission.PersonID = &person.ID
		}
	}

	if err := s.repo.Submission().Create(ctx, nil, submission); err != nil {
		return nil, NewStorageError("create submission", err)
	}

	if err := s.cache.Delete(ctx, cache.TestStatsKey(testID)); err != nil {
		s.logger.Warn("Failed to invalidate test stats", "test_id", testID, "error", err)
	}

	event := events.NewSubmissionStartedEvent(events.SubmissionStartedEvent{
		SubmissionID: submission.ID,
		TestID:       testID,
		Email:        submission.Email,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish submission event", "submission_id", submission.ID, "error", err)
	}

	return submission, nil
}

func (s *submissionService) RecordAnswer(ctx context.Context, submissionID uuid.UUID, req *RecordAnswerRequest) (*models.Answer, error) {
	op := s.log.WithOperation(ctx, "record_answer")
	answer, err := s.recordAnswer(ctx, submissionID, req)
	op.LogResult("submission", submissionID.String(), err)
	return answer, err
}

func (s *submissionService) recordAnswer(ctx context.Context, submissionID uuid.UUID, req *RecordAnswerRequest) (*models.Answer, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	submission, err := s.Get(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.IsFinished() {
		return nil, ErrSubmissionFinished
	}

	question, err := s.repo.Question().GetByID(ctx, nil, req.QuestionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, NewStorageError("load question", err)
	}
	if question.TestID != submission.TestID {
		return nil, ValidationErrors{*NewValidationError("question_id", "question does not belong to this test", req.QuestionID)}
	}

	options, err := s.repo.Option().ListByQuestion(ctx, nil, question.ID)
	if err != nil {
		return nil, NewStorageError("load options", err)
	}
	question.Options = make([]models.Option, 0, len(options))
	for _, opt := range options {
		question.Options = append(question.Options, *opt)
	}

	if err := s.validator.Question().ValidateSelection(question, req.OptionIDs); err != nil {
		return nil, err
	}

	payload, err := models.NewSelectionPayload(req.OptionIDs)
	if err != nil {
		return nil, err
	}

	answer := &models.Answer{
		SubmissionID: submissionID,
		QuestionID:   question.ID,
		Payload:      payload,
	}
	if err := s.repo.Answer().Upsert(ctx, nil, answer); err != nil {
		return nil, NewStorageError("save answer", err)
	}
	return answer, nil
}

func (s *submissionService) Get(ctx context.Context, submissionID uuid.UUID) (*models.Submission, error) {
	submission, err := s.repo.Submission().GetByID(ctx, nil, submissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, NewStorageError("load submission", err)
	}
	return submission, nil
}

func (s *submissionService) List(ctx context.Context, filters repositories.SubmissionFilters) (*SubmissionListResponse, error) {
	submissions, total, err := s.repo.Submission().List(ctx, nil, filters)
	if err != nil {
		return nil, NewStorageError("list submissions", err)
	}
	return &SubmissionListResponse{
		Submissions: submissions,
		Total:       total,
		Limit:       filters.Limit,
		Offset:      filters.Offset,
	}, nil
}

func (s *submissionService) Delete(ctx context.Context, submissionID uuid.UUID) error {
	submission, err := s.Get(ctx, submissionID)
	if err != nil {
		return err
	}

	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Answer().DeleteBySubmission(ctx, tx, submissionID); err != nil {
			return err
		}
		if err := s.repo.Result().DeleteBySubmission(ctx, tx, submissionID); err != nil {
			return err
		}
		return s.repo.Submission().Delete(ctx, tx, submissionID)
	})
	if err != nil {
		return NewStorageError("delete submission", err)
	}

	for _, key := range []string{cache.ResultKey(submissionID), cache.TestStatsKey(submission.TestID)} {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to invalidate cache", "key", key, "error", err)
		}
	}

	s.log.LogAudit(ctx, AuditEventDelete, "submission", submissionID.String(), map[string]interface{}{
		"test_id": submission.TestID,
	})
	return nil
}
