package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-service/internal/cache"
	"github.com/mindcanvas/mindcanvas-service/internal/events"
	"github.com/mindcanvas/mindcanvas-service/internal/models"
	"github.com/mindcanvas/mindcanvas-service/internal/repositories"
	"github.com/mindcanvas/mindcanvas-service/internal/scoring"
)

type scoringService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger
	log       *ServiceLogger
	cacheTTL  time.Duration
	now       func() time.Time
}

func NewScoringService(repo repositories.Repository, cacheService cache.CacheService, publisher events.EventPublisher, logger *slog.Logger, cacheTTL time.Duration) ScoringService {
	log := NewServiceLogger(logger, "scoring")
	return &scoringService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    log.Logger(),
		log:       log,
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

// ===== PUBLIC OPERATIONS =====

func (s *scoringService) Finish(ctx context.Context, submissionID uuid.UUID) (*ResultResponse, error) {
	op := s.log.WithOperation(ctx, "finish_submission")

	submission, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		op.LogResult("submission", submissionID.String(), err)
		return nil, err
	}

	resp, err := s.scoreAndStore(ctx, submission, false)
	op.LogResult("submission", submissionID.String(), err)
	return resp, err
}

func (s *scoringService) Rescore(ctx context.Context, submissionID uuid.UUID) (*ResultResponse, error) {
	op := s.log.WithOperation(ctx, "rescore_submission")

	submission, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		op.LogResult("submission", submissionID.String(), err)
		return nil, err
	}
	if !submission.IsFinished() {
		op.LogResult("submission", submissionID.String(), ErrSubmissionNotReady)
		return nil, ErrSubmissionNotReady
	}

	resp, err := s.scoreAndStore(ctx, submission, true)
	op.LogResult("submission", submissionID.String(), err)
	if err == nil {
		s.log.LogAudit(ctx, AuditEventRescore, "submission", submissionID.String(), map[string]interface{}{
			"profile_code": resp.PrimaryProfile,
		})
	}
	return resp, err
}

func (s *scoringService) GetResult(ctx context.Context, submissionID uuid.UUID) (*ResultResponse, error) {
	var cached ResultResponse
	if err := s.cache.Get(ctx, cache.ResultKey(submissionID), &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Result cache read failed", "submission_id", submissionID, "error", err)
	}

	submission, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.Result().GetBySubmission(ctx, nil, submissionID)
	switch {
	case err == nil:
		out, decodeErr := stored.Outcome()
		if decodeErr != nil {
			return nil, NewStorageError("decode result", decodeErr)
		}
		computedAt := stored.ComputedAt
		resp := newResultResponse(submission, out, &computedAt)
		s.cacheResult(ctx, resp)
		return resp, nil
	case repositories.IsNotFoundError(err):
		if !submission.IsFinished() {
			return nil, ErrSubmissionNotReady
		}
		// finished without a stored result: rebuild it from the answers
		s.logger.Warn("Finished submission has no stored result, recomputing", "submission_id", submissionID)
		return s.scoreAndStore(ctx, submission, false)
	default:
		return nil, NewStorageError("load result", err)
	}
}

func (s *scoringService) Preview(ctx context.Context, submissionID uuid.UUID) (*ResultResponse, error) {
	submission, err := s.loadSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	out, err := s.compute(ctx, submission)
	if err != nil {
		return nil, err
	}
	return newResultResponse(submission, out, nil), nil
}

// ===== PIPELINE =====

func (s *scoringService) loadSubmission(ctx context.Context, submissionID uuid.UUID) (*models.Submission, error) {
	submission, err := s.repo.Submission().GetByID(ctx, nil, submissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, NewStorageError("load submission", err)
	}
	return submission, nil
}

// scoreAndStore computes the outcome and persists it in one transaction. Nothing
// is written before the result upsert.
func (s *scoringService) scoreAndStore(ctx context.Context, submission *models.Submission, rescored bool) (*ResultResponse, error) {
	out, err := s.compute(ctx, submission)
	if err != nil {
		return nil, err
	}

	computedAt := s.now().UTC()
	result, err := models.NewResult(submission.ID, out, computedAt)
	if err != nil {
		return nil, NewStorageError("encode result", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.Result().Upsert(ctx, tx, result); err != nil {
			return err
		}
		if submission.IsFinished() {
			return nil
		}
		return s.repo.Submission().MarkFinished(ctx, tx, submission.ID, computedAt)
	})
	if err != nil {
		return nil, NewStorageError("save result", err)
	}

	if !submission.IsFinished() {
		submission.Status = models.SubmissionFinished
		submission.FinishedAt = &computedAt
	}

	resp := newResultResponse(submission, out, &computedAt)
	s.cacheResult(ctx, resp)
	if err := s.cache.Delete(ctx, cache.TestStatsKey(submission.TestID)); err != nil {
		s.logger.Warn("Failed to invalidate stats cache", "test_id", submission.TestID, "error", err)
	}
	s.publishResult(ctx, submission, out, computedAt, rescored)

	s.logger.Info("Submission scored",
		"submission_id", submission.ID,
		"profile_code", out.PrimaryProfile,
		"fallback", out.Fallback)

	return resp, nil
}

// compute is the read-only half of the pipeline.
func (s *scoringService) compute(ctx context.Context, submission *models.Submission) (scoring.Outcome, error) {
	questions, err := s.repo.Question().ListByTest(ctx, nil, submission.TestID)
	if err != nil {
		return scoring.Outcome{}, NewStorageError("load questions", err)
	}
	scored := make(map[uint]bool, len(questions))
	for _, q := range questions {
		scored[q.ID] = q.IsScored()
	}

	answers, err := s.repo.Answer().ListBySubmission(ctx, nil, submission.ID)
	if err != nil {
		return scoring.Outcome{}, NewStorageError("load answers", err)
	}

	selections := make([]scoring.AnswerSelection, 0, len(answers))
	for _, answer := range answers {
		if !scored[answer.QuestionID] {
			continue
		}
		optionIDs, err := answer.OptionIDs()
		if err != nil {
			s.logger.Warn("Skipping malformed answer",
				"submission_id", submission.ID,
				"question_id", answer.QuestionID,
				"error", err)
			continue
		}
		selections = append(selections, scoring.AnswerSelection{QuestionID: answer.QuestionID, OptionIDs: optionIDs})
	}

	optionIDs := scoring.CollectSelections(selections)
	options, err := s.repo.Option().GetByIDs(ctx, nil, optionIDs)
	if err != nil {
		return scoring.Outcome{}, NewStorageError("load options", err)
	}
	if len(options) != len(optionIDs) {
		s.logger.Warn("Some selected options no longer exist",
			"submission_id", submission.ID,
			"selected", len(optionIDs),
			"found", len(options))
	}

	scores := make([]scoring.OptionScore, 0, len(options))
	for _, opt := range options {
		if !scored[opt.QuestionID] {
			continue
		}
		scores = append(scores, optionScore(opt))
	}

	totals := scoring.Aggregate(scores)
	for _, issue := range totals.Issues {
		s.logger.Warn("Ignoring unknown option tag",
			"submission_id", submission.ID,
			"option_id", issue.OptionID,
			"axis", issue.Axis,
			"value", issue.Value)
	}

	return scoring.Resolve(totals), nil
}

func optionScore(opt *models.Option) scoring.OptionScore {
	score := scoring.OptionScore{ID: opt.ID, Points: opt.Points}
	if opt.ProfileCode != nil {
		score.ProfileCode = *opt.ProfileCode
	}
	if opt.FlowCode != nil {
		score.FlowCode = *opt.FlowCode
	}
	return score
}

func (s *scoringService) cacheResult(ctx context.Context, resp *ResultResponse) {
	if err := s.cache.Set(ctx, cache.ResultKey(resp.SubmissionID), resp, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache result", "submission_id", resp.SubmissionID, "error", err)
	}
}

func (s *scoringService) publishResult(ctx context.Context, submission *models.Submission, out scoring.Outcome, computedAt time.Time, rescored bool) {
	percent := make(map[string]int, len(out.FlowPercent))
	for f, v := range out.FlowPercent {
		percent[string(f)] = v
	}

	event := events.NewResultComputedEvent(events.ResultComputedEvent{
		SubmissionID: submission.ID,
		TestID:       submission.TestID,
		ProfileCode:  string(out.PrimaryProfile),
		FlowPercent:  percent,
		Fallback:     string(out.Fallback),
		Rescored:     rescored,
		ComputedAt:   computedAt,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish result event",
			"submission_id", submission.ID,
			"error", fmt.Errorf("publish %s: %w", event.Type, err))
	}
}
