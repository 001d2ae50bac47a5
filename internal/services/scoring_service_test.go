package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-service/internal/cache"
	"github.com/mindcanvas/mindcanvas-service/internal/events"
	"github.com/mindcanvas/mindcanvas-service/internal/models"
	"github.com/mindcanvas/mindcanvas-service/internal/scoring"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

type scoringFixture struct {
	svc       *scoringService
	repo      *MockRepository
	publisher *events.MockEventPublisher
}

func newScoringFixture() *scoringFixture {
	repo := NewMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewScoringService(repo, cache.NewNoopCache(), publisher, testLogger(), time.Minute).(*scoringService)
	svc.now = func() time.Time { return fixedNow }
	return &scoringFixture{svc: svc, repo: repo, publisher: publisher}
}

func newSubmission(status models.SubmissionStatus) *models.Submission {
	return &models.Submission{ID: uuid.New(), TestID: 1, Status: status}
}

// stubCatalogue wires a test with one single, one multi and one info question.
func (f *scoringFixture) stubCatalogue(sub *models.Submission, answers []*models.Answer, selected []uint, options []*models.Option) {
	f.repo.submission.On("GetByID", mock.Anything, mock.Anything, sub.ID).Return(sub, nil)
	f.repo.question.On("ListByTest", mock.Anything, mock.Anything, uint(1)).Return([]*models.Question{
		{ID: 10, TestID: 1, Type: models.QuestionSingle, Scoring: true},
		{ID: 11, TestID: 1, Type: models.QuestionMulti, Scoring: true},
		{ID: 12, TestID: 1, Type: models.QuestionInfo, Scoring: false},
	}, nil)
	f.repo.answer.On("ListBySubmission", mock.Anything, mock.Anything, sub.ID).Return(answers, nil)
	f.repo.option.On("GetByIDs", mock.Anything, mock.Anything, selected).Return(options, nil)
}

func answerFor(questionID uint, payload string) *models.Answer {
	return &models.Answer{QuestionID: questionID, Payload: datatypes.JSON(payload)}
}

func TestScoringService_Finish_ProfileOnly(t *testing.T) {
	f := newScoringFixture()
	sub := newSubmission(models.SubmissionInProgress)

	f.stubCatalogue(sub,
		[]*models.Answer{
			answerFor(10, `{"option_ids":[100]}`),
			answerFor(11, `{"selected":["101"]}`),
		},
		[]uint{100, 101},
		[]*models.Option{
			{ID: 100, QuestionID: 10, Points: intPtr(2), ProfileCode: strPtr("P3")},
			{ID: 101, QuestionID: 11, ProfileCode: strPtr("p3")},
		})

	var saved *models.Result
	f.repo.On("WithTransaction", mock.Anything).Return(nil).Once()
	f.repo.result.On("Upsert", mock.Anything, mock.Anything, mock.AnythingOfType("*models.Result")).
		Run(func(args mock.Arguments) { saved = args.Get(2).(*models.Result) }).
		Return(nil).Once()
	f.repo.submission.On("MarkFinished", mock.Anything, mock.Anything, sub.ID, fixedNow).Return(nil).Once()

	resp, err := f.svc.Finish(context.Background(), sub.ID)
	require.NoError(t, err)

	assert.Equal(t, scoring.ProfileP3, resp.PrimaryProfile)
	assert.Equal(t, scoring.FlowB, resp.PrimaryFlow)
	assert.Equal(t, "Communications", resp.PrimaryFlowLabel)
	assert.Equal(t, scoring.FallbackNone, resp.Fallback)
	assert.Equal(t, 100, resp.FlowPercent[scoring.FlowB])
	assert.True(t, resp.Persisted)

	require.NotNil(t, saved)
	assert.Equal(t, sub.ID, saved.SubmissionID)
	assert.Equal(t, "P3", saved.ProfileCode)
	assert.Equal(t, 0, saved.FlowB)
	assert.Equal(t, 100, saved.FlowBPct)
	assert.Equal(t, fixedNow, saved.ComputedAt)

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventResultComputed, published[0].Type)

	f.repo.AssertAll(t)
}

func TestScoringService_Finish_SubmissionNotFound(t *testing.T) {
	f := newScoringFixture()
	id := uuid.New()
	f.repo.submission.On("GetByID", mock.Anything, mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	resp, err := f.svc.Finish(context.Background(), id)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
	assert.True(t, IsNotFound(err))
	f.repo.AssertNotCalled(t, "WithTransaction", mock.Anything)
	f.repo.result.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.GetPublishedEvents())
}

func TestScoringService_Finish_StorageFailureIsNotRetried(t *testing.T) {
	f := newScoringFixture()
	sub := newSubmission(models.SubmissionInProgress)
	f.stubCatalogue(sub, []*models.Answer{answerFor(10, `{"option_ids":[100]}`)}, []uint{100},
		[]*models.Option{{ID: 100, QuestionID: 10, FlowCode: strPtr("A")}})

	f.repo.On("WithTransaction", mock.Anything).Return(errors.New("connection reset")).Once()

	resp, err := f.svc.Finish(context.Background(), sub.ID)

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, IsStorage(err))
	assert.False(t, IsNotFound(err))
	assert.Empty(t, f.publisher.GetPublishedEvents())
	f.repo.AssertNumberOfCalls(t, "WithTransaction", 1)
}

func TestScoringService_Finish_AbsorbsMalformedAnswersAndUnknownTags(t *testing.T) {
	f := newScoringFixture()
	sub := newSubmission(models.SubmissionInProgress)
	f.stubCatalogue(sub,
		[]*models.Answer{
			answerFor(10, `{"option_ids":[100]}`),
			answerFor(11, `{"comment":"no selection here"}`),
		},
		[]uint{100},
		[]*models.Option{{ID: 100, QuestionID: 10, FlowCode: strPtr("Z"), ProfileCode: strPtr("P7")}})

	f.repo.On("WithTransaction", mock.Anything).Return(nil)
	f.repo.result.On("Upsert", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.repo.submission.On("MarkFinished", mock.Anything, mock.Anything, sub.ID, fixedNow).Return(nil)

	resp, err := f.svc.Finish(context.Background(), sub.ID)
	require.NoError(t, err)

	assert.Equal(t, scoring.ProfileP7, resp.PrimaryProfile)
	assert.Equal(t, 0, resp.FlowTotals[scoring.FlowA])
	assert.Equal(t, 100, resp.FlowPercent[scoring.FlowD])
}

func TestScoringService_Finish_IgnoresNonScoringQuestions(t *testing.T) {
	f := newScoringFixture()
	sub := newSubmission(models.SubmissionInProgress)
	f.stubCatalogue(sub,
		[]*models.Answer{answerFor(12, `{"option_ids":[120]}`)},
		[]uint{},
		[]*models.Option{})

	f.repo.On("WithTransaction", mock.Anything).Return(nil)
	f.repo.result.On("Upsert", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.repo.submission.On("MarkFinished", mock.Anything, mock.Anything, sub.ID, fixedNow).Return(nil)

	resp, err := f.svc.Finish(context.Background(), sub.ID)
	require.NoError(t, err)

	assert.Equal(t, scoring.DefaultProfile, resp.PrimaryProfile)
	assert.Equal(t, scoring.FallbackDefault, resp.Fallback)
	assert.Equal(t, 100, resp.FlowPercent[scoring.PrimaryFlow(scoring.DefaultProfile)])
}

func TestScoringService_Finish_IsIdempotent(t *testing.T) {
	f := newScoringFixture()
	sub := newSubmission(models.SubmissionFinished)
	f.stubCatalogue(sub,
		[]*models.Answer{answerFor(11, `{"option_ids":[101,102]}`)},
		[]uint{101, 102},
		[]*models.Option{
			{ID: 101, QuestionID: 11, FlowCode: strPtr("C"), Points: intPtr(3)},
			{ID: 102, QuestionID: 11, FlowCode: strPtr("Observer")},
		})

	var saved []*models.Result
	f.repo.On("WithTransaction", mock.Anything).Return(nil)
	f.repo.result.On("Upsert", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = append(saved, args.Get(2).(*models.Result)) }).
		Return(nil)

	first, err := f.svc.Finish(context.Background(), sub.ID)
	require.NoError(t, err)
	f.svc.now = func() time.Time { return fixedNow.Add(time.Minute) }
	second, err := f.svc.Finish(context.Background(), sub.ID)
	require.NoError(t, err)

	require.Len(t, saved, 2)
	assert.True(t, saved[0].SameContent(saved[1]))
	assert.Equal(t, first.FlowPercent, second.FlowPercent)
	assert.Equal(t, first.PrimaryProfile, second.PrimaryProfile)
	// already finished: the finished flag is left alone
	f.repo.submission.AssertNotCalled(t, "MarkFinished", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestScoringService_Finish_CancelledContextWritesNothing(t *testing.T) {
	f := newScoringFixture()
	sub := newSubmission(models.SubmissionInProgress)
	f.stubCatalogue(sub, []*models.Answer{}, []uint{}, []*models.Option{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Finish(ctx, sub.ID)

	assert.ErrorIs(t, err, context.Canceled)
	f.repo.AssertNotCalled(t, "WithTransaction", mock.Anything)
}

func TestScoringService_Rescore_RequiresFinishedSubmission(t *testing.T) {
	f := newScoringFixture()
	sub := newSubmission(models.SubmissionInProgress)
	f.repo.submission.On("GetByID", mock.Anything, mock.Anything, sub.ID).Return(sub, nil)

	_, err := f.svc.Rescore(context.Background(), sub.ID)

	assert.ErrorIs(t, err, ErrSubmissionNotReady)
	assert.True(t, IsConflict(err))
}

func TestScoringService_GetResult_FromStoredRow(t *testing.T) {
	f := newScoringFixture()
	sub := newSubmission(models.SubmissionFinished)
	f.repo.submission.On("GetByID", mock.Anything, mock.Anything, sub.ID).Return(sub, nil)

	stored, err := models.NewResult(sub.ID, scoring.Resolve(scoring.Aggregate([]scoring.OptionScore{
		{ID: 1, FlowCode: "A", ProfileCode: "P2"},
	})), fixedNow)
	require.NoError(t, err)
	f.repo.result.On("GetBySubmission", mock.Anything, mock.Anything, sub.ID).Return(stored, nil)

	resp, err := f.svc.GetResult(context.Background(), sub.ID)
	require.NoError(t, err)

	assert.Equal(t, scoring.ProfileP2, resp.PrimaryProfile)
	assert.Equal(t, 100, resp.FlowPercent[scoring.FlowA])
	require.NotNil(t, resp.ComputedAt)
	assert.Equal(t, fixedNow, *resp.ComputedAt)
	f.repo.AssertNotCalled(t, "WithTransaction", mock.Anything)
}

func TestScoringService_GetResult_InProgressHasNoResult(t *testing.T) {
	f := newScoringFixture()
	sub := newSubmission(models.SubmissionInProgress)
	f.repo.submission.On("GetByID", mock.Anything, mock.Anything, sub.ID).Return(sub, nil)
	f.repo.result.On("GetBySubmission", mock.Anything, mock.Anything, sub.ID).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.GetResult(context.Background(), sub.ID)

	assert.ErrorIs(t, err, ErrSubmissionNotReady)
}

func TestScoringService_GetResult_UsesCache(t *testing.T) {
	repo := NewMockRepository()
	mockCache := &MockCache{}
	svc := NewScoringService(repo, mockCache, events.NewMockEventPublisher(testLogger()), testLogger(), time.Minute)
	id := uuid.New()

	mockCache.On("Get", mock.Anything, cache.ResultKey(id), mock.AnythingOfType("*services.ResultResponse")).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*ResultResponse)
			dest.SubmissionID = id
			dest.PrimaryProfile = scoring.ProfileP6
		}).
		Return(nil)

	resp, err := svc.GetResult(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, scoring.ProfileP6, resp.PrimaryProfile)
	repo.submission.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestScoringService_Preview_DoesNotPersist(t *testing.T) {
	f := newScoringFixture()
	sub := newSubmission(models.SubmissionInProgress)
	f.stubCatalogue(sub,
		[]*models.Answer{answerFor(10, `[100]`)},
		[]uint{100},
		[]*models.Option{{ID: 100, QuestionID: 10, FlowCode: strPtr("C")}})

	resp, err := f.svc.Preview(context.Background(), sub.ID)
	require.NoError(t, err)

	assert.Equal(t, scoring.ProfileP5, resp.PrimaryProfile)
	assert.Equal(t, scoring.FallbackFlow, resp.Fallback)
	assert.False(t, resp.Persisted)
	assert.Nil(t, resp.ComputedAt)
	f.repo.AssertNotCalled(t, "WithTransaction", mock.Anything)
	assert.Empty(t, f.publisher.GetPublishedEvents())
}
