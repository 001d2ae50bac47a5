package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindcanvas/mindcanvas-service/internal/models"
	"github.com/mindcanvas/mindcanvas-service/internal/services"
	"github.com/mindcanvas/mindcanvas-service/internal/utils"
)

const maxAnswerBodyBytes = 64 << 10

var errInvalidQuestionID = errors.New("question_id must be a positive integer")

// PublicHandler serves the respondent flow: load a test, start, answer, finish.
type PublicHandler struct {
	BaseHandler
	testService       services.TestService
	submissionService services.SubmissionService
	scoringService    services.ScoringService
}

func NewPublicHandler(
	testService services.TestService,
	submissionService services.SubmissionService,
	scoringService services.ScoringService,
	logger utils.Logger,
) *PublicHandler {
	return &PublicHandler{
		BaseHandler:       NewBaseHandler(logger),
		testService:       testService,
		submissionService: submissionService,
		scoringService:    scoringService,
	}
}

// GetTest returns an active test without points or tags
// @Router /tests/{id} [get]
func (h *PublicHandler) GetTest(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	test, err := h.testService.GetPublicTest(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "could not load test")
		return
	}

	c.JSON(http.StatusOK, test)
}

// StartSubmission opens a submission for the respondent
// @Router /tests/{id}/submissions [post]
func (h *PublicHandler) StartSubmission(c *gin.Context) {
	testID := parseIDParam(c, "id")
	if testID == 0 {
		return
	}

	h.LogRequest(c, "Starting submission", "test_id", testID)

	var req services.StartSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	submission, err := h.submissionService.Start(c.Request.Context(), testID, &req)
	if err != nil {
		h.handleServiceError(c, err, "could not start test")
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// RecordAnswer stores the selection for one question, replacing any earlier one.
// The selection may arrive under any of the accepted aliases.
// @Router /submissions/{id}/answers [put]
func (h *PublicHandler) RecordAnswer(c *gin.Context) {
	submissionID := parseUUIDParam(c, "id")
	if submissionID == uuid.Nil {
		return
	}

	req, err := bindAnswerRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	answer, err := h.submissionService.RecordAnswer(c.Request.Context(), submissionID, req)
	if err != nil {
		h.handleServiceError(c, err, "could not save answer")
		return
	}

	c.JSON(http.StatusOK, answer)
}

// FinishSubmission runs the scoring pipeline and returns the report
// @Router /submissions/{id}/finish [post]
func (h *PublicHandler) FinishSubmission(c *gin.Context) {
	submissionID := parseUUIDParam(c, "id")
	if submissionID == uuid.Nil {
		return
	}

	h.LogRequest(c, "Finishing submission", "submission_id", submissionID)

	result, err := h.scoringService.Finish(c.Request.Context(), submissionID)
	if err != nil {
		h.handleServiceError(c, err, "could not finish test")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetResult returns the client report of a finished submission
// @Router /submissions/{id}/result [get]
func (h *PublicHandler) GetResult(c *gin.Context) {
	submissionID := parseUUIDParam(c, "id")
	if submissionID == uuid.Nil {
		return
	}

	result, err := h.scoringService.GetResult(c.Request.Context(), submissionID)
	if err != nil {
		h.handleServiceError(c, err, "could not load result")
		return
	}

	c.JSON(http.StatusOK, result)
}

// bindAnswerRequest reads question_id plus the selection, which is normalized
// the same way stored payloads are.
func bindAnswerRequest(c *gin.Context) (*services.RecordAnswerRequest, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAnswerBodyBytes))
	if err != nil {
		return nil, err
	}

	var envelope struct {
		QuestionID json.Number `json:"question_id"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	questionID, err := envelope.QuestionID.Int64()
	if err != nil || questionID <= 0 {
		return nil, errInvalidQuestionID
	}

	optionIDs, err := models.ParseSelection(body)
	if err != nil {
		return nil, err
	}

	return &services.RecordAnswerRequest{
		QuestionID: uint(questionID),
		OptionIDs:  optionIDs,
	}, nil
}
