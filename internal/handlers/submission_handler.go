package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindcanvas/mindcanvas-service/internal/models"
	"github.com/mindcanvas/mindcanvas-service/internal/repositories"
	"github.com/mindcanvas/mindcanvas-service/internal/services"
	"github.com/mindcanvas/mindcanvas-service/internal/utils"
)

// SubmissionHandler is the admin view over submissions and their results.
type SubmissionHandler struct {
	BaseHandler
	submissionService services.SubmissionService
	scoringService    services.ScoringService
}

func NewSubmissionHandler(
	submissionService services.SubmissionService,
	scoringService services.ScoringService,
	logger utils.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
		scoringService:    scoringService,
	}
}

// ListSubmissions supports test_id, status, email, date_from, date_to and paging
// @Router /admin/submissions [get]
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	filters := repositories.SubmissionFilters{
		TestID:    queryUint(c, "test_id"),
		Email:     c.Query("email"),
		DateFrom:  queryTime(c, "date_from"),
		DateTo:    queryTime(c, "date_to"),
		Limit:     queryInt(c, "limit", 0),
		Offset:    queryInt(c, "offset", 0),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	switch status := models.SubmissionStatus(c.Query("status")); status {
	case models.SubmissionInProgress, models.SubmissionFinished:
		filters.Status = &status
	case "":
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid status",
			Details: "status must be in_progress or finished",
		})
		return
	}

	submissions, err := h.submissionService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err, "could not list submissions")
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// @Router /admin/submissions/{id} [get]
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	id := parseUUIDParam(c, "id")
	if id == uuid.Nil {
		return
	}

	submission, err := h.submissionService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "could not load submission")
		return
	}

	c.JSON(http.StatusOK, submission)
}

// @Router /admin/submissions/{id}/result [get]
func (h *SubmissionHandler) GetResult(c *gin.Context) {
	id := parseUUIDParam(c, "id")
	if id == uuid.Nil {
		return
	}

	result, err := h.scoringService.GetResult(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "could not load result")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Rescore recomputes the stored result from the current answers and catalogue
// @Router /admin/submissions/{id}/rescore [post]
func (h *SubmissionHandler) Rescore(c *gin.Context) {
	id := parseUUIDParam(c, "id")
	if id == uuid.Nil {
		return
	}

	h.LogRequest(c, "Rescoring submission", "submission_id", id)

	result, err := h.scoringService.Rescore(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "could not rescore submission")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Preview scores the current answers without storing anything
// @Router /admin/submissions/{id}/preview [get]
func (h *SubmissionHandler) Preview(c *gin.Context) {
	id := parseUUIDParam(c, "id")
	if id == uuid.Nil {
		return
	}

	result, err := h.scoringService.Preview(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "could not load result")
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Router /admin/submissions/{id} [delete]
func (h *SubmissionHandler) DeleteSubmission(c *gin.Context) {
	id := parseUUIDParam(c, "id")
	if id == uuid.Nil {
		return
	}

	if err := h.submissionService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, "could not delete submission")
		return
	}

	c.Status(http.StatusNoContent)
}
