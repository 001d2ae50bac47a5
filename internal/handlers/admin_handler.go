package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindcanvas/mindcanvas-service/internal/middleware"
	"github.com/mindcanvas/mindcanvas-service/internal/repositories"
	"github.com/mindcanvas/mindcanvas-service/internal/services"
	"github.com/mindcanvas/mindcanvas-service/internal/utils"
)

type LoginRequest struct {
	Secret string `json:"secret" binding:"required"`
}

// AdminHandler covers the admin session and the test catalogue.
type AdminHandler struct {
	BaseHandler
	session     *middleware.AdminSession
	testService services.TestService
}

func NewAdminHandler(
	session *middleware.AdminSession,
	testService services.TestService,
	logger utils.Logger,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler: NewBaseHandler(logger),
		session:     session,
		testService: testService,
	}
}

// ===== SESSION =====

// Login exchanges the shared admin secret for a session cookie
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	token, err := h.session.Login(req.Secret)
	if err != nil {
		h.RespondWithError(c, http.StatusUnauthorized, "Invalid admin secret", nil)
		return
	}

	h.session.SetCookie(c, token)
	h.LogRequest(c, "Admin logged in")
	h.RespondWithSuccess(c, http.StatusOK, "Logged in", nil)
}

// @Router /admin/logout [post]
func (h *AdminHandler) Logout(c *gin.Context) {
	h.session.ClearCookie(c)
	h.RespondWithSuccess(c, http.StatusOK, "Logged out", nil)
}

// ===== TESTS =====

// @Router /admin/tests [post]
func (h *AdminHandler) CreateTest(c *gin.Context) {
	var req services.CreateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	test, err := h.testService.CreateTest(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "could not create test")
		return
	}

	c.JSON(http.StatusCreated, test)
}

// @Router /admin/tests [get]
func (h *AdminHandler) ListTests(c *gin.Context) {
	filters := repositories.TestFilters{
		Active:    queryBool(c, "active"),
		Limit:     queryInt(c, "limit", 0),
		Offset:    queryInt(c, "offset", 0),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	tests, err := h.testService.ListTests(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err, "could not list tests")
		return
	}

	c.JSON(http.StatusOK, tests)
}

// GetTest returns the full test including points and tags
// @Router /admin/tests/{id} [get]
func (h *AdminHandler) GetTest(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	test, err := h.testService.GetTest(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "could not load test")
		return
	}

	c.JSON(http.StatusOK, test)
}

// @Router /admin/tests/{id} [put]
func (h *AdminHandler) UpdateTest(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	test, err := h.testService.UpdateTest(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err, "could not update test")
		return
	}

	c.JSON(http.StatusOK, test)
}

// @Router /admin/tests/{id}/stats [get]
func (h *AdminHandler) GetTestStats(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	stats, err := h.testService.GetTestStats(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "could not load stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ===== QUESTIONS AND OPTIONS =====

// @Router /admin/tests/{id}/questions [post]
func (h *AdminHandler) AddQuestion(c *gin.Context) {
	testID := parseIDParam(c, "id")
	if testID == 0 {
		return
	}

	var req services.AddQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	question, err := h.testService.AddQuestion(c.Request.Context(), testID, &req)
	if err != nil {
		h.handleServiceError(c, err, "could not add question")
		return
	}

	c.JSON(http.StatusCreated, question)
}

// @Router /admin/questions/{id} [delete]
func (h *AdminHandler) DeleteQuestion(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.testService.DeleteQuestion(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, "could not delete question")
		return
	}

	c.Status(http.StatusNoContent)
}

// @Router /admin/questions/{id}/options [post]
func (h *AdminHandler) AddOption(c *gin.Context) {
	questionID := parseIDParam(c, "id")
	if questionID == 0 {
		return
	}

	var req services.AddOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	option, err := h.testService.AddOption(c.Request.Context(), questionID, &req)
	if err != nil {
		h.handleServiceError(c, err, "could not add option")
		return
	}

	c.JSON(http.StatusCreated, option)
}

// @Router /admin/options/{id} [delete]
func (h *AdminHandler) DeleteOption(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.testService.DeleteOption(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, "could not delete option")
		return
	}

	c.Status(http.StatusNoContent)
}
