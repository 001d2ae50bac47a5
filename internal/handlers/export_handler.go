package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mindcanvas/mindcanvas-service/internal/services"
	"github.com/mindcanvas/mindcanvas-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	BaseHandler
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler:   NewBaseHandler(logger),
		exportService: exportService,
	}
}

// @Router /admin/tests/{id}/export.csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	testID := parseIDParam(c, "id")
	if testID == 0 {
		return
	}

	// buffered so a failure can still become a JSON error response
	var buf bytes.Buffer
	if err := h.exportService.ExportResultsCSV(c.Request.Context(), testID, &buf); err != nil {
		h.handleServiceError(c, err, "could not export results")
		return
	}

	c.Header("Content-Disposition", attachment(testID, "csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// @Router /admin/tests/{id}/export.xlsx [get]
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	testID := parseIDParam(c, "id")
	if testID == 0 {
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.ExportResultsXLSX(c.Request.Context(), testID, &buf); err != nil {
		h.handleServiceError(c, err, "could not export results")
		return
	}

	c.Header("Content-Disposition", attachment(testID, "xlsx"))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func attachment(testID uint, ext string) string {
	return fmt.Sprintf(`attachment; filename="test-%d-results-%s.%s"`, testID, time.Now().UTC().Format("20060102"), ext)
}
