package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/art-studio-api/internal/service"
	"github.com/noah-isme/art-studio-api/pkg/response"
)

// ExportHandler serves downloadable timetables.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Timetable godoc
// @Summary Export group timetable
// @Tags Groups
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf" default(csv)
// @Param locale query string false "Locale for day names" default(en)
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /groups/export [get]
func (h *ExportHandler) Timetable(c *gin.Context) {
	result, err := h.service.Timetable(c.Request.Context(), sessionFromContext(c), c.Query("format"), c.Query("locale"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, result.Filename, result.ContentType, result.Payload)
}
