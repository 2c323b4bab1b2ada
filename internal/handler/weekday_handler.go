package handler

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/art-studio-api/pkg/errors"
	"github.com/noah-isme/art-studio-api/pkg/i18n"
	"github.com/noah-isme/art-studio-api/pkg/response"
)

// WeekdayResponse lists the weekday options for a form select.
type WeekdayResponse struct {
	Locale  string        `json:"locale"`
	Options []i18n.Option `json:"options"`
}

// WeekdayHandler serves localized weekday labels for the admin UI.
type WeekdayHandler struct{}

// NewWeekdayHandler constructs a weekday handler.
func NewWeekdayHandler() *WeekdayHandler {
	return &WeekdayHandler{}
}

// List godoc
// @Summary List weekday options
// @Description Canonical weekday values with labels in the requested locale
// @Tags Groups
// @Produce json
// @Param locale query string false "Locale" default(en)
// @Success 200 {object} handler.WeekdayResponse
// @Failure 400 {object} response.ErrorBody
// @Router /weekdays [get]
func (h *WeekdayHandler) List(c *gin.Context) {
	days, err := i18n.NewWeekdays(c.Query("locale"))
	if err != nil {
		response.Error(c, appErrors.Invalid("locale", fmt.Sprintf("locale must be one of %s", strings.Join(i18n.Supported(), ", "))))
		return
	}
	response.OK(c, WeekdayResponse{Locale: days.Locale(), Options: days.Options()})
}
