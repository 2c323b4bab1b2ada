package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/art-studio-api/internal/middleware"
	"github.com/noah-isme/art-studio-api/internal/models"
	appErrors "github.com/noah-isme/art-studio-api/pkg/errors"
)

func sessionFromContext(c *gin.Context) *models.Session {
	return middleware.CurrentSession(c)
}

// invalidPayload names the field when the body decoded but a value had the
// wrong JSON type.
func invalidPayload(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return appErrors.Invalid(typeErr.Field, "invalid "+typeErr.Field+": must be a "+typeErr.Type.String())
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
}
