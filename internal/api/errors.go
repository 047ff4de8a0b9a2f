package api

import (
	"alcyxob/fitness-admin/internal/lock"
	"alcyxob/fitness-admin/internal/service"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errInvalidForm = errors.New("invalid form submission")

// bindForm binds the posted form into obj. Whatever did bind stays in obj so the
// page can be shown again with the submitted values.
func bindForm(c *gin.Context, obj any) error {
	err := c.ShouldBind(obj)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", errInvalidForm, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		if fe.Tag() == "required" {
			msgs = append(msgs, field+" is required")
		} else {
			msgs = append(msgs, field+" is invalid")
		}
	}
	return fmt.Errorf("%w: %s", errInvalidForm, strings.Join(msgs, ", "))
}

var notFoundErrors = []error{
	service.ErrCategoryNotFound,
	service.ErrExerciseNotFound,
	service.ErrWorkoutNotFound,
	service.ErrWorkoutExerciseNotFound,
	service.ErrVideoNotFound,
	service.ErrProfileNotFound,
}

func isNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// mutationStatus maps a failed create, update or delete to the status of the re-rendered page.
// The message itself is shown verbatim next to the form.
func mutationStatus(c *gin.Context, err error) int {
	switch {
	case errors.Is(err, errInvalidForm):
		return http.StatusBadRequest
	case errors.Is(err, lock.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, service.ErrValidationFailed):
		return http.StatusUnprocessableEntity
	case isNotFound(err):
		return http.StatusNotFound
	default:
		slog.ErrorContext(c.Request.Context(), "mutation failed", "path", c.Request.URL.Path, "error", err)
		return http.StatusUnprocessableEntity
	}
}

// listFailed logs a fetch error; the page still renders with an empty table.
func listFailed(c *gin.Context, what string, err error) string {
	slog.ErrorContext(c.Request.Context(), "list fetch failed", "resource", what, "error", err)
	return "Could not load " + what + ". Please reload the page."
}

// objectIDParam parses the named path parameter. Malformed ids are reported as not found.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		notFound(c)
		return primitive.NilObjectID, false
	}
	return id, true
}
