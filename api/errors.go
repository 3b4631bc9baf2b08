package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/hornetmadness/MyBudget/service"
)

// RespondError maps service errors onto status codes: validation 400,
// not found 404, conflict 409. Unexpected errors become a 500 with the
// fallback message in release mode.
func RespondError(c *gin.Context, err error, fallback string) {
	var (
		validationErr *service.ValidationError
		notFoundErr   *service.NotFoundError
		conflictErr   *service.ConflictError
	)
	switch {
	case errors.As(err, &validationErr):
		BadRequest(c, validationErr.Message)
	case errors.As(err, &notFoundErr):
		NotFound(c, notFoundErr.Message)
	case errors.As(err, &conflictErr):
		Conflict(c, conflictErr.Message)
	default:
		InternalError(c, SafeErrorMessage(err, fallback))
	}
}
