package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ArowuTest/zithara-mail-backend/internal/apperrors"
	"github.com/ArowuTest/zithara-mail-backend/internal/middleware"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}

// respondError maps service errors onto HTTP statuses. Unknown errors are
// logged and reported as a generic server error.
func respondError(c *gin.Context, err error) {
	var (
		validation *apperrors.ValidationError
		tracking   *apperrors.TrackingInputError
		notFound   *apperrors.NotFoundError
		cfgErr     *apperrors.ConfigurationError
	)

	switch {
	case errors.As(err, &validation):
		fail(c, http.StatusBadRequest, strings.Join(validation.Messages, ", "))
	case errors.As(err, &tracking):
		fail(c, http.StatusBadRequest, "Missing required tracking parameters")
	case errors.Is(err, apperrors.ErrDuplicateSubscriber), errors.Is(err, apperrors.ErrUserExists):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		fail(c, http.StatusForbidden, err.Error())
	case errors.As(err, &notFound):
		fail(c, http.StatusNotFound, notFoundMessage(notFound.Resource))
	case errors.Is(err, apperrors.ErrDispatchInProgress):
		fail(c, http.StatusConflict, err.Error())
	case errors.As(err, &cfgErr):
		log.Error("Service misconfigured", "setting", cfgErr.Setting, "err", err)
		fail(c, http.StatusServiceUnavailable, "Service is not configured: "+cfgErr.Setting)
	default:
		log.Error("Request failed", "path", c.Request.URL.Path, "err", err)
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, "Server Error")
	}
}

func notFoundMessage(resource string) string {
	if resource == "" {
		return "Not found"
	}
	return strings.ToUpper(resource[:1]) + resource[1:] + " not found"
}

// ownerID reads the authenticated user. Routes using it sit behind
// JWTAuthMiddleware, so a miss means the route was wired without it.
func ownerID(c *gin.Context) (primitive.ObjectID, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Not authorized to access this route")
	}
	return id, ok
}
