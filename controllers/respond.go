package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"mealplanner/middlewares"
	"mealplanner/utils"
	"mealplanner/utils/apperr"
)

// respondError maps a service error to its HTTP status. Internal failures
// are logged and reported without detail.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindUpstream:
		status = http.StatusBadGateway
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	}

	var e *apperr.Error
	if status == http.StatusInternalServerError && !errors.As(err, &e) {
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("unhandled error")
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "kind": apperr.KindOf(err).String()})
}

// credentials returns the caller or aborts with 401.
func credentials(c *gin.Context) (utils.Credentials, bool) {
	cred, ok := middlewares.Credentials(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return cred, ok
}

// idParam parses a positive numeric path parameter or aborts with 400.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
