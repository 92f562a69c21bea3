package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"hotel-backoffice/middleware"
	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

// statusFor maps a service error kind to its HTTP status.
func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation, services.KindInvalidID, services.KindConflict:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindUnauthenticated:
		return http.StatusUnauthorized
	case services.KindInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope. Internal errors are attached to the context for the
// request logger and never shown to clients.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	var se *services.Error
	kind := services.KindOf(err)
	if kind == services.KindInternal {
		utils.JSONError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if errors.As(err, &se) {
		utils.JSONError(c, statusFor(kind), se.Message)
		return
	}
	utils.JSONError(c, statusFor(kind), err.Error())
}

func badRequest(c *gin.Context, message string) {
	utils.JSONError(c, http.StatusBadRequest, message)
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, services.InvalidIDf("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

// optionalUint parses an optional positive integer query parameter.
func optionalUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		respondError(c, services.InvalidIDf("invalid %s", name))
		return 0, false
	}
	return uint(v), true
}

func optionalBool(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		badRequest(c, name+" must be true or false")
		return nil, false
	}
	return &v, true
}

type caller struct {
	ID   uint
	Role models.Role
}

func (u caller) isStaff() bool { return u.Role.IsStaff() }

func currentUser(c *gin.Context) (caller, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authentication required")
		return caller{}, false
	}
	role, _ := middleware.CurrentRole(c)
	return caller{ID: id, Role: role}, true
}
