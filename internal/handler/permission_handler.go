package handler

import (
	"errors"
	"net/http"

	"github.com/edudesk/school-backend/internal/middleware"
	"github.com/edudesk/school-backend/internal/model"
	"github.com/edudesk/school-backend/internal/response"
	"github.com/edudesk/school-backend/internal/service"
	"github.com/edudesk/school-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// PermissionHandler handles the role permission registry endpoints.
type PermissionHandler struct {
	permissionService *service.PermissionService
}

// NewPermissionHandler creates a new PermissionHandler.
func NewPermissionHandler(permissionService *service.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

// Grant godoc
// POST /api/v1/permissions
func (h *PermissionHandler) Grant(c *gin.Context) {
	var req model.GrantPermissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)

	grant, err := h.permissionService.Grant(c.Request.Context(), model.Role(req.Role), model.Permission(req.Permission), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownRole):
			response.Fail(c, http.StatusBadRequest, response.ErrUnknownRole)
		case errors.Is(err, service.ErrUnknownPermission):
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		case errors.Is(err, service.ErrAlreadyGranted):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyGranted)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"grant": grant})
}

// Revoke godoc
// DELETE /api/v1/permissions/:role/:permission
func (h *PermissionHandler) Revoke(c *gin.Context) {
	role := model.Role(c.Param("role"))
	perm := model.Permission(c.Param("permission"))

	grant, err := h.permissionService.Revoke(c.Request.Context(), role, perm)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownRole):
			response.Fail(c, http.StatusBadRequest, response.ErrUnknownRole)
		case errors.Is(err, service.ErrUnknownPermission):
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		case errors.Is(err, service.ErrGrantNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrGrantNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"grant": grant})
}

// ListRole godoc
// GET /api/v1/permissions/:role
func (h *PermissionHandler) ListRole(c *gin.Context) {
	role := model.Role(c.Param("role"))

	perms, err := h.permissionService.List(c.Request.Context(), role)
	if err != nil {
		if errors.Is(err, service.ErrUnknownRole) {
			response.Fail(c, http.StatusBadRequest, response.ErrUnknownRole)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"role": role, "permissions": perms})
}

// ListAll godoc
// GET /api/v1/permissions
func (h *PermissionHandler) ListAll(c *gin.Context) {
	grants, err := h.permissionService.ListAll(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"grants": grants})
}

// Check godoc
// GET /api/v1/permissions/:role/check/:permission
func (h *PermissionHandler) Check(c *gin.Context) {
	role := model.Role(c.Param("role"))
	perm := model.Permission(c.Param("permission"))

	// Unknown roles and codes simply answer false; the check contract never
	// errors on absence.
	allowed, err := h.permissionService.Check(c.Request.Context(), role, perm)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"role": role, "permission": perm, "allowed": allowed})
}

// Codes godoc
// GET /api/v1/permissions/codes
func (h *PermissionHandler) Codes(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"codes": h.permissionService.AllPermissionCodes()})
}
