package middleware

import (
	"errors"
	"net/http"

	"github.com/edudesk/school-backend/internal/model"
	"github.com/edudesk/school-backend/internal/response"
	"github.com/edudesk/school-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// RequirePermission checks that the caller's role holds the required
// permission. The grant table is re-read on every request and the actor is
// re-resolved from the store, so a revoked permission or a soft-deleted
// account locks out immediately — the token carries identity, not
// authority.
func RequirePermission(permSvc *service.PermissionService, staffSvc *service.StaffService, perm model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		// Soft-deleted staff must be treated as non-existent.
		if _, err := staffSvc.GetByID(c.Request.Context(), claims.UserID); err != nil {
			if errors.Is(err, service.ErrStaffNotFound) {
				response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
				return
			}
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}

		allowed, err := permSvc.Authorize(c.Request.Context(), claims.Role, perm)
		if err != nil {
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		if !allowed {
			response.AbortFail(c, http.StatusForbidden, response.ErrPermissionDenied)
			return
		}

		c.Next()
	}
}
