package router

import (
	"net/http"
	"time"

	"github.com/edudesk/school-backend/internal/config"
	"github.com/edudesk/school-backend/internal/handler"
	"github.com/edudesk/school-backend/internal/middleware"
	"github.com/edudesk/school-backend/internal/model"
	"github.com/edudesk/school-backend/internal/response"
	"github.com/edudesk/school-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Staff      *handler.StaffHandler
	Student    *handler.StudentHandler
	Permission *handler.PermissionHandler
	Section    *handler.SectionHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	permissionService *service.PermissionService,
	staffService *service.StaffService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// requirePerm gates a staff route on a registry permission.
	requirePerm := func(perm model.Permission) gin.HandlerFunc {
		return middleware.RequirePermission(permissionService, staffService, perm)
	}

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/staff/login", handlers.Auth.StaffLogin)
		auth.POST("/student/login", handlers.Auth.StudentLogin)

		// Authenticated profile routes
		auth.POST("/student/logout", middleware.RequireStudentJWT(authService), handlers.Auth.StudentLogout)
		auth.GET("/student/me", middleware.RequireStudentJWT(authService), handlers.Auth.GetStudentProfile)
		auth.GET("/staff/me", middleware.RequireStaffJWT(authService), handlers.Auth.GetStaffProfile)
	}

	// ─── 2. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		studentAPI.POST("/classes/:id/enroll", handlers.Section.Enroll)
	}

	// ─── 3. Staff Group (JWT + RBAC) ───────────────────────────────────
	staffAPI := router.Group("/api/v1")
	staffAPI.Use(middleware.RequireStaffJWT(authService))
	{
		// Permission registry
		staffAPI.POST("/permissions",
			requirePerm(model.PermissionCreatePermission),
			handlers.Permission.Grant,
		)
		staffAPI.GET("/permissions",
			requirePerm(model.PermissionGetAllPermissions),
			handlers.Permission.ListAll,
		)
		staffAPI.GET("/permissions/codes",
			requirePerm(model.PermissionGetAllPermissions),
			handlers.Permission.Codes,
		)
		staffAPI.GET("/permissions/:role",
			requirePerm(model.PermissionGetPermission),
			handlers.Permission.ListRole,
		)
		staffAPI.GET("/permissions/:role/check/:permission",
			requirePerm(model.PermissionGetPermission),
			handlers.Permission.Check,
		)
		staffAPI.DELETE("/permissions/:role/:permission",
			requirePerm(model.PermissionDeletePermission),
			handlers.Permission.Revoke,
		)

		// Staff management
		staffAPI.POST("/staff",
			requirePerm(model.PermissionCreateStaff),
			handlers.Staff.Create,
		)
		staffAPI.GET("/staff",
			requirePerm(model.PermissionGetAllStaff),
			handlers.Staff.List,
		)
		staffAPI.GET("/staff/:id",
			requirePerm(model.PermissionGetStaff),
			handlers.Staff.Get,
		)
		staffAPI.PUT("/staff/:id",
			requirePerm(model.PermissionUpdateStaff),
			handlers.Staff.Update,
		)
		staffAPI.DELETE("/staff/:id",
			requirePerm(model.PermissionDeleteStaff),
			handlers.Staff.Delete,
		)

		// Student management
		staffAPI.POST("/students",
			requirePerm(model.PermissionCreateStudent),
			handlers.Student.Create,
		)
		staffAPI.GET("/students",
			requirePerm(model.PermissionGetAllStudents),
			handlers.Student.List,
		)
		staffAPI.GET("/students/:id",
			requirePerm(model.PermissionGetStudent),
			handlers.Student.Get,
		)
		staffAPI.PUT("/students/:id",
			requirePerm(model.PermissionUpdateStudent),
			handlers.Student.Update,
		)
		staffAPI.DELETE("/students/:id",
			requirePerm(model.PermissionDeleteStudent),
			handlers.Student.Delete,
		)

		// Class sections and rosters
		staffAPI.POST("/classes",
			requirePerm(model.PermissionCreateClasses),
			handlers.Section.Create,
		)
		staffAPI.GET("/classes",
			requirePerm(model.PermissionGetAllClasses),
			handlers.Section.List,
		)
		staffAPI.GET("/classes/mine",
			requirePerm(model.PermissionGetMyClasses),
			handlers.Section.Mine,
		)
		staffAPI.GET("/classes/:id",
			requirePerm(model.PermissionGetAllClasses),
			handlers.Section.Get,
		)
		staffAPI.PUT("/classes/:id",
			requirePerm(model.PermissionUpdateClasses),
			handlers.Section.Update,
		)
		staffAPI.POST("/classes/:id/students",
			requirePerm(model.PermissionAddStudentToClass),
			handlers.Section.AddStudent,
		)
		staffAPI.DELETE("/classes/:id/students/:studentId",
			requirePerm(model.PermissionRemoveStudentFromClass),
			handlers.Section.RemoveStudent,
		)
	}

	return router
}
