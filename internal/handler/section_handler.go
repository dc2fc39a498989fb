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

// SectionHandler handles class section and roster endpoints.
type SectionHandler struct {
	sectionService    *service.SectionService
	enrollmentService *service.EnrollmentService
}

// NewSectionHandler creates a new SectionHandler.
func NewSectionHandler(sectionService *service.SectionService, enrollmentService *service.EnrollmentService) *SectionHandler {
	return &SectionHandler{
		sectionService:    sectionService,
		enrollmentService: enrollmentService,
	}
}

// Create godoc
// POST /api/v1/classes
func (h *SectionHandler) Create(c *gin.Context) {
	var req model.CreateSectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	section, err := h.sectionService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"class": section})
}

// List godoc
// GET /api/v1/classes
func (h *SectionHandler) List(c *gin.Context) {
	sections, err := h.sectionService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classes": sections})
}

// Mine godoc
// GET /api/v1/classes/mine
func (h *SectionHandler) Mine(c *gin.Context) {
	claims := middleware.GetClaims(c)

	sections, err := h.sectionService.ListByTeacher(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classes": sections})
}

// Get godoc
// GET /api/v1/classes/:id
func (h *SectionHandler) Get(c *gin.Context) {
	section, err := h.sectionService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSectionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": section})
}

// Update godoc
// PUT /api/v1/classes/:id
func (h *SectionHandler) Update(c *gin.Context) {
	var req model.UpdateSectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	section, err := h.sectionService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSectionNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrStaffNotFound):
			response.Fail(c, http.StatusBadRequest, response.ErrNotFound)
		case errors.Is(err, service.ErrTeachingLimit):
			response.Fail(c, http.StatusBadRequest, response.ErrTeachingLimit)
		case errors.Is(err, service.ErrEnrollmentLimit):
			response.Fail(c, http.StatusBadRequest, response.ErrEnrollmentLimit)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": section})
}

// AddStudent godoc
// POST /api/v1/classes/:id/students
func (h *SectionHandler) AddStudent(c *gin.Context) {
	var req model.AddStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	section, err := h.enrollmentService.AddStudent(c.Request.Context(), c.Param("id"), req.Student)
	if err != nil {
		h.failEnrollment(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": section})
}

// RemoveStudent godoc
// DELETE /api/v1/classes/:id/students/:studentId
func (h *SectionHandler) RemoveStudent(c *gin.Context) {
	section, err := h.enrollmentService.RemoveStudent(c.Request.Context(), c.Param("id"), c.Param("studentId"))
	if err != nil {
		h.failEnrollment(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": section})
}

// Enroll godoc
// POST /api/v1/classes/:id/enroll
//
// Self-service enrollment for an authenticated student.
func (h *SectionHandler) Enroll(c *gin.Context) {
	claims := middleware.GetClaims(c)

	section, err := h.enrollmentService.AddStudent(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		h.failEnrollment(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"class": section})
}

func (h *SectionHandler) failEnrollment(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSectionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrStudentNotFound):
		response.Fail(c, http.StatusBadRequest, response.ErrNotFound)
	case errors.Is(err, service.ErrAlreadyEnrolled):
		response.Fail(c, http.StatusBadRequest, response.ErrAlreadyEnrolled)
	case errors.Is(err, service.ErrNotEnrolled):
		response.Fail(c, http.StatusBadRequest, response.ErrNotEnrolled)
	case errors.Is(err, service.ErrEnrollmentLimit):
		response.Fail(c, http.StatusBadRequest, response.ErrEnrollmentLimit)
	case errors.Is(err, service.ErrTeachingLimit):
		response.Fail(c, http.StatusBadRequest, response.ErrTeachingLimit)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
