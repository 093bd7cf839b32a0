package webapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"studenthub-server-go/internal/domain/audit"
	"studenthub-server-go/internal/domain/eventbus"
	"studenthub-server-go/internal/models"
	"studenthub-server-go/internal/platform/logging"
	"studenthub-server-go/internal/platform/storage"
	httptransport "studenthub-server-go/internal/transport/http"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// StudentHandlers serves the student record CRUD endpoints. All of them sit
// behind the auth middleware.
type StudentHandlers struct {
	students *storage.StudentRepository
	bus      *eventbus.Bus
	logger   *logging.Logger
}

func NewStudentHandlers(students *storage.StudentRepository, bus *eventbus.Bus, logger *logging.Logger) *StudentHandlers {
	if logger == nil {
		logger = logging.Discard()
	}
	return &StudentHandlers{students: students, bus: bus, logger: logger}
}

func (h *StudentHandlers) Register(secured *gin.RouterGroup) {
	secured.GET("/students", h.handleList)
	secured.POST("/students", h.handleCreate)
	secured.GET("/students/:id", h.handleGet)
	secured.PUT("/students/:id", h.handleUpdate)
	secured.DELETE("/students/:id", h.handleDelete)
}

// StudentRequest carries a student record for create and update.
type StudentRequest struct {
	Name   string `json:"name" binding:"required,max=255"`
	Phone  string `json:"phone" binding:"required,max=15"`
	Email  string `json:"email" binding:"required,email"`
	Course string `json:"course" binding:"required,max=255"`
}

func (h *StudentHandlers) handleList(c *gin.Context) {
	page := parsePositiveInt(c.Query("page"), defaultPage)
	limit := parsePositiveInt(c.Query("limit"), defaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := (page - 1) * limit

	students, total, err := h.students.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.ErrorTag("STUDENT", "list failed: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "Failed to list students", nil)
		return
	}

	httptransport.RespondSuccess(c, http.StatusOK, gin.H{
		"students": students,
		"total":    total,
		"page":     page,
		"limit":    limit,
	}, "")
}

func (h *StudentHandlers) handleCreate(c *gin.Context) {
	var req StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "Validation failed",
			gin.H{"error": err.Error()})
		return
	}

	actor := actorID(c)
	student := &models.Student{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Course:    req.Course,
		CreatedBy: actor,
	}
	if err := h.students.Create(c.Request.Context(), student); err != nil {
		if isUniqueViolation(err) {
			httptransport.RespondError(c, http.StatusConflict,
				"Student with this email already exists", nil)
			return
		}
		h.logger.ErrorTag("STUDENT", "create failed: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "Failed to create student", nil)
		return
	}

	studentID := student.ID
	audit.Publish(h.bus, audit.Event{
		UserID:     actor,
		Action:     audit.ActionStudentCreate,
		EntityType: "student",
		EntityID:   &studentID,
		Details:    map[string]interface{}{"name": student.Name, "email": student.Email},
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})

	httptransport.RespondSuccess(c, http.StatusCreated,
		gin.H{"student": student}, "Student created successfully")
}

func (h *StudentHandlers) handleGet(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	student, err := h.students.FindByID(c.Request.Context(), id)
	if err != nil {
		h.logger.ErrorTag("STUDENT", "lookup failed: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "Failed to fetch student", nil)
		return
	}
	if student == nil {
		httptransport.RespondError(c, http.StatusNotFound, "Student not found", nil)
		return
	}

	httptransport.RespondSuccess(c, http.StatusOK, gin.H{"student": student}, "")
}

func (h *StudentHandlers) handleUpdate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "Validation failed",
			gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	student, err := h.students.FindByID(ctx, id)
	if err != nil {
		h.logger.ErrorTag("STUDENT", "lookup failed: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "Failed to update student", nil)
		return
	}
	if student == nil {
		httptransport.RespondError(c, http.StatusNotFound, "Student not found", nil)
		return
	}

	actor := actorID(c)
	student.Name = req.Name
	student.Phone = req.Phone
	student.Email = req.Email
	student.Course = req.Course
	student.UpdatedBy = actor

	if err := h.students.Update(ctx, student); err != nil {
		if isUniqueViolation(err) {
			httptransport.RespondError(c, http.StatusConflict,
				"Student with this email already exists", nil)
			return
		}
		h.logger.ErrorTag("STUDENT", "update failed: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "Failed to update student", nil)
		return
	}

	studentID := student.ID
	audit.Publish(h.bus, audit.Event{
		UserID:     actor,
		Action:     audit.ActionStudentUpdate,
		EntityType: "student",
		EntityID:   &studentID,
		Details:    map[string]interface{}{"name": student.Name, "email": student.Email},
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})

	httptransport.RespondSuccess(c, http.StatusOK,
		gin.H{"student": student}, "Student updated successfully")
}

func (h *StudentHandlers) handleDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	deleted, err := h.students.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.ErrorTag("STUDENT", "delete failed: %v", err)
		httptransport.RespondError(c, http.StatusInternalServerError, "Failed to delete student", nil)
		return
	}
	if !deleted {
		httptransport.RespondError(c, http.StatusNotFound, "Student not found", nil)
		return
	}

	actor := actorID(c)
	audit.Publish(h.bus, audit.Event{
		UserID:     actor,
		Action:     audit.ActionStudentDelete,
		EntityType: "student",
		EntityID:   &id,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})

	httptransport.RespondSuccess(c, http.StatusOK, nil, "Student deleted successfully")
}

// pathID parses the :id path segment, responding with 400 on garbage.
func pathID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		httptransport.RespondError(c, http.StatusBadRequest, "Invalid student id", nil)
		return 0, false
	}
	return uint(id), true
}

// actorID pulls the acting user's id from the verified claims, nil when the
// subject is not a numeric id.
func actorID(c *gin.Context) *uint {
	claims, ok := httptransport.ClaimsFrom(c)
	if !ok {
		return nil
	}
	id, err := claims.UserID()
	if err != nil {
		return nil
	}
	return &id
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// isUniqueViolation sniffs driver error text for unique index violations.
// gorm does not normalize these across sqlite, postgres and mysql.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
