package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/http/response"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
)

type ClassHandler struct {
	log         *logger.Logger
	classes     services.ClassService
	meetings    services.MeetingService
	enrollments services.EnrollmentService
}

func NewClassHandler(log *logger.Logger, classes services.ClassService, meetings services.MeetingService, enrollments services.EnrollmentService) *ClassHandler {
	return &ClassHandler{
		log:         log.With("handler", "ClassHandler"),
		classes:     classes,
		meetings:    meetings,
		enrollments: enrollments,
	}
}

// GET /api/classes?status=&professor_id=&student_id=
func (h *ClassHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	professorID, ok := uuidQuery(c, "professor_id")
	if !ok {
		return
	}
	studentID, ok := uuidQuery(c, "student_id")
	if !ok {
		return
	}

	var (
		classes []types.ClassView
		err     error
	)
	status := types.ClassStatus(strings.TrimSpace(c.Query("status")))
	switch {
	case professorID != uuid.Nil:
		classes, err = h.classes.ForProfessor(ctx, professorID)
	case studentID != uuid.Nil:
		classes, err = h.classes.ForStudent(ctx, studentID)
	case status != "":
		classes, err = h.classes.ByStatus(ctx, status)
	default:
		classes, err = h.classes.List(ctx, "")
	}
	if err != nil {
		h.log.Error("List classes failed", "error", err)
		response.RespondServiceError(c, "load_classes_failed", err)
		return
	}
	if classes == nil {
		classes = []types.ClassView{}
	}
	response.RespondOK(c, gin.H{"classes": classes})
}

// GET /api/classes/:id
func (h *ClassHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	class, err := h.classes.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, "load_class_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"class": class})
}

// POST /api/classes
func (h *ClassHandler) Create(c *gin.Context) {
	var in services.ClassInput
	if !bindJSON(c, &in) {
		return
	}
	class, err := h.classes.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, "create_class_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"class": class})
}

// PATCH /api/classes/:id
func (h *ClassHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var patch services.ClassPatch
	if !bindJSON(c, &patch) {
		return
	}
	class, err := h.classes.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.RespondServiceError(c, "update_class_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"class": class})
}

// DELETE /api/classes/:id
func (h *ClassHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.classes.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, "delete_class_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/classes/:id/meetings
func (h *ClassHandler) Meetings(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	meetings, err := h.meetings.ListByClass(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, "load_meetings_failed", err)
		return
	}
	if meetings == nil {
		meetings = []*types.Meeting{}
	}
	response.RespondOK(c, gin.H{"meetings": meetings})
}

// GET /api/classes/:id/enrollments
func (h *ClassHandler) Enrollments(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	rows, err := h.enrollments.ListByClass(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, "load_enrollments_failed", err)
		return
	}
	if rows == nil {
		rows = []*types.Enrollment{}
	}
	response.RespondOK(c, gin.H{"enrollments": rows})
}

type enrollRequest struct {
	StudentID uuid.UUID `json:"student_id"`
}

// POST /api/classes/:id/enrollments
func (h *ClassHandler) Enroll(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req enrollRequest
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.enrollments.Enroll(c.Request.Context(), req.StudentID, id)
	if err != nil {
		response.RespondServiceError(c, "enroll_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"enrollment": row})
}

type enrollmentPatch struct {
	FinalGrade *float64 `json:"final_grade"`
	ClearGrade bool     `json:"clear_grade"`
	Progress   *int     `json:"progress"`
}

// PATCH /api/classes/:id/enrollments/:student_id
func (h *ClassHandler) UpdateEnrollment(c *gin.Context) {
	classID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	studentID, ok := uuidParam(c, "student_id")
	if !ok {
		return
	}
	var req enrollmentPatch
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	var (
		row *types.Enrollment
		err error
	)
	if req.FinalGrade != nil || req.ClearGrade {
		if row, err = h.enrollments.SetFinalGrade(ctx, studentID, classID, req.FinalGrade); err != nil {
			response.RespondServiceError(c, "update_enrollment_failed", err)
			return
		}
	}
	if req.Progress != nil {
		if row, err = h.enrollments.AdminSetProgress(ctx, studentID, classID, *req.Progress); err != nil {
			response.RespondServiceError(c, "update_enrollment_failed", err)
			return
		}
	}
	if row == nil {
		response.RespondServiceError(c, "update_enrollment_failed", services.ErrInvalidArgument)
		return
	}
	response.RespondOK(c, gin.H{"enrollment": row})
}

// DELETE /api/classes/:id/enrollments/:student_id
func (h *ClassHandler) Unenroll(c *gin.Context) {
	classID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	studentID, ok := uuidParam(c, "student_id")
	if !ok {
		return
	}
	if err := h.enrollments.Unenroll(c.Request.Context(), studentID, classID); err != nil {
		response.RespondServiceError(c, "unenroll_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
