package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edudesk/edudesk-api/internal/middleware"
	"github.com/edudesk/edudesk-api/internal/service"
	"github.com/edudesk/edudesk-api/internal/utils"
)

// RoleViewHandler serves role-scoped views over the user aggregate: a
// teacher's satellite and classes, a student's satellite, classes and
// attendance record.
type RoleViewHandler struct {
	teachers service.TeacherService
	students service.StudentService
	logger   zerolog.Logger
}

// NewRoleViewHandler constructs a role view handler.
func NewRoleViewHandler(teachers service.TeacherService, students service.StudentService, logger zerolog.Logger) *RoleViewHandler {
	return &RoleViewHandler{
		teachers: teachers,
		students: students,
		logger:   logger.With().Str("component", "role_view_handler").Logger(),
	}
}

// RegisterTeacherRoutes wires the teacher views.
func (h *RoleViewHandler) RegisterTeacherRoutes(router fiber.Router) {
	router.Get("/:id/info", middleware.RequireSelfOrRole("id", "admin"), h.teacherInfo)
	router.Get("/:id/classes", middleware.RequireSelfOrRole("id", "admin"), h.teacherClasses)
}

// RegisterStudentRoutes wires the student views.
func (h *RoleViewHandler) RegisterStudentRoutes(router fiber.Router) {
	router.Get("/:id/info", middleware.RequireSelfOrRole("id", "teacher", "admin"), h.studentInfo)
	router.Get("/:id/classes", middleware.RequireSelfOrRole("id", "teacher", "admin"), h.studentClasses)
	router.Get("/:id/attendance", middleware.RequireSelfOrRole("id", "teacher", "admin"), h.studentAttendance)
}

func (h *RoleViewHandler) teacherInfo(c *fiber.Ctx) error {
	info, err := h.teachers.GetInfo(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "teacher info retrieved", info)
}

func (h *RoleViewHandler) teacherClasses(c *fiber.Ctx) error {
	classes, err := h.teachers.ListClasses(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "classes retrieved", classes)
}

func (h *RoleViewHandler) studentInfo(c *fiber.Ctx) error {
	info, err := h.students.GetInfo(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "student info retrieved", info)
}

func (h *RoleViewHandler) studentClasses(c *fiber.Ctx) error {
	classes, err := h.students.ListClasses(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "classes retrieved", classes)
}

func (h *RoleViewHandler) studentAttendance(c *fiber.Ctx) error {
	attendance, err := h.students.GetAttendance(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.SendAppError(c, err)
	}
	return utils.SendSuccess(c, "attendance retrieved", attendance)
}
