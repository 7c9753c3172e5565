package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"qrattend/internal/attendance"
	"qrattend/internal/auth"
	"qrattend/internal/courses"
	"qrattend/internal/queue"
	"qrattend/internal/reports"
	"qrattend/internal/sessions"
	"qrattend/internal/users"
)

// Handler owns the services and exposes them as gin handlers.
type Handler struct {
	users    *users.Service
	courses  *courses.Service
	sessions *sessions.Service
	ledger   *attendance.Ledger
	reports  *reports.Service
	tokens   *auth.Issuer
	events   queue.Queue
}

// New wires a handler.
func New(
	usersSvc *users.Service,
	coursesSvc *courses.Service,
	sessionsSvc *sessions.Service,
	ledger *attendance.Ledger,
	reportsSvc *reports.Service,
	tokens *auth.Issuer,
	events queue.Queue,
) *Handler {
	return &Handler{
		users:    usersSvc,
		courses:  coursesSvc,
		sessions: sessionsSvc,
		ledger:   ledger,
		reports:  reportsSvc,
		tokens:   tokens,
		events:   events,
	}
}

// Register mounts all API routes. markLimiter guards the scan endpoint only;
// the rest of the API is not a flood target.
func (h *Handler) Register(r *gin.Engine, markLimiter gin.HandlerFunc) {
	api := r.Group("/api")

	api.POST("/auth/register", h.RegisterUser)
	api.POST("/auth/login", h.Login)

	authed := api.Group("", auth.RequireAuth(h.tokens))
	authed.GET("/auth/profile", h.Profile)

	authed.POST("/courses", auth.RequireRole(users.RoleLecturer, users.RoleAdmin), h.CreateCourse)
	authed.GET("/courses", h.ListCourses)
	authed.GET("/courses/available", auth.RequireRole(users.RoleStudent), h.AvailableCourses)
	authed.GET("/courses/:id", h.GetCourse)
	authed.POST("/courses/:id/enroll", auth.RequireRole(users.RoleStudent), h.Enroll)
	authed.GET("/courses/:id/students", auth.RequireRole(users.RoleLecturer, users.RoleAdmin), h.CourseStudents)
	authed.GET("/courses/:id/sessions", h.CourseSessions)
	authed.GET("/courses/:id/attendance-report", auth.RequireRole(users.RoleLecturer, users.RoleAdmin), h.CourseReport)

	authed.POST("/sessions", auth.RequireRole(users.RoleLecturer, users.RoleAdmin), h.CreateSession)
	authed.GET("/sessions/:id/qrcode", auth.RequireRole(users.RoleLecturer, users.RoleAdmin), h.SessionQR)
	authed.GET("/sessions/:id/attendance", auth.RequireRole(users.RoleLecturer, users.RoleAdmin), h.SessionAttendance)

	mark := authed.Group("", auth.RequireRole(users.RoleStudent))
	if markLimiter != nil {
		mark.Use(markLimiter)
	}
	mark.POST("/attendance/mark", h.MarkAttendance)
	authed.GET("/attendance/history", auth.RequireRole(users.RoleStudent), h.History)

	admin := authed.Group("/admin", auth.RequireRole(users.RoleAdmin))
	admin.GET("/users", h.AdminUsers)
	admin.GET("/stats", h.AdminStats)
	admin.GET("/courses", h.AdminCourses)
}

// respondErr maps a business-rule failure to its status and stable message.
// Anything unrecognized is an infrastructure failure and stays opaque.
func respondErr(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, users.ErrInvalidRole),
		errors.Is(err, sessions.ErrBadDuration):
		status = http.StatusBadRequest
	case errors.Is(err, users.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, sessions.ErrNotOwner),
		errors.Is(err, attendance.ErrNotEnrolled):
		status = http.StatusForbidden
	case errors.Is(err, users.ErrNotFound),
		errors.Is(err, courses.ErrNotFound),
		errors.Is(err, sessions.ErrNotFound),
		errors.Is(err, sessions.ErrCourseNotFound),
		errors.Is(err, attendance.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, users.ErrEmailTaken),
		errors.Is(err, courses.ErrAlreadyEnrolled),
		errors.Is(err, attendance.ErrAlreadyMarked):
		status = http.StatusConflict
	case errors.Is(err, attendance.ErrSessionExpired):
		status = http.StatusGone
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// claims returns the authenticated requester. Routes behind RequireAuth
// always have them.
func claims(c *gin.Context) auth.Claims {
	cl, _ := auth.FromContext(c)
	return cl
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
