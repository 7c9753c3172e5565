package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"qrattend/internal/courses"
)

type createCourseRequest struct {
	CourseCode  string  `json:"course_code" binding:"required"`
	CourseTitle string  `json:"course_title" binding:"required"`
	Department  *string `json:"department"`
	Faculty     *string `json:"faculty"`
	Level       *string `json:"level"`
	Semester    *string `json:"semester"`
}

// CreateCourse records a course owned by the requester.
func (h *Handler) CreateCourse(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course code and title are required"})
		return
	}

	course, err := h.courses.Create(c.Request.Context(), courses.CreateInput{
		CourseCode:  req.CourseCode,
		CourseTitle: req.CourseTitle,
		Department:  req.Department,
		Faculty:     req.Faculty,
		Level:       req.Level,
		Semester:    req.Semester,
	}, claims(c).UserID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Course created successfully",
		"course_id": course.ID,
	})
}

// ListCourses returns the requester's courses: enrolled for students, owned
// for lecturers.
func (h *Handler) ListCourses(c *gin.Context) {
	cl := claims(c)
	list, err := h.courses.ListForUser(c.Request.Context(), cl.UserID, cl.Role)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// AvailableCourses returns courses the student has not enrolled in yet.
func (h *Handler) AvailableCourses(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	list, err := h.courses.Available(c.Request.Context(), claims(c).UserID, search)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetCourse returns one course.
func (h *Handler) GetCourse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	course, err := h.courses.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// Enroll records the requesting student into the course.
func (h *Handler) Enroll(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.courses.Enroll(c.Request.Context(), id, claims(c).UserID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Enrolled successfully"})
}

// CourseStudents returns the course roster.
func (h *Handler) CourseStudents(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	students, err := h.courses.Students(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}
