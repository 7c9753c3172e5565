package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminUsers lists every registered user.
func (h *Handler) AdminUsers(c *gin.Context) {
	list, err := h.users.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// AdminStats returns the platform counters.
func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.reports.AdminStats(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AdminCourses lists every course with enrollment counts.
func (h *Handler) AdminCourses(c *gin.Context) {
	list, err := h.courses.ListAll(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
