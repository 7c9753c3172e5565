package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"qrattend/internal/metrics"
	"qrattend/internal/sessions"
)

type createSessionRequest struct {
	CourseID        int64  `json:"course_id" binding:"required"`
	SessionTitle    string `json:"session_title"`
	DurationMinutes int    `json:"duration_minutes"`
}

// CreateSession opens a time-boxed session for a course the requester owns
// and returns the QR image for it.
func (h *Handler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course id is required"})
		return
	}

	sess, err := h.sessions.Create(c.Request.Context(), sessions.CreateInput{
		CourseID: req.CourseID,
		Title:    req.SessionTitle,
		Duration: time.Duration(req.DurationMinutes) * time.Minute,
	}, claims(c).UserID)
	if err != nil {
		respondErr(c, err)
		return
	}

	payload := sess.Payload()
	qr, err := sessions.QRDataURL(payload)
	if err != nil {
		respondErr(c, err)
		return
	}
	metrics.SessionsCreated.Inc()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Session created successfully",
		"session": gin.H{
			"id":           sess.ID,
			"session_code": sess.SessionCode,
			"expires_at":   sess.ExpiresAt,
			"qr_code":      qr,
			"qr_data":      payload,
		},
	})
}

// CourseSessions lists a course's sessions with attendance counts.
func (h *Handler) CourseSessions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	list, err := h.sessions.ListForCourse(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// SessionQR re-renders the QR image for an existing session.
func (h *Handler) SessionQR(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	sess, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	qr, err := sessions.QRDataURL(sess.Payload())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session":    sess,
		"qr_code":    qr,
		"is_expired": h.sessions.Expired(sess),
	})
}
