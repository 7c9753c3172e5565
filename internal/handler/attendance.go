package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"qrattend/internal/attendance"
	"qrattend/internal/metrics"
	"qrattend/internal/queue"
)

type markRequest struct {
	SessionID   int64  `json:"session_id" binding:"required"`
	SessionCode string `json:"session_code" binding:"required"`
}

// MarkAttendance accepts a scanned QR payload and records presence. Each
// failure kind is final for the request; no retries happen server-side.
func (h *Handler) MarkAttendance(c *gin.Context) {
	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session code and ID are required"})
		return
	}

	rec, err := h.ledger.Mark(c.Request.Context(), req.SessionID, req.SessionCode, claims(c).UserID)
	if err != nil {
		metrics.MarksTotal.WithLabelValues(markOutcome(err)).Inc()
		respondErr(c, err)
		return
	}
	metrics.MarksTotal.WithLabelValues("accepted").Inc()

	h.publishMarked(c, rec)

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Attendance marked successfully",
		"marked_at": rec.MarkedAt,
	})
}

// publishMarked emits the audit event. The mark already happened; a queue
// failure is logged and ignored.
func (h *Handler) publishMarked(c *gin.Context, rec attendance.Record) {
	if h.events == nil {
		return
	}
	body, err := json.Marshal(attendance.MarkedEvent{
		RecordID:  rec.ID,
		SessionID: rec.SessionID,
		StudentID: rec.StudentID,
		CourseID:  rec.CourseID,
		MarkedAt:  rec.MarkedAt,
	})
	if err != nil {
		return
	}
	if err := h.events.Publish(c.Request.Context(), queue.Message{Type: "attendance.marked", Body: body}); err != nil {
		log.Printf("queue publish failed: %v", err)
	}
}

func markOutcome(err error) string {
	switch {
	case errors.Is(err, attendance.ErrSessionNotFound):
		return "invalid_session"
	case errors.Is(err, attendance.ErrSessionExpired):
		return "expired"
	case errors.Is(err, attendance.ErrNotEnrolled):
		return "not_enrolled"
	case errors.Is(err, attendance.ErrAlreadyMarked):
		return "duplicate"
	default:
		return "error"
	}
}

// SessionAttendance lists one session's records.
func (h *Handler) SessionAttendance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	records, err := h.reports.SessionAttendance(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// History lists the requesting student's own attendance records.
func (h *Handler) History(c *gin.Context) {
	records, err := h.reports.StudentHistory(c.Request.Context(), claims(c).UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// CourseReport returns the presence matrix for a course.
func (h *Handler) CourseReport(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	report, err := h.reports.CourseReport(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
