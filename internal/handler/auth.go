package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrattend/internal/users"
)

type registerRequest struct {
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=6"`
	FullName   string  `json:"full_name" binding:"required"`
	RegNumber  *string `json:"reg_number"`
	Role       string  `json:"role" binding:"required"`
	Department *string `json:"department"`
	Faculty    *string `json:"faculty"`
	Level      *string `json:"level"`
}

// RegisterUser creates a student or lecturer account.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	u, err := h.users.Register(c.Request.Context(), users.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		FullName:   req.FullName,
		RegNumber:  req.RegNumber,
		Role:       req.Role,
		Department: req.Department,
		Faculty:    req.Faculty,
		Level:      req.Level,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"user_id": u.ID,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a 24h bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}

	token, exp, err := h.tokens.Issue(u.ID, u.Email, u.Role, u.FullName)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Login successful",
		"token":      token,
		"expires_at": exp,
		"user":       u,
	})
}

// Profile returns the requester's own account.
func (h *Handler) Profile(c *gin.Context) {
	u, err := h.users.Profile(c.Request.Context(), claims(c).UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
