package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"oneacademy/internal/authz"
	"oneacademy/internal/services"
)

type RegisterHandler struct {
	accounts services.AccountService
}

func NewRegisterHandler(accounts services.AccountService) *RegisterHandler {
	return &RegisterHandler{accounts: accounts}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
	RoleID   int    `json:"role_id"`
}

// @Summary      Register an account
// @Description  Creates an inactive account and emails a 6-digit activation OTP
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        register  body      registerRequest  true  "Registration data"
// @Success      201       {object}  map[string]interface{}
// @Failure      409       {object}  map[string]string
// @Router       /register [post]
func (h *RegisterHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RoleID == 0 {
		req.RoleID = authz.RoleStudent
	}

	res, err := h.accounts.Register(services.RegisterInput{
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		RoleID:   req.RoleID,
		Name:     req.Name,
	})
	if err != nil && !errors.Is(err, services.ErrNotificationFailed) {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		log.Printf("[register] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	// account persisted either way; report the dispatch outcome separately
	body := gin.H{
		"message":  "account is created, OTP sent",
		"user":     res.User,
		"otp_sent": res.Notified,
	}
	if !res.Notified {
		body["message"] = "account is created, but the OTP email could not be sent"
	}
	c.JSON(http.StatusCreated, body)
}

func (h *RegisterHandler) ConfirmOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := h.accounts.VerifyOTP(req.Email, req.OTP)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Email is not registered"})
			return
		}
		log.Printf("[register][confirm] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	switch status {
	case services.OTPActivated:
		c.JSON(http.StatusOK, gin.H{"message": "Your account has been activated"})
	case services.OTPExpired:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Your OTP is expired, try resending it"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Your OTP is invalid"})
	}
}

func (h *RegisterHandler) ResendOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := h.accounts.ReissueOTP(req.Email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Email is not registered"})
		case errors.Is(err, services.ErrNotificationFailed):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "New OTP stored, but the email could not be sent"})
		default:
			log.Printf("[register][resend] failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "We have sent a new OTP, check your email"})
}
