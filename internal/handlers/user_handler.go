package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"oneacademy/internal/services"
)

type UserHandler struct {
	service services.UserService
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	detail, err := h.service.GetDetail(userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found!"})
			return
		}
		log.Printf("[users][me] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": detail})
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Country string `json:"country"`
		City    string `json:"city"`
		Avatar  string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.service.UpdateProfile(userID, services.UpdateProfileInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Country:   req.Country,
		City:      req.City,
		AvatarURL: req.Avatar,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already used!"})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found!"})
		default:
			log.Printf("[users][update] failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"profile": detail,
	})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrSamePassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": "The old password cannot be the same as the new password!"})
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Old password not same!"})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated!"})
}

func (h *UserHandler) MyTransactions(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	txs, err := h.service.ListTransactions(userID)
	if err != nil {
		log.Printf("[users][transactions] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	if len(txs) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message":     "You haven't purchased any courses yet",
			"transaction": []interface{}{},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": txs})
}
