package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	signupdomain "github.com/reclaimhq/reclaim/internal/signup/domain"
)

type completeSignupRequest struct {
	Email           string `json:"email" binding:"required,email"`
	FullName        string `json:"fullName" binding:"required"`
	Password        string `json:"password" binding:"required,min=8,max=128"`
	Phone           string `json:"phone"`
	ProfileImageURL string `json:"profile_image_url"`
}

func (s *Server) CompleteSignup(c *gin.Context) {
	var req completeSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.signupSvc.Complete(c.Request.Context(), signupdomain.Request{
		Email:           req.Email,
		FullName:        req.FullName,
		Password:        req.Password,
		Phone:           req.Phone,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    result.User,
		"message": result.Message,
	})
}
