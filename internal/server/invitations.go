package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	invitationdomain "github.com/reclaimhq/reclaim/internal/invitation/domain"
)

type sendInvitationsRequest struct {
	Emails          []string `json:"emails" binding:"required,min=1,max=50,dive,email"`
	EntityID        string   `json:"entityId"`
	Role            string   `json:"role"`
	PersonalMessage string   `json:"personalMessage"`
}

type validateTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type legacyValidateRequest struct {
	Email     string `json:"email" binding:"required,email"`
	AccountID string `json:"accountId" binding:"required"`
	Role      string `json:"role" binding:"required"`
	EntityID  string `json:"entityId"`
}

func (s *Server) SendInvitations(c *gin.Context) {
	accountID, userID, ok := s.accountContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req sendInvitationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	entityID, err := parseOptionalID(req.EntityID)
	if err != nil {
		AbortWithError(c, newValidationError("entityId", "invalid_entity", "invalid entity id"))
		return
	}

	resp, err := s.invitationSvc.SendInvitations(c.Request.Context(), invitationdomain.SendRequest{
		AccountID:       accountID,
		InviterID:       userID,
		EntityID:        entityID,
		Role:            req.Role,
		Emails:          req.Emails,
		PersonalMessage: req.PersonalMessage,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ValidateInvitationToken(c *gin.Context) {
	var req validateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.invitationSvc.ValidateToken(c.Request.Context(), req.Token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) ValidateInvitation(c *gin.Context) {
	var req legacyValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	accountID, err := snowflake.ParseString(strings.TrimSpace(req.AccountID))
	if err != nil {
		AbortWithError(c, newValidationError("accountId", "invalid_account", "invalid account id"))
		return
	}

	entityID, err := parseOptionalID(req.EntityID)
	if err != nil {
		AbortWithError(c, newValidationError("entityId", "invalid_entity", "invalid entity id"))
		return
	}

	result, err := s.invitationSvc.Validate(c.Request.Context(), invitationdomain.LegacyValidateRequest{
		Email:     req.Email,
		AccountID: accountID,
		Role:      req.Role,
		EntityID:  entityID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseOptionalID(raw string) (*snowflake.ID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(trimmed)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
