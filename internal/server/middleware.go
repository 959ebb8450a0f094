package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

const (
	ctxAccountID = "account_id"
	ctxUserID    = "user_id"
)

// AccountContextRequired extracts the authenticated tenant identity
// forwarded by the gateway and exposes it as typed values. Everything
// below the handler layer receives identity as explicit parameters.
func (s *Server) AccountContextRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, err := snowflake.ParseString(strings.TrimSpace(c.GetHeader("X-Account-Id")))
		if err != nil || accountID == 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		userID, err := snowflake.ParseString(strings.TrimSpace(c.GetHeader("X-User-Id")))
		if err != nil || userID == 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(ctxAccountID, accountID)
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

func (s *Server) accountContext(c *gin.Context) (snowflake.ID, snowflake.ID, bool) {
	accountID, ok := c.Get(ctxAccountID)
	if !ok {
		return 0, 0, false
	}
	userID, ok := c.Get(ctxUserID)
	if !ok {
		return 0, 0, false
	}

	account, ok := accountID.(snowflake.ID)
	if !ok {
		return 0, 0, false
	}
	user, ok := userID.(snowflake.ID)
	if !ok {
		return 0, 0, false
	}

	return account, user, true
}
