package middleware

import (
	"net/http"
	"strings"

	"carpool/internal/domain"
	"carpool/internal/utils"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// TokenParser turns a bearer token into an identity.
type TokenParser interface {
	ParseToken(raw string) (domain.Identity, error)
}

// AuthOptional stores the caller's identity when a valid bearer token is
// present. Missing or invalid tokens leave the caller anonymous.
func AuthOptional(p TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		who := domain.Anonymous
		if raw := bearerToken(c.GetHeader("Authorization")); raw != "" && p != nil {
			id, err := p.ParseToken(raw)
			if err != nil {
				utils.LogEvent(GetRequestID(c), "auth", "parse_token", "invalid token: "+err.Error())
			} else {
				who = id
			}
		}
		c.Set(identityKey, who)
		c.Next()
	}
}

// AuthRequired aborts anonymous requests. It must run after AuthOptional.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetIdentity(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "ERROR",
				"message": domain.UnauthorizedError{}.Error(),
			})
			return
		}
		c.Next()
	}
}

// GetIdentity returns the identity set by AuthOptional, or Anonymous.
func GetIdentity(c *gin.Context) domain.Identity {
	if c == nil {
		return domain.Anonymous
	}
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(domain.Identity); ok {
			return id
		}
	}
	return domain.Anonymous
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
