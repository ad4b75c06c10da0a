package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/learning-planner/internal/platform/apierr"
	"github.com/yungbote/learning-planner/internal/platform/ctxutil"
	"github.com/yungbote/learning-planner/internal/platform/logger"
)

// AuthMiddleware verifies HS256 bearer tokens whose subject is the user id. Tokens are
// issued elsewhere; this service only checks them.
type AuthMiddleware struct {
	log      *logger.Logger
	secret   []byte
	required bool
	parser   *jwt.Parser
}

func NewAuthMiddleware(log *logger.Logger, secret string, required bool) *AuthMiddleware {
	return &AuthMiddleware{
		log:      log.With("middleware", "AuthMiddleware"),
		secret:   []byte(secret),
		required: required,
		parser:   jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// Authenticate attaches the user id when a valid token is present. A bad token is always
// rejected; a missing one only when auth is required.
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c)
		if tokenString != "" && len(am.secret) == 0 {
			// Nothing to verify against, so a presented token cannot be trusted.
			abortUnauthorized(c, "missing or invalid token")
			return
		}
		if tokenString == "" {
			if am.required {
				abortUnauthorized(c, "missing or invalid token")
				return
			}
			c.Next()
			return
		}
		userID, err := am.verify(tokenString)
		if err != nil {
			am.log.Debug("token rejected", "error", err)
			abortUnauthorized(c, "missing or invalid token")
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func (am *AuthMiddleware) verify(tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := am.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return am.secret, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse token: %w", err)
	}
	if !tok.Valid {
		return uuid.Nil, errors.New("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid user id in token")
	}
	return userID, nil
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"message": msg, "code": apierr.CodeUnauthorized},
	})
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
