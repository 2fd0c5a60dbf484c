package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/requestdata"
)

// IdentityMiddleware resolves the optional bearer identity on every request.
// Anonymous traffic goes through untouched; a present-but-invalid token is
// rejected rather than silently downgraded to anonymous.
type IdentityMiddleware struct {
	log    *logger.Logger
	secret []byte
}

func NewIdentityMiddleware(log *logger.Logger, secret string) *IdentityMiddleware {
	middlewareLogger := log.With("middleware", "IdentityMiddleware")
	return &IdentityMiddleware{log: middlewareLogger, secret: []byte(secret)}
}

// Identify parses the Authorization header when present and attaches the
// owner id to the request context.
func (im *IdentityMiddleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearerToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		ownerID, err := im.ownerFromToken(tokenString)
		if err != nil {
			im.log.Debug("Rejected bearer token", "error", err)
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
			TokenString: tokenString,
			OwnerID:     ownerID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireOwner guards routes that cannot serve anonymous traffic.
func (im *IdentityMiddleware) RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if requestdata.OwnerID(c.Request.Context()) == uuid.Nil {
			abortUnauthorized(c, "authorization required")
			return
		}
		c.Next()
	}
}

func (im *IdentityMiddleware) ownerFromToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return im.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token claims")
	}
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return uuid.Nil, fmt.Errorf("token subject missing")
	}
	ownerID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("token subject is not an owner id: %w", err)
	}
	return ownerID, nil
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"message": message, "code": "authorization_required"},
	})
}
