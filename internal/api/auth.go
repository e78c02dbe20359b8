package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dharsanguruparan/DocFlow/internal/logger"
	"github.com/dharsanguruparan/DocFlow/internal/remote"
	"github.com/dharsanguruparan/DocFlow/internal/signing"
)

const telegramPrefix = "telegram_"

// Claims binds a token to a user id.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// GenerateToken issues an HS256 token for userID.
func GenerateToken(userID string, secret []byte, ttl time.Duration, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// ParseToken validates a token and returns its user id.
func ParseToken(token string, secret []byte) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !parsed.Valid {
		return "", errors.New("invalid or expired token")
	}
	if claims.UserID == "" {
		return "", errors.New("token has no user")
	}
	return claims.UserID, nil
}

// Identify resolves the caller. A bearer token always wins; without one the
// X-User-ID header is trusted for locally generated ids only, so Telegram
// ids always need a token.
func Identify(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := identify(c, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(userIDKey, userID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func identify(c *gin.Context, secret []byte) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", errors.New("invalid authorization header format")
		}
		return ParseToken(parts[1], secret)
	}
	userID := strings.TrimSpace(c.GetHeader(remote.UserHeader))
	switch {
	case userID == "":
		return "", errors.New("authorization required")
	case strings.HasPrefix(userID, telegramPrefix):
		return "", errors.New("telegram users must authenticate")
	}
	return userID, nil
}

// GetUserID returns the id set by Identify.
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

type telegramAuthRequest struct {
	InitData string `json:"initData" binding:"required"`
}

// handleTelegramAuth exchanges Mini-App init data for a token.
func (s *Server) handleTelegramAuth(c *gin.Context) {
	var req telegramAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	now := s.now()
	user, err := signing.ValidateInitData(req.InitData, s.cfg.Telegram.BotToken, s.cfg.Telegram.InitDataMaxAge, now)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid init data"})
		return
	}
	token, expiresAt, err := GenerateToken(user.UserID(), s.secret(), s.cfg.Auth.TokenTTL, now)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": expiresAt.UTC().Format(time.RFC3339),
		"userId":    user.UserID(),
	})
}
