package middleware

import (
  "fmt"
  "net/http"
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "github.com/yungbote/fincoach-backend/internal/logger"
  "github.com/yungbote/fincoach-backend/internal/requestdata"
)

type AuthMiddleware struct {
  log    *logger.Logger
  secret []byte
}

func NewAuthMiddleware(log *logger.Logger, secret string) *AuthMiddleware {
  middlewareLogger := log.With("Middleware", "AuthMiddleware")
  return &AuthMiddleware{log: middlewareLogger, secret: []byte(secret)}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    tokenString := extractToken(c)
    if tokenString == "" {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }
    userID, err := am.parseSubject(tokenString)
    if err != nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
      return
    }
    ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
      TokenString: tokenString,
      UserID:      userID,
    })
    c.Request = c.Request.WithContext(ctx)
    c.Next()
  }
}

func (am *AuthMiddleware) parseSubject(tokenString string) (uuid.UUID, error) {
  token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
    }
    return am.secret, nil
  })
  if err != nil || !token.Valid {
    return uuid.Nil, fmt.Errorf("invalid token")
  }
  subject, err := token.Claims.GetSubject()
  if err != nil || subject == "" {
    return uuid.Nil, fmt.Errorf("token missing subject")
  }
  userID, err := uuid.Parse(subject)
  if err != nil {
    return uuid.Nil, fmt.Errorf("token subject is not a user id")
  }
  return userID, nil
}

func extractToken(c *gin.Context) string {
  authHeader := c.GetHeader("Authorization")
  if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
    return authHeader[7:]
  }
  if qToken := c.Query("token"); qToken != "" {
    return qToken
  }
  return ""
}
