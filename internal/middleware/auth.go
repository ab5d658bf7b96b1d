package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token claims understood by the API. The subject is the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens. roleClaim values listed in
// reviewerRoles are treated as reviewers regardless of their spelling in the token.
func AuthMiddleware(jwtSecret, issuer string, reviewerRoles []string) gin.HandlerFunc {
	reviewerSet := make(map[string]struct{}, len(reviewerRoles))
	for _, r := range reviewerRoles {
		reviewerSet[strings.ToUpper(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
		if issuer != "" {
			opts = append(opts, jwt.WithIssuer(issuer))
		}
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		}, opts...)
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}
		if !token.Valid || claims.Subject == "" {
			logger.Warn("Invalid token claims or token is not valid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		role := roleFromClaim(claims.Role, reviewerSet)
		ctx := WithActor(c.Request.Context(), domain.Actor{UserID: claims.Subject, Role: role})
		enrichedLogger := logger.With(slog.String("user_id", claims.Subject), slog.String("role", string(role)))
		c.Request = c.Request.WithContext(WithLogger(ctx, enrichedLogger))

		c.Next()
	}
}

func roleFromClaim(claim string, reviewerSet map[string]struct{}) domain.ActorRole {
	role := domain.ActorRole(strings.ToUpper(strings.TrimSpace(claim)))
	switch role {
	case domain.ActorAdmin, domain.ActorReviewer, domain.ActorAgent, domain.ActorStaff, domain.ActorApplicant:
	default:
		role = domain.ActorApplicant
	}
	if _, ok := reviewerSet[strings.ToUpper(strings.TrimSpace(claim))]; ok && role != domain.ActorAdmin {
		role = domain.ActorReviewer
	}
	return role
}

// RequireReviewer aborts with 403 unless the authenticated actor is a reviewer.
func RequireReviewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActorFromContext(c)
		if !ok || !actor.IsReviewer() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "reviewer role required"})
			return
		}
		c.Next()
	}
}
