package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/services"
	"github.com/aithenode/booking-service/internal/utils"
)

const actorContextKey = "actor"

// SetupMiddleware sets up common middleware for the Gin router
func SetupMiddleware(router *gin.Engine, logger utils.Logger) {
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware())
	router.Use(gin.Recovery())
	router.Use(utils.ContextLogger(logger))
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(SecurityMiddleware())
}

// IdentityMiddleware resolves the acting identity from trusted gateway
// headers. Authentication happens upstream; this service only consumes the
// result.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawID := c.GetHeader("X-User-ID")
		if rawID == "" {
			c.Next()
			return
		}

		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid X-User-ID header",
			})
			return
		}

		role := models.UserRole(c.GetHeader("X-User-Role"))
		if !role.Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid X-User-Role header",
			})
			return
		}

		c.Set(actorContextKey, services.Actor{UserID: userID, Role: role})
		c.Next()
	}
}

// RequireActor rejects requests that arrived without an identity.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(actorContextKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
			})
			return
		}
		c.Next()
	}
}

// actorFrom returns the identity set by IdentityMiddleware. Routes guarded by
// RequireActor always have one.
func actorFrom(c *gin.Context) services.Actor {
	value, _ := c.Get(actorContextKey)
	actor, _ := value.(services.Actor)
	return actor
}

// RequestIDMiddleware generates a unique request ID for each request
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}

// CORSMiddleware provides CORS support
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, X-User-ID, X-User-Role")
		c.Header("Access-Control-Expose-Headers", "Content-Length")
		c.Header("Access-Control-Max-Age", "43200")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SecurityMiddleware adds security headers
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}
