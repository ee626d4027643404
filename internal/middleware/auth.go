package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"furnimarket/internal/orders"
)

// AuthGuard validates bearer tokens and restricts the route to the given
// roles. On success the acting (role, actorId) pair is injected into the
// context; handlers trust it from there.
func AuthGuard(secret string, allowedRoles ...orders.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			log.Println("[AUTH] [ERROR] missing token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			log.Println("[AUTH] [ERROR] invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			log.Println("[AUTH] [ERROR] token claims invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		subject, _ := claims["sub"].(string)
		actorID, err := primitive.ObjectIDFromHex(strings.TrimSpace(subject))
		if err != nil {
			log.Println("[AUTH] [ERROR] invalid sub claim")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		roleClaim, _ := claims["role"].(string)
		role, err := orders.ParseRole(roleClaim)
		if err != nil {
			log.Println("[AUTH] [ERROR] invalid role claim:", roleClaim)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if len(allowedRoles) > 0 {
			match := false
			for _, allowed := range allowedRoles {
				if role == allowed {
					match = true
					break
				}
			}
			if !match {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
				return
			}
		}

		c.Set("actorId", actorID)
		c.Set("role", role)
		c.Next()
	}
}

// ActorID reads the authenticated actor id injected by AuthGuard.
func ActorID(c *gin.Context) (primitive.ObjectID, bool) {
	value, ok := c.Get("actorId")
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}

// ActorRole reads the authenticated role injected by AuthGuard.
func ActorRole(c *gin.Context) (orders.Role, bool) {
	value, ok := c.Get("role")
	if !ok {
		return "", false
	}
	role, ok := value.(orders.Role)
	return role, ok
}
