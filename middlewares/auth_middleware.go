package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/VitalijsFilipovs/booking-bot/services"
	"github.com/VitalijsFilipovs/booking-bot/utils"
	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// AuthMiddleware accepts a bearer token, or a token query parameter for
// websocket clients that cannot set headers, and lets staff through.
// The caller is stored as a services.Actor.
func AuthMiddleware(issuer *utils.TokenIssuer, authz *services.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			utils.RespondErrorCode(c, http.StatusUnauthorized, "unauthorized", errors.New("authorization header missing"))
			return
		}

		claims, err := issuer.Parse(tokenString)
		if err != nil {
			utils.RespondErrorCode(c, http.StatusUnauthorized, "unauthorized", err)
			return
		}
		if !authz.IsStaff(claims.UserID) {
			utils.RespondErrorCode(c, http.StatusForbidden, "forbidden", services.ErrUnauthorized)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set(actorKey, services.ConsoleActor(claims.UserID))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if strings.HasPrefix(header, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}
		return ""
	}
	return c.Query("token")
}

// ActorFrom returns the actor stored by AuthMiddleware. Without one the
// zero Actor is returned, which no authorization check accepts.
func ActorFrom(c *gin.Context) services.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(services.Actor); ok {
			return actor
		}
	}
	return services.Actor{}
}
