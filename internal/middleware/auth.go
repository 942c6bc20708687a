package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/apierror"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	ClaimsKey = "claims"
	// UserPayloadHeader carries the verified token payload to downstream handlers.
	UserPayloadHeader = "X-User-Payload"
)

// SessionGate requires a valid AccessToken cookie on every request whose
// method and path match table. Unmatched requests pass through untouched.
func SessionGate(table *RouteTable, codec *auth.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only the gate may set the payload header.
		c.Request.Header.Del(UserPayloadHeader)
		if !table.Match(c.Request.Method, c.Request.URL.Path) {
			c.Next()
			return
		}

		token, err := c.Cookie(auth.AccessCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("access token is missing"))
			return
		}

		claims, err := codec.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("invalid access token"))
			return
		}

		if payload, err := json.Marshal(claims); err == nil {
			c.Request.Header.Set(UserPayloadHeader, string(payload))
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// GetClaims returns the verified claims, or nil on an ungated route.
func GetClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// ActorID is the signed-in user's id, used as a movement's created_by.
func ActorID(c *gin.Context) *int64 {
	claims := GetClaims(c)
	if claims == nil {
		return nil
	}
	id := claims.UserID
	return &id
}
