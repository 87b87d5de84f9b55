package handlers

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/practice-service/internal/auth"
	"github.com/SAP-F-2025/practice-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const contextKeyIdentity = "identity"

// AuthMiddleware requires a valid bearer token and stores the caller's
// identity under "identity", "user_id" and "user_role".
func AuthMiddleware(verifier auth.TokenVerifier, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "Not authenticated")
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			utils.GetLoggerFromContext(c, logger).Warn("Rejected bearer token", "error", err)
			abortUnauthorized(c, "Could not validate credentials")
			return
		}

		c.Set(contextKeyIdentity, identity)
		c.Set(contextKeyUserID, identity.UserID)
		c.Set(contextKeyUserRole, string(identity.Role))
		c.Next()
	}
}

// AdminMiddleware rejects callers without the admin role. It must run after
// AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, _ := c.Get(contextKeyIdentity)
		identity, ok := value.(*auth.Identity)
		if !ok || !identity.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "Forbidden - insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Message: message,
	})
}
