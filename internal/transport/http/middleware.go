package httptransport

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"studenthub-server-go/internal/domain/auth"
	"studenthub-server-go/internal/domain/auth/denylist"
	"studenthub-server-go/internal/platform/errors"
	"studenthub-server-go/internal/platform/logging"
	"studenthub-server-go/internal/platform/metrics"
)

// ClaimsContextKey is where the auth middleware stores verified claims in the
// gin context.
const ClaimsContextKey = "auth_claims"

const bearerPrefix = "Bearer "

// Messages for token extraction failures. These name the exact problem:
// unlike login failures, the shape of a malformed Authorization header is
// nothing an attacker learns from.
const (
	msgNoHeader      = "No authorization header found"
	msgBadHeader     = "Invalid authorization header"
	msgBadScheme     = "Invalid authorization scheme"
	msgEmptyToken    = "Empty token"
	msgInvalidToken  = "Invalid token"
	msgServerConfig  = "Server configuration error"
	msgInternalError = "Internal server error"
)

// JWTAuth verifies the Bearer token on every request and attaches the
// decoded claims to the context. Verification failures collapse into one
// generic message; a missing server secret is reported as a server fault,
// never a client one.
func JWTAuth(codec *auth.TokenCodec, revoked denylist.Store, logger *logging.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logging.Discard()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			metrics.AuthFailureCounter.WithLabelValues(metrics.ReasonToken).Inc()
			AbortError(c, http.StatusUnauthorized, msgNoHeader)
			return
		}
		if !utf8.ValidString(header) {
			metrics.AuthFailureCounter.WithLabelValues(metrics.ReasonToken).Inc()
			AbortError(c, http.StatusUnauthorized, msgBadHeader)
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			metrics.AuthFailureCounter.WithLabelValues(metrics.ReasonToken).Inc()
			AbortError(c, http.StatusUnauthorized, msgBadScheme)
			return
		}
		token := strings.TrimSpace(header[len(bearerPrefix):])
		if token == "" {
			metrics.AuthFailureCounter.WithLabelValues(metrics.ReasonToken).Inc()
			AbortError(c, http.StatusUnauthorized, msgEmptyToken)
			return
		}

		claims, err := codec.Verify(token)
		if err != nil {
			if errors.IsKind(err, errors.KindConfig) {
				logger.ErrorTag("AUTH", "token verification unavailable: %v", err)
				metrics.AuthFailureCounter.WithLabelValues(metrics.ReasonConfig).Inc()
				AbortError(c, http.StatusInternalServerError, msgServerConfig)
				return
			}
			metrics.AuthFailureCounter.WithLabelValues(metrics.ReasonToken).Inc()
			AbortError(c, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		if revoked != nil && claims.ID != "" {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				logger.ErrorTag("AUTH", "denylist lookup failed: %v", err)
				AbortError(c, http.StatusInternalServerError, msgInternalError)
				return
			}
			if isRevoked {
				metrics.AuthFailureCounter.WithLabelValues(metrics.ReasonToken).Inc()
				AbortError(c, http.StatusUnauthorized, msgInvalidToken)
				return
			}
		}

		c.Set(ClaimsContextKey, claims)
		c.Next()
	}
}

// RequireRole gates a route group to one role name. It must run after
// JWTAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			AbortError(c, http.StatusUnauthorized, msgInvalidToken)
			return
		}
		if claims.Role != role {
			AbortError(c, http.StatusForbidden, "Insufficient permissions")
			return
		}
		c.Next()
	}
}

// ClaimsFrom extracts the verified claims placed by JWTAuth.
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(ClaimsContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}
