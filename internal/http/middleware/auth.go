package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/http/response"
	"github.com/yungbote/classroom-backend/internal/platform/ctxutil"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/services"
)

// Claims are the fields read from a hosted-auth access token.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	log         *logger.Logger
	secret      []byte
	issuer      string
	userService services.UserService
}

func NewAuthMiddleware(log *logger.Logger, secret, issuer string, userService services.UserService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{
		log:         middlewareLogger,
		secret:      []byte(secret),
		issuer:      strings.TrimSpace(issuer),
		userService: userService,
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			c.Abort()
			return
		}
		rd, err := am.Verify(tokenString)
		if err != nil {
			am.log.Debug("Token rejected", "error", err)
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

// Verify checks an HS256 token and returns the identity it carries.
func (am *AuthMiddleware) Verify(tokenString string) (*ctxutil.RequestData, error) {
	if len(am.secret) == 0 {
		return nil, errors.New("token verification is not configured")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if am.issuer != "" {
		opts = append(opts, jwt.WithIssuer(am.issuer))
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return am.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return nil, errors.New("invalid token subject")
	}
	return &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		Email:       claims.Email,
		Name:        claims.Name,
	}, nil
}

// RequireRole admits callers holding any of roles. Roles are read fresh so a
// role change applies to the next request.
func (am *AuthMiddleware) RequireRole(roles ...types.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		me, err := am.userService.Me(c.Request.Context())
		if err != nil {
			response.RespondServiceError(c, "role_lookup_failed", err)
			c.Abort()
			return
		}
		if !types.HasRole(me.Roles, roles...) {
			response.RespondError(c, http.StatusForbidden, "forbidden", errors.New("insufficient role"))
			c.Abort()
			return
		}
		c.Set(rolesKey, me.Roles)
		c.Next()
	}
}

const rolesKey = "caller_roles"

// CallerRoles returns roles stored by RequireRole, if it ran.
func CallerRoles(c *gin.Context) []types.Role {
	if v, ok := c.Get(rolesKey); ok {
		if roles, ok := v.([]types.Role); ok {
			return roles
		}
	}
	return nil
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
