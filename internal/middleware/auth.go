package middleware

import (
	"strings"

	"github.com/fauzanhakim/ratebase/internal/entity"
	userRepo "github.com/fauzanhakim/ratebase/internal/modules/user/repository"
	"github.com/fauzanhakim/ratebase/internal/permission"
	"github.com/fauzanhakim/ratebase/internal/token"
	"github.com/fauzanhakim/ratebase/pkg/apperror"
	"github.com/fauzanhakim/ratebase/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const currentUserKey = "current_user"

type AuthMiddleware struct {
	users  userRepo.UserRepository
	issuer *token.Issuer
}

func NewAuthMiddleware(users userRepo.UserRepository, issuer *token.Issuer) *AuthMiddleware {
	return &AuthMiddleware{users: users, issuer: issuer}
}

// Identify resolves the bearer token, if any, into the current user. The
// user row is re-read on every request so role changes apply immediately.
// Requests without credentials continue anonymously; requests with bad
// credentials are rejected.
func (m *AuthMiddleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Error(c, apperror.New(401, "invalid authorization header", apperror.ErrUnauthorized))
			c.Abort()
			return
		}

		userID, err := m.issuer.Parse(parts[1])
		if err != nil {
			response.Error(c, apperror.New(401, "invalid or expired token", apperror.ErrUnauthorized))
			c.Abort()
			return
		}

		user, err := m.users.FindByID(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, apperror.New(401, "user not found", apperror.ErrUnauthorized))
			c.Abort()
			return
		}

		c.Set("user_id", user.ID.String())
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireAuth aborts anonymous requests.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			response.Error(c, apperror.New(401, "authentication required", apperror.ErrUnauthorized))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Require evaluates route-level policies against the current actor.
// Object-level ownership checks run later, in the services, once the
// resource has been loaded.
func (m *AuthMiddleware) Require(policies ...permission.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := permission.Evaluate(Actor(c), c.Request.Method, uuid.Nil, policies...); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user resolved by Identify.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*entity.User)
	return user, ok
}

// Actor builds the permission actor for the request.
func Actor(c *gin.Context) permission.Actor {
	user, ok := CurrentUser(c)
	if !ok {
		return permission.AnonymousActor
	}
	return permission.ActorFor(user)
}
