package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/temirov/GAuss/pkg/constants"
	"github.com/temirov/GAuss/pkg/session"
	"go.uber.org/zap"
)

const (
	contextKeyCurrentUser = "httpapi_current_user"
	authErrorUnauthorized = "unauthorized"
	logEventLoadSession   = "load_session"
)

// CurrentUser describes the authenticated dashboard user resolved from the
// session cookie.
type CurrentUser struct {
	Email      string
	Name       string
	PictureURL string
}

func (currentUser *CurrentUser) normalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(currentUser.Email))
}

// AuthManager resolves the current user from the GAuss session store and
// guards authenticated routes.
type AuthManager struct {
	logger       *zap.Logger
	sessionStore *sessions.CookieStore
}

// NewAuthManager creates an AuthManager backed by the shared session store.
func NewAuthManager(logger *zap.Logger) *AuthManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthManager{
		logger:       logger,
		sessionStore: session.Store(),
	}
}

// RequireAuthenticatedJSON rejects unauthenticated API requests with a JSON error.
func (authManager *AuthManager) RequireAuthenticatedJSON() gin.HandlerFunc {
	return func(context *gin.Context) {
		if _, ok := authManager.ensureUser(context); !ok {
			context.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
			return
		}
		context.Next()
	}
}

// RequireAuthenticatedWeb redirects unauthenticated page requests to login.
func (authManager *AuthManager) RequireAuthenticatedWeb() gin.HandlerFunc {
	return func(context *gin.Context) {
		if _, ok := authManager.ensureUser(context); !ok {
			context.Redirect(http.StatusFound, constants.LoginPath)
			context.Abort()
			return
		}
		context.Next()
	}
}

// CurrentUserFromContext returns the user attached to the request, if any.
func CurrentUserFromContext(context *gin.Context) (*CurrentUser, bool) {
	value, exists := context.Get(contextKeyCurrentUser)
	if !exists {
		return nil, false
	}
	currentUser, ok := value.(*CurrentUser)
	return currentUser, ok
}

// SetCurrentUserForTesting attaches a user to the request context so handler
// tests can bypass the session store.
func SetCurrentUserForTesting(context *gin.Context, currentUser *CurrentUser) {
	context.Set(contextKeyCurrentUser, currentUser)
}

func (authManager *AuthManager) ensureUser(context *gin.Context) (*CurrentUser, bool) {
	if currentUser, exists := CurrentUserFromContext(context); exists {
		return currentUser, true
	}

	sessionInstance, sessionErr := authManager.sessionStore.Get(context.Request, constants.SessionName)
	if sessionErr != nil {
		authManager.logger.Warn(logEventLoadSession, zap.Error(sessionErr))
		return nil, false
	}

	email := extractString(sessionInstance.Values[constants.SessionKeyUserEmail])
	if email == "" {
		return nil, false
	}

	currentUser := &CurrentUser{
		Email:      email,
		Name:       extractString(sessionInstance.Values[constants.SessionKeyUserName]),
		PictureURL: extractString(sessionInstance.Values[constants.SessionKeyUserPicture]),
	}

	context.Set(contextKeyCurrentUser, currentUser)
	return currentUser, true
}

func extractString(value interface{}) string {
	text, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(text)
}
