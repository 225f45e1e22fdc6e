package auth

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/temirov/GAuss/pkg/constants"
	"github.com/temirov/GAuss/pkg/gauss"
	"go.uber.org/zap"
)

const (
	forwardedHeaderName       = "Forwarded"
	forwardedProtoHeaderName  = "X-Forwarded-Proto"
	forwardedHostHeaderName   = "X-Forwarded-Host"
	forwardedProtoDirective   = "proto="
	forwardedHostDirective    = "host="
	schemeHTTPS               = "https"
	logEventBuildOAuthService = "build_oauth_service"
)

// Config carries the Google OAuth settings used to build login handlers.
type Config struct {
	GoogleClientID     string
	GoogleClientSecret string
	PublicBaseURL      string
	LocalRedirectPath  string
	Scopes             []string
	LoginTemplate      string
	Logger             *zap.Logger
}

// Handlers serves the Google OAuth login flow. The OAuth callback URL must
// match the host the browser used, so when the service sits behind a proxy the
// handlers are rebuilt per observed base URL and cached.
type Handlers struct {
	configuration Config
	configuredURL *url.URL
	fallback      *gauss.Handlers
	fallbackMux   *http.ServeMux
	cache         map[string]*gauss.Handlers
	cacheMutex    sync.RWMutex
	logger        *zap.Logger
}

// NewHandlers builds the OAuth handler set from the provided configuration.
func NewHandlers(configuration Config) (*Handlers, error) {
	logger := configuration.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	configuredURL, parseErr := url.Parse(configuration.PublicBaseURL)
	if parseErr != nil {
		return nil, fmt.Errorf("parse public base url: %w", parseErr)
	}

	fallbackHandlers, buildErr := buildGaussHandlers(configuration, configuration.PublicBaseURL)
	if buildErr != nil {
		return nil, buildErr
	}

	fallbackMux := http.NewServeMux()
	fallbackHandlers.RegisterRoutes(fallbackMux)

	return &Handlers{
		configuration: configuration,
		configuredURL: configuredURL,
		fallback:      fallbackHandlers,
		fallbackMux:   fallbackMux,
		cache:         make(map[string]*gauss.Handlers),
		logger:        logger,
	}, nil
}

// RegisterRoutes attaches login, callback, and logout endpoints to the mux.
func (handlers *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc(constants.LoginPath, func(responseWriter http.ResponseWriter, request *http.Request) {
		handlers.fallbackMux.ServeHTTP(responseWriter, request)
	})
	mux.HandleFunc(constants.GoogleAuthPath, handlers.handleLogin)
	mux.HandleFunc(constants.CallbackPath, handlers.handleCallback)
	mux.HandleFunc(constants.LogoutPath, handlers.fallback.Logout)
}

func (handlers *Handlers) handleLogin(responseWriter http.ResponseWriter, request *http.Request) {
	requestHandlers, resolveErr := handlers.handlersForRequest(request)
	if resolveErr != nil {
		handlers.logger.Warn(logEventBuildOAuthService, zap.Error(resolveErr))
		http.Error(responseWriter, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	requestHandlers.Login(responseWriter, request)
}

func (handlers *Handlers) handleCallback(responseWriter http.ResponseWriter, request *http.Request) {
	requestHandlers, resolveErr := handlers.handlersForRequest(request)
	if resolveErr != nil {
		handlers.logger.Warn(logEventBuildOAuthService, zap.Error(resolveErr))
		http.Error(responseWriter, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	requestHandlers.Callback(responseWriter, request)
}

func (handlers *Handlers) handlersForRequest(request *http.Request) (*gauss.Handlers, error) {
	baseURL := handlers.baseURLForRequest(request)
	if baseURL == "" {
		return handlers.fallback, nil
	}

	handlers.cacheMutex.RLock()
	cached := handlers.cache[baseURL]
	handlers.cacheMutex.RUnlock()
	if cached != nil {
		return cached, nil
	}

	handlers.cacheMutex.Lock()
	defer handlers.cacheMutex.Unlock()
	if cached = handlers.cache[baseURL]; cached != nil {
		return cached, nil
	}

	built, buildErr := buildGaussHandlers(handlers.configuration, baseURL)
	if buildErr != nil {
		return nil, buildErr
	}
	handlers.cache[baseURL] = built
	return built, nil
}

func (handlers *Handlers) baseURLForRequest(request *http.Request) string {
	host := handlers.requestHost(request)
	if host == "" {
		return ""
	}

	resolvedURL := *handlers.configuredURL
	resolvedURL.Scheme = handlers.requestScheme(request)
	resolvedURL.Host = host
	return resolvedURL.String()
}

func (handlers *Handlers) requestScheme(request *http.Request) string {
	if proto := forwardedDirective(request.Header.Get(forwardedHeaderName), forwardedProtoDirective); proto != "" {
		return strings.ToLower(proto)
	}
	if proto := firstCommaSeparatedValue(request.Header.Get(forwardedProtoHeaderName)); proto != "" {
		return strings.ToLower(proto)
	}
	if request.TLS != nil {
		return schemeHTTPS
	}
	if handlers.configuredURL.Scheme != "" {
		return strings.ToLower(handlers.configuredURL.Scheme)
	}
	return schemeHTTPS
}

func (handlers *Handlers) requestHost(request *http.Request) string {
	if host := forwardedDirective(request.Header.Get(forwardedHeaderName), forwardedHostDirective); host != "" {
		return host
	}
	if host := firstCommaSeparatedValue(request.Header.Get(forwardedHostHeaderName)); host != "" {
		return host
	}
	if request.Host != "" {
		return request.Host
	}
	return handlers.configuredURL.Host
}

func buildGaussHandlers(configuration Config, baseURL string) (*gauss.Handlers, error) {
	serviceInstance, serviceErr := gauss.NewService(
		configuration.GoogleClientID,
		configuration.GoogleClientSecret,
		baseURL,
		configuration.LocalRedirectPath,
		configuration.Scopes,
		configuration.LoginTemplate,
	)
	if serviceErr != nil {
		return nil, fmt.Errorf("create oauth service: %w", serviceErr)
	}

	gaussHandlers, handlersErr := gauss.NewHandlers(serviceInstance)
	if handlersErr != nil {
		return nil, fmt.Errorf("create oauth handlers: %w", handlersErr)
	}
	return gaussHandlers, nil
}

func firstCommaSeparatedValue(rawValue string) string {
	for _, segment := range strings.Split(rawValue, ",") {
		if trimmed := strings.TrimSpace(segment); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func forwardedDirective(headerValue string, directivePrefix string) string {
	for _, element := range strings.Split(headerValue, ",") {
		for _, pair := range strings.Split(element, ";") {
			trimmedPair := strings.TrimSpace(pair)
			if !strings.HasPrefix(strings.ToLower(trimmedPair), directivePrefix) {
				continue
			}
			value := strings.Trim(strings.TrimSpace(trimmedPair[len(directivePrefix):]), "\"")
			if value != "" {
				return value
			}
		}
	}
	return ""
}
