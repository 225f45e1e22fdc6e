package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/temirov/GAuss/pkg/constants"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/auth"
	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/httpapi"
)

const (
	publicRouteSubmitTestimonial = "/api/testimonials"
	publicRouteEmbedScript       = "/embed/:widget_id"
	publicRoutePreviewPage       = "/preview/:widget_id"
	publicRouteMetrics           = "/metrics"

	apiRoutePrefix           = "/api"
	apiRouteMe               = "/me"
	apiRouteForms            = "/forms"
	apiRouteFormByID         = "/forms/:id"
	apiRouteFormTestimonials = "/forms/:id/testimonials"
	apiRouteTestimonialByID  = "/testimonials/:id"
	apiRouteTestimonialsBulk = "/testimonials/bulk"
	apiRouteWidgets          = "/widgets"
	apiRouteWidgetByID       = "/widgets/:id"
	apiRouteWidgetPreview    = "/widgets/:id/preview"
	corsOriginWildcard       = "*"
	corsHeaderAuthorization  = "Authorization"
	corsHeaderContentType    = "Content-Type"
	corsMaxAgeHours          = 12
	submissionRequestsPerSec = 1.0
	submissionBurst          = 5
	httpMethodGet            = "GET"
	httpMethodPost           = "POST"
	httpMethodPatch          = "PATCH"
	httpMethodDelete         = "DELETE"
	httpMethodOptions        = "OPTIONS"
)

var (
	corsAllowedMethods = []string{httpMethodGet, httpMethodPost, httpMethodPatch, httpMethodDelete, httpMethodOptions}
	corsAllowedHeaders = []string{corsHeaderAuthorization, corsHeaderContentType}
	corsExposedHeaders = []string{corsHeaderContentType}
)

type routeDependencies struct {
	database      *gorm.DB
	logger        *zap.Logger
	authManager   *httpapi.AuthManager
	authHandlers  *auth.Handlers
	publicBaseURL string
}

func registerRoutes(router *gin.Engine, dependencies routeDependencies) {
	registerAuthRoutes(router, dependencies.authHandlers)
	registerPublicRoutes(router, dependencies)
	registerDashboardRoutes(router, dependencies)
}

func registerAuthRoutes(router *gin.Engine, authHandlers *auth.Handlers) {
	authMux := http.NewServeMux()
	authHandlers.RegisterRoutes(authMux)

	wrapped := gin.WrapH(authMux)
	router.Any(constants.LoginPath, wrapped)
	router.Any(constants.GoogleAuthPath, wrapped)
	router.Any(constants.CallbackPath, wrapped)
	router.Any(constants.LogoutPath, wrapped)
}

func registerPublicRoutes(router *gin.Engine, dependencies routeDependencies) {
	publicHandlers := httpapi.NewPublicHandlers(dependencies.database, dependencies.logger)
	previewHandlers := httpapi.NewPreviewHandlers(dependencies.database, dependencies.logger)
	submissionLimiter := httpapi.NewSubmissionRateLimiter(submissionRequestsPerSec, submissionBurst)

	publicCORS := cors.New(cors.Config{
		AllowOrigins:     []string{corsOriginWildcard},
		AllowMethods:     corsAllowedMethods,
		AllowHeaders:     corsAllowedHeaders,
		ExposeHeaders:    corsExposedHeaders,
		AllowCredentials: false,
		MaxAge:           corsMaxAgeHours * time.Hour,
	})

	publicGroup := router.Group("/")
	publicGroup.Use(publicCORS)
	publicGroup.POST(publicRouteSubmitTestimonial, submissionLimiter.Middleware(), publicHandlers.SubmitTestimonial)
	publicGroup.GET(publicRouteEmbedScript, publicHandlers.EmbedScript)
	publicGroup.GET(publicRoutePreviewPage, previewHandlers.RenderPreviewPage)

	router.GET(publicRouteMetrics, httpapi.MetricsHandler())
}

func registerDashboardRoutes(router *gin.Engine, dependencies routeDependencies) {
	dashboardHandlers := httpapi.NewDashboardHandlers(dependencies.database, dependencies.logger, dependencies.publicBaseURL)
	previewHandlers := httpapi.NewPreviewHandlers(dependencies.database, dependencies.logger)

	apiGroup := router.Group(apiRoutePrefix)
	apiGroup.Use(cors.New(cors.Config{
		AllowOrigins:     []string{dependencies.publicBaseURL},
		AllowMethods:     corsAllowedMethods,
		AllowHeaders:     corsAllowedHeaders,
		ExposeHeaders:    corsExposedHeaders,
		AllowCredentials: true,
		MaxAge:           corsMaxAgeHours * time.Hour,
	}))
	apiGroup.Use(dependencies.authManager.RequireAuthenticatedJSON())

	apiGroup.GET(apiRouteMe, dashboardHandlers.CurrentUser)

	apiGroup.POST(apiRouteForms, dashboardHandlers.CreateForm)
	apiGroup.GET(apiRouteForms, dashboardHandlers.ListForms)
	apiGroup.PATCH(apiRouteFormByID, dashboardHandlers.UpdateForm)
	apiGroup.DELETE(apiRouteFormByID, dashboardHandlers.DeleteForm)
	apiGroup.GET(apiRouteFormTestimonials, dashboardHandlers.ListTestimonialsByForm)

	apiGroup.PATCH(apiRouteTestimonialByID, dashboardHandlers.ModerateTestimonial)
	apiGroup.DELETE(apiRouteTestimonialByID, dashboardHandlers.DeleteTestimonial)
	apiGroup.POST(apiRouteTestimonialsBulk, dashboardHandlers.BulkModerateTestimonials)

	apiGroup.POST(apiRouteWidgets, dashboardHandlers.CreateWidget)
	apiGroup.GET(apiRouteWidgets, dashboardHandlers.ListWidgets)
	apiGroup.GET(apiRouteWidgetByID, dashboardHandlers.GetWidget)
	apiGroup.PATCH(apiRouteWidgetByID, dashboardHandlers.UpdateWidget)
	apiGroup.DELETE(apiRouteWidgetByID, dashboardHandlers.DeleteWidget)
	apiGroup.GET(apiRouteWidgetPreview, previewHandlers.WidgetPreviewFragment)
}
