package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/temirov/GAuss/pkg/session"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/httpapi"
	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/model"
	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/storage"
	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/testutil"
)

const (
	testSessionSecret   = "12345678901234567890123456789012"
	testOwnerEmail      = "owner@example.com"
	testIntruderEmail   = "intruder@example.com"
	testEmbedBaseURL    = "https://testimonials.example.com"
	testJSONContentType = "application/json"
)

type apiHarness struct {
	router   *gin.Engine
	database *gorm.DB
}

// buildAPIHarness wires the full route surface against an in-memory database.
// When authenticatedUser is non-nil every request runs as that user; the auth
// middleware stays in place so unauthenticated paths are still exercised.
func buildAPIHarness(testingT *testing.T, authenticatedUser *httpapi.CurrentUser) apiHarness {
	testingT.Helper()

	session.NewSession([]byte(testSessionSecret))
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	sqliteDatabase := testutil.NewSQLiteTestDatabase(testingT)
	database, openErr := storage.OpenDatabase(sqliteDatabase.Configuration())
	require.NoError(testingT, openErr)
	database = testutil.ConfigureDatabaseLogger(testingT, database)
	require.NoError(testingT, storage.AutoMigrate(database))

	authManager := httpapi.NewAuthManager(logger)
	publicHandlers := httpapi.NewPublicHandlers(database, logger)
	previewHandlers := httpapi.NewPreviewHandlers(database, logger)
	dashboardHandlers := httpapi.NewDashboardHandlers(database, logger, testEmbedBaseURL)

	router := gin.New()
	router.Use(gin.Recovery())
	if authenticatedUser != nil {
		router.Use(func(context *gin.Context) {
			httpapi.SetCurrentUserForTesting(context, authenticatedUser)
			context.Next()
		})
	}

	router.POST("/api/testimonials", publicHandlers.SubmitTestimonial)
	router.GET("/embed/:widget_id", publicHandlers.EmbedScript)
	router.GET("/preview/:widget_id", previewHandlers.RenderPreviewPage)

	apiGroup := router.Group("/api")
	apiGroup.Use(authManager.RequireAuthenticatedJSON())
	apiGroup.GET("/me", dashboardHandlers.CurrentUser)
	apiGroup.POST("/forms", dashboardHandlers.CreateForm)
	apiGroup.GET("/forms", dashboardHandlers.ListForms)
	apiGroup.PATCH("/forms/:id", dashboardHandlers.UpdateForm)
	apiGroup.DELETE("/forms/:id", dashboardHandlers.DeleteForm)
	apiGroup.GET("/forms/:id/testimonials", dashboardHandlers.ListTestimonialsByForm)
	apiGroup.PATCH("/testimonials/:id", dashboardHandlers.ModerateTestimonial)
	apiGroup.DELETE("/testimonials/:id", dashboardHandlers.DeleteTestimonial)
	apiGroup.POST("/testimonials/bulk", dashboardHandlers.BulkModerateTestimonials)
	apiGroup.POST("/widgets", dashboardHandlers.CreateWidget)
	apiGroup.GET("/widgets", dashboardHandlers.ListWidgets)
	apiGroup.GET("/widgets/:id", dashboardHandlers.GetWidget)
	apiGroup.PATCH("/widgets/:id", dashboardHandlers.UpdateWidget)
	apiGroup.DELETE("/widgets/:id", dashboardHandlers.DeleteWidget)
	apiGroup.GET("/widgets/:id/preview", previewHandlers.WidgetPreviewFragment)

	return apiHarness{router: router, database: database}
}

func testDashboardUser() *httpapi.CurrentUser {
	return &httpapi.CurrentUser{Email: testOwnerEmail, Name: "Owner Example"}
}

func performJSONRequest(testingT *testing.T, router *gin.Engine, method string, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	testingT.Helper()

	var requestBody io.Reader
	if body != nil {
		encoded, encodeErr := json.Marshal(body)
		require.NoError(testingT, encodeErr)
		requestBody = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, path, requestBody)
	for name, value := range headers {
		request.Header.Set(name, value)
	}
	if body != nil {
		request.Header.Set("Content-Type", testJSONContentType)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func decodeJSONBody(testingT *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	testingT.Helper()

	var decoded map[string]any
	require.NoError(testingT, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	return decoded
}

func insertForm(testingT *testing.T, database *gorm.DB, ownerEmail string, autoApprove bool) model.Form {
	testingT.Helper()

	form, buildErr := model.NewForm(model.FormInput{
		OwnerEmail:  ownerEmail,
		Name:        "Collection Form",
		Title:       "Share your experience",
		AutoApprove: autoApprove,
	})
	require.NoError(testingT, buildErr)
	require.NoError(testingT, database.Create(&form).Error)
	return form
}

func insertTestimonial(testingT *testing.T, database *gorm.DB, form model.Form, status string, mutate func(*model.TestimonialInput)) model.Testimonial {
	testingT.Helper()

	input := model.TestimonialInput{
		FormID:       form.ID,
		OwnerEmail:   form.OwnerEmail,
		CustomerName: "Jane Doe",
		Content:      "Exactly what our team needed.",
		Status:       status,
		SubmittedAt:  time.Now().UTC(),
	}
	if mutate != nil {
		mutate(&input)
	}

	testimonial, buildErr := model.NewTestimonial(input)
	require.NoError(testingT, buildErr)
	require.NoError(testingT, database.Create(&testimonial).Error)
	return testimonial
}

func insertWidget(testingT *testing.T, database *gorm.DB, ownerEmail string, widgetType string, mutate func(*model.WidgetInput)) model.Widget {
	testingT.Helper()

	input := model.WidgetInput{
		OwnerEmail: ownerEmail,
		Name:       "Homepage Widget",
		Type:       widgetType,
	}
	if mutate != nil {
		mutate(&input)
	}

	widgetRecord, buildErr := model.NewWidget(input)
	require.NoError(testingT, buildErr)
	require.NoError(testingT, database.Create(&widgetRecord).Error)
	return widgetRecord
}
