package httpapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/model"
)

func TestDashboardRequiresAuthentication(t *testing.T) {
	harness := buildAPIHarness(t, nil)

	protectedRequests := []struct {
		method string
		path   string
	}{
		{method: http.MethodGet, path: "/api/me"},
		{method: http.MethodGet, path: "/api/forms"},
		{method: http.MethodPost, path: "/api/forms"},
		{method: http.MethodGet, path: "/api/widgets"},
		{method: http.MethodPatch, path: "/api/testimonials/some-id"},
	}

	for _, protectedRequest := range protectedRequests {
		response := performJSONRequest(t, harness.router, protectedRequest.method, protectedRequest.path, nil, nil)
		require.Equal(t, http.StatusUnauthorized, response.Code, protectedRequest.path)
		require.Equal(t, "unauthorized", decodeJSONBody(t, response)["error"])
	}
}

func TestCurrentUserEndpoint(t *testing.T) {
	harness := buildAPIHarness(t, testDashboardUser())

	response := performJSONRequest(t, harness.router, http.MethodGet, "/api/me", nil, nil)
	require.Equal(t, http.StatusOK, response.Code)

	body := decodeJSONBody(t, response)
	require.Equal(t, testOwnerEmail, body["email"])
	require.Equal(t, "Owner Example", body["name"])
}

func TestCreateAndListForms(t *testing.T) {
	harness := buildAPIHarness(t, testDashboardUser())

	createResponse := performJSONRequest(t, harness.router, http.MethodPost, "/api/forms", map[string]any{
		"name":         "Launch Feedback",
		"title":        "Tell us about the launch",
		"auto_approve": true,
		"questions": []map[string]any{
			{"label": "What changed for you?", "required": true},
		},
	}, nil)
	require.Equal(t, http.StatusOK, createResponse.Code)

	created := decodeJSONBody(t, createResponse)
	require.Equal(t, "Launch Feedback", created["name"])
	require.Equal(t, true, created["auto_approve"])
	require.NotEmpty(t, created["id"])

	listResponse := performJSONRequest(t, harness.router, http.MethodGet, "/api/forms", nil, nil)
	require.Equal(t, http.StatusOK, listResponse.Code)
	forms := decodeJSONBody(t, listResponse)["forms"].([]any)
	require.Len(t, forms, 1)
	require.Equal(t, created["id"], forms[0].(map[string]any)["id"])
}

func TestListFormsReportsTestimonialCount(t *testing.T) {
	harness := buildAPIHarness(t, testDashboardUser())
	form := insertForm(t, harness.database, testOwnerEmail, false)
	insertTestimonial(t, harness.database, form, model.TestimonialStatusApproved, nil)
	insertTestimonial(t, harness.database, form, model.TestimonialStatusPending, nil)

	response := performJSONRequest(t, harness.router, http.MethodGet, "/api/forms", nil, nil)
	require.Equal(t, http.StatusOK, response.Code)
	forms := decodeJSONBody(t, response)["forms"].([]any)
	require.Len(t, forms, 1)
	require.EqualValues(t, 2, forms[0].(map[string]any)["testimonial_count"])
}

func TestUpdateForm(t *testing.T) {
	harness := buildAPIHarness(t, testDashboardUser())
	form := insertForm(t, harness.database, testOwnerEmail, false)

	response := performJSONRequest(t, harness.router, http.MethodPatch, "/api/forms/"+form.ID, map[string]any{
		"name":         "Renamed Form",
		"auto_approve": true,
	}, nil)
	require.Equal(t, http.StatusOK, response.Code)

	body := decodeJSONBody(t, response)
	require.Equal(t, "Renamed Form", body["name"])
	require.Equal(t, true, body["auto_approve"])
	require.Equal(t, form.Title, body["title"])
}

func TestUpdateFormRejectsEmptyPayload(t *testing.T) {
	harness := buildAPIHarness(t, testDashboardUser())
	form := insertForm(t, harness.database, testOwnerEmail, false)

	response := performJSONRequest(t, harness.router, http.MethodPatch, "/api/forms/"+form.ID, map[string]any{}, nil)
	require.Equal(t, http.StatusBadRequest, response.Code)
	require.Equal(t, "nothing_to_update", decodeJSONBody(t, response)["error"])
}

func TestDeleteFormRemovesTestimonials(t *testing.T) {
	harness := buildAPIHarness(t, testDashboardUser())
	form := insertForm(t, harness.database, testOwnerEmail, false)
	insertTestimonial(t, harness.database, form, model.TestimonialStatusApproved, nil)

	response := performJSONRequest(t, harness.router, http.MethodDelete, "/api/forms/"+form.ID, nil, nil)
	require.Equal(t, http.StatusOK, response.Code)

	var formCount int64
	require.NoError(t, harness.database.Model(&model.Form{}).Where("id = ?", form.ID).Count(&formCount).Error)
	require.Zero(t, formCount)

	var testimonialCount int64
	require.NoError(t, harness.database.Model(&model.Testimonial{}).Where("form_id = ?", form.ID).Count(&testimonialCount).Error)
	require.Zero(t, testimonialCount)
}

func TestListTestimonialsByFormWithStatusFilter(t *testing.T) {
	harness := buildAPIHarness(t, testDashboardUser())
	form := insertForm(t, harness.database, testOwnerEmail, false)
	approved := insertTestimonial(t, harness.database, form, model.TestimonialStatusApproved, nil)
	insertTestimonial(t, harness.database, form, model.TestimonialStatusPending, nil)

	allResponse := performJSONRequest(t, harness.router, http.MethodGet, "/api/forms/"+form.ID+"/testimonials", nil, nil)
	require.Equal(t, http.StatusOK, allResponse.Code)
	require.Len(t, decodeJSONBody(t, allResponse)["testimonials"].([]any), 2)

	filteredResponse := performJSONRequest(t, harness.router, http.MethodGet,
		"/api/forms/"+form.ID+"/testimonials?status="+model.TestimonialStatusApproved, nil, nil)
	require.Equal(t, http.StatusOK, filteredResponse.Code)
	filtered := decodeJSONBody(t, filteredResponse)["testimonials"].([]any)
	require.Len(t, filtered, 1)
	require.Equal(t, approved.ID, filtered[0].(map[string]any)["id"])

	invalidResponse := performJSONRequest(t, harness.router, http.MethodGet,
		"/api/forms/"+form.ID+"/testimonials?status=archived", nil, nil)
	require.Equal(t, http.StatusBadRequest, invalidResponse.Code)
	require.Equal(t, "invalid_status", decodeJSONBody(t, invalidResponse)["error"])
}

func TestModerateTestimonial(t *testing.T) {
	harness := buildAPIHarness(t, testDashboardUser())
	form := insertForm(t, harness.database, testOwnerEmail, false)
	pending := insertTestimonial(t, harness.database, form, model.TestimonialStatusPending, nil)

	response := performJSONRequest(t, harness.router, http.MethodPatch, "/api/testimonials/"+pending.ID, map[string]any{
		"status":   model.TestimonialStatusApproved,
		"featured": true,
	}, nil)
	require.Equal(t, http.StatusOK, response.Code)

	body := decodeJSONBody(t, response)
	require.Equal(t, model.TestimonialStatusApproved, body["status"])
	require.Equal(t, true, body["featured"])

	var reloaded model.Testimonial
	require.NoError(t, harness.database.First(&reloaded, "id = ?", pending.ID).Error)
	require.Equal(t, model.TestimonialStatusApproved, reloaded.Status)
	require.True(t, reloaded.Featured)
}

func TestModerateTestimonialValidation(t *testing.T) {
	harness := buildAPIHarness(t, testDashboardUser())
	form := insertForm(t, harness.database, testOwnerEmail, false)
	pending := insertTestimonial(t, harness.database, form, model.TestimonialStatusPending, nil)

	unknownResponse := performJSONRequest(t, harness.router, http.MethodPatch, "/api/testimonials/no-such-id",
		map[string]any{"status": model.TestimonialStatusApproved}, nil)
	require.Equal(t, http.StatusNotFound, unknownResponse.Code)
	require.Equal(t, "unknown_testimonial", decodeJSONBody(t, unknownResponse)["error"])

	invalidResponse := performJSONRequest(t, harness.router, http.MethodPatch, "/api/testimonials/"+pending.ID,
		map[string]any{"status": "archived"}, nil)
	require.Equal(t, http.StatusBadRequest, invalidResponse.Code)
	require.Equal(t, "invalid_status", decodeJSONBody(t, invalidResponse)["error"])

	emptyResponse := performJSONRequest(t, harness.router, http.MethodPatch, "/api/testimonials/"+pending.ID,
		map[string]any{}, nil)
	require.Equal(t, http.StatusBadRequest, emptyResponse.Code)
	require.Equal(t, "nothing_to_update", decodeJSONBody(t, emptyResponse)["error"])
}

func TestBulkModerateTestimonials(t *testing.T) {
	harness := buildAPIHarness(t, testDashboardUser())
	form := insertForm(t, harness.database, testOwnerEmail, false)
	first := insertTestimonial(t, harness.database, form, model.TestimonialStatusPending, nil)
	second := insertTestimonial(t, harness.database, form, model.TestimonialStatusPending, nil)

	intruderForm := insertForm(t, harness.database, testIntruderEmail, false)
	foreign := insertTestimonial(t, harness.database, intruderForm, model.TestimonialStatusPending, nil)

	response := performJSONRequest(t, harness.router, http.MethodPost, "/api/testimonials/bulk", map[string]any{
		"testimonial_ids": []string{first.ID, second.ID, foreign.ID},
		"status":          model.TestimonialStatusApproved,
	}, nil)
	require.Equal(t, http.StatusOK, response.Code)
	require.EqualValues(t, 2, decodeJSONBody(t, response)["updated"])

	var foreignReloaded model.Testimonial
	require.NoError(t, harness.database.First(&foreignReloaded, "id = ?", foreign.ID).Error)
	require.Equal(t, model.TestimonialStatusPending, foreignReloaded.Status)
}

func TestBulkModerateValidation(t *testing.T) {
	harness := buildAPIHarness(t, testDashboardUser())

	invalidStatus := performJSONRequest(t, harness.router, http.MethodPost, "/api/testimonials/bulk", map[string]any{
		"testimonial_ids": []string{"some-id"},
		"status":          "archived",
	}, nil)
	require.Equal(t, http.StatusBadRequest, invalidStatus.Code)
	require.Equal(t, "invalid_status", decodeJSONBody(t, invalidStatus)["error"])

	emptyList := performJSONRequest(t, harness.router, http.MethodPost, "/api/testimonials/bulk", map[string]any{
		"testimonial_ids": []string{},
		"status":          model.TestimonialStatusApproved,
	}, nil)
	require.Equal(t, http.StatusBadRequest, emptyList.Code)
}

func TestDeleteTestimonial(t *testing.T) {
	harness := buildAPIHarness(t, testDashboardUser())
	form := insertForm(t, harness.database, testOwnerEmail, false)
	record := insertTestimonial(t, harness.database, form, model.TestimonialStatusApproved, nil)

	response := performJSONRequest(t, harness.router, http.MethodDelete, "/api/testimonials/"+record.ID, nil, nil)
	require.Equal(t, http.StatusOK, response.Code)

	missingResponse := performJSONRequest(t, harness.router, http.MethodDelete, "/api/testimonials/"+record.ID, nil, nil)
	require.Equal(t, http.StatusNotFound, missingResponse.Code)
	require.Equal(t, "unknown_testimonial", decodeJSONBody(t, missingResponse)["error"])
}

func TestCreateWidget(t *testing.T) {
	harness := buildAPIHarness(t, testDashboardUser())

	response := performJSONRequest(t, harness.router, http.MethodPost, "/api/widgets", map[string]any{
		"name": "Homepage Wall",
		"type": model.WidgetTypeWall,
		"config": map[string]any{
			"filters": map[string]any{"min_rating": 4},
			"style":   map[string]any{"theme": "dark"},
		},
		"allowed_domains": []string{"Example.com", "example.com"},
	}, nil)
	require.Equal(t, http.StatusOK, response.Code)

	body := decodeJSONBody(t, response)
	require.Equal(t, "Homepage Wall", body["name"])
	require.Equal(t, model.WidgetTypeWall, body["type"])
	require.Equal(t, []any{"example.com"}, body["allowed_domains"])

	widgetID := body["id"].(string)
	embedSnippet := body["embed_snippet"].(string)
	require.Contains(t, embedSnippet, "testimonial-widget-"+widgetID)
	require.Contains(t, embedSnippet, testEmbedBaseURL+"/embed/"+widgetID+".js")
}

func TestCreateWidgetValidation(t *testing.T) {
	harness := buildAPIHarness(t, testDashboardUser())

	testCases := []struct {
		name          string
		payload       map[string]any
		expectedError string
	}{
		{
			name:          "unknown type",
			payload:       map[string]any{"name": "Ticker", "type": "ticker"},
			expectedError: "invalid_widget_type",
		},
		{
			name:          "domain with scheme",
			payload:       map[string]any{"name": "Wall", "type": model.WidgetTypeWall, "allowed_domains": []string{"https://example.com"}},
			expectedError: "invalid_domains",
		},
		{
			name:          "missing name",
			payload:       map[string]any{"type": model.WidgetTypeWall},
			expectedError: "missing_fields",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			response := performJSONRequest(t, harness.router, http.MethodPost, "/api/widgets", testCase.payload, nil)
			require.Equal(t, http.StatusBadRequest, response.Code)
			require.Equal(t, testCase.expectedError, decodeJSONBody(t, response)["error"])
		})
	}
}

func TestUpdateWidgetReplacesProvidedSections(t *testing.T) {
	harness := buildAPIHarness(t, testDashboardUser())
	widgetRecord := insertWidget(t, harness.database, testOwnerEmail, model.WidgetTypeWall, func(input *model.WidgetInput) {
		input.Config.Style = model.WidgetStyle{Theme: "dark", AccentColor: "#ff0000"}
		input.Config.Filters = model.WidgetFilters{MinRating: 3}
	})

	response := performJSONRequest(t, harness.router, http.MethodPatch, "/api/widgets/"+widgetRecord.ID, map[string]any{
		"filters": map[string]any{"only_featured": true},
	}, nil)
	require.Equal(t, http.StatusOK, response.Code)

	var reloaded model.Widget
	require.NoError(t, harness.database.First(&reloaded, "id = ?", widgetRecord.ID).Error)
	require.True(t, reloaded.Config.Filters.OnlyFeatured)
	require.Zero(t, reloaded.Config.Filters.MinRating)
	require.Equal(t, "dark", reloaded.Config.Style.Theme)
	require.Equal(t, "#ff0000", reloaded.Config.Style.AccentColor)
}

func TestUpdateWidgetNameAndType(t *testing.T) {
	harness := buildAPIHarness(t, testDashboardUser())
	widgetRecord := insertWidget(t, harness.database, testOwnerEmail, model.WidgetTypeWall, nil)

	response := performJSONRequest(t, harness.router, http.MethodPatch, "/api/widgets/"+widgetRecord.ID, map[string]any{
		"name": "Footer Carousel",
		"type": model.WidgetTypeCarousel,
	}, nil)
	require.Equal(t, http.StatusOK, response.Code)

	body := decodeJSONBody(t, response)
	require.Equal(t, "Footer Carousel", body["name"])
	require.Equal(t, model.WidgetTypeCarousel, body["type"])

	invalidResponse := performJSONRequest(t, harness.router, http.MethodPatch, "/api/widgets/"+widgetRecord.ID,
		map[string]any{"type": "ticker"}, nil)
	require.Equal(t, http.StatusBadRequest, invalidResponse.Code)
	require.Equal(t, "invalid_widget_type", decodeJSONBody(t, invalidResponse)["error"])
}

func TestDeleteWidget(t *testing.T) {
	harness := buildAPIHarness(t, testDashboardUser())
	widgetRecord := insertWidget(t, harness.database, testOwnerEmail, model.WidgetTypeWall, nil)

	response := performJSONRequest(t, harness.router, http.MethodDelete, "/api/widgets/"+widgetRecord.ID, nil, nil)
	require.Equal(t, http.StatusOK, response.Code)

	missingResponse := performJSONRequest(t, harness.router, http.MethodGet, "/api/widgets/"+widgetRecord.ID, nil, nil)
	require.Equal(t, http.StatusNotFound, missingResponse.Code)
}

func TestOwnershipIsolation(t *testing.T) {
	harness := buildAPIHarness(t, testDashboardUser())
	intruderForm := insertForm(t, harness.database, testIntruderEmail, false)
	intruderTestimonial := insertTestimonial(t, harness.database, intruderForm, model.TestimonialStatusPending, nil)
	intruderWidget := insertWidget(t, harness.database, testIntruderEmail, model.WidgetTypeWall, nil)

	listForms := performJSONRequest(t, harness.router, http.MethodGet, "/api/forms", nil, nil)
	require.Equal(t, http.StatusOK, listForms.Code)
	require.Empty(t, decodeJSONBody(t, listForms)["forms"])

	formTestimonials := performJSONRequest(t, harness.router, http.MethodGet,
		"/api/forms/"+intruderForm.ID+"/testimonials", nil, nil)
	require.Equal(t, http.StatusNotFound, formTestimonials.Code)

	moderate := performJSONRequest(t, harness.router, http.MethodPatch, "/api/testimonials/"+intruderTestimonial.ID,
		map[string]any{"status": model.TestimonialStatusApproved}, nil)
	require.Equal(t, http.StatusNotFound, moderate.Code)

	getWidget := performJSONRequest(t, harness.router, http.MethodGet, "/api/widgets/"+intruderWidget.ID, nil, nil)
	require.Equal(t, http.StatusNotFound, getWidget.Code)

	deleteWidget := performJSONRequest(t, harness.router, http.MethodDelete, "/api/widgets/"+intruderWidget.ID, nil, nil)
	require.Equal(t, http.StatusNotFound, deleteWidget.Code)
}
