package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/model"
	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/widget"
)

const (
	errorValueUnknownWidget      = "unknown_widget"
	errorValueUnknownTestimonial = "unknown_testimonial"
	errorValueQueryFailed        = "query_failed"
	errorValueRenderFailed       = "render_failed"
	errorValueDeleteFailed       = "delete_failed"
	errorValueInvalidStatus      = "invalid_status"
	errorValueInvalidWidgetType  = "invalid_widget_type"
	errorValueInvalidDomains     = "invalid_domains"
	errorValueNothingToUpdate    = "nothing_to_update"

	embedSnippetTemplate = "<div id=\"%s\"></div>\n<script async src=\"%s/embed/%s.js\"></script>"

	bulkModerationLimit = 200
)

// DashboardHandlers serves the authenticated CRUD surface: forms, testimonial
// moderation, and widgets. Every query is scoped to the session user's rows.
type DashboardHandlers struct {
	database     *gorm.DB
	logger       *zap.Logger
	embedBaseURL string
}

// NewDashboardHandlers constructs DashboardHandlers. embedBaseURL is the
// public base used when generating embed snippets.
func NewDashboardHandlers(database *gorm.DB, logger *zap.Logger, embedBaseURL string) *DashboardHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandlers{
		database:     database,
		logger:       logger,
		embedBaseURL: strings.TrimRight(strings.TrimSpace(embedBaseURL), "/"),
	}
}

// CurrentUser reports the session identity to the dashboard frontend.
func (handlers *DashboardHandlers) CurrentUser(context *gin.Context) {
	currentUser, ok := CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
		return
	}
	context.JSON(http.StatusOK, gin.H{
		"email":  currentUser.Email,
		"name":   currentUser.Name,
		"avatar": gin.H{"url": currentUser.PictureURL},
	})
}

type createFormRequest struct {
	Name        string                 `json:"name"`
	Title       string                 `json:"title"`
	AutoApprove bool                   `json:"auto_approve"`
	Questions   model.FormQuestionList `json:"questions"`
}

type updateFormRequest struct {
	Name        *string                 `json:"name"`
	Title       *string                 `json:"title"`
	AutoApprove *bool                   `json:"auto_approve"`
	Questions   *model.FormQuestionList `json:"questions"`
}

type formResponse struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Title            string                 `json:"title"`
	AutoApprove      bool                   `json:"auto_approve"`
	Questions        model.FormQuestionList `json:"questions"`
	TestimonialCount int64                  `json:"testimonial_count"`
	CreatedAt        int64                  `json:"created_at"`
}

// CreateForm creates a collection form owned by the session user.
func (handlers *DashboardHandlers) CreateForm(context *gin.Context) {
	currentUser, ok := CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
		return
	}

	var payload createFormRequest
	if bindErr := context.BindJSON(&payload); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	form, formErr := model.NewForm(model.FormInput{
		OwnerEmail:  currentUser.normalizedEmail(),
		Name:        payload.Name,
		Title:       payload.Title,
		AutoApprove: payload.AutoApprove,
		Questions:   payload.Questions,
	})
	if formErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}

	if err := handlers.database.Create(&form).Error; err != nil {
		handlers.logger.Warn("save_form", zap.Error(err))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}

	context.JSON(http.StatusOK, handlers.toFormResponse(form, 0))
}

// ListForms returns the session user's forms with testimonial counts.
func (handlers *DashboardHandlers) ListForms(context *gin.Context) {
	currentUser, ok := CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
		return
	}

	var forms []model.Form
	if err := handlers.database.Where("owner_email = ?", currentUser.normalizedEmail()).Order("created_at DESC").Find(&forms).Error; err != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	responses := make([]formResponse, 0, len(forms))
	for _, form := range forms {
		responses = append(responses, handlers.toFormResponse(form, handlers.testimonialCount(form.ID)))
	}
	context.JSON(http.StatusOK, gin.H{"forms": responses})
}

// UpdateForm applies a partial update to an owned form.
func (handlers *DashboardHandlers) UpdateForm(context *gin.Context) {
	currentUser, ok := CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
		return
	}

	form, found := handlers.findOwnedForm(context, currentUser)
	if !found {
		return
	}

	var payload updateFormRequest
	if bindErr := context.BindJSON(&payload); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	updates := map[string]any{}
	if payload.Name != nil {
		trimmedName := strings.TrimSpace(*payload.Name)
		if trimmedName == "" {
			context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
			return
		}
		updates["name"] = trimmedName
	}
	if payload.Title != nil {
		updates["title"] = strings.TrimSpace(*payload.Title)
	}
	if payload.AutoApprove != nil {
		updates["auto_approve"] = *payload.AutoApprove
	}
	if payload.Questions != nil {
		updates["questions"] = *payload.Questions
	}
	if len(updates) == 0 {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueNothingToUpdate})
		return
	}

	if err := handlers.database.Model(&form).Updates(updates).Error; err != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}

	if err := handlers.database.First(&form, "id = ?", form.ID).Error; err != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	context.JSON(http.StatusOK, handlers.toFormResponse(form, handlers.testimonialCount(form.ID)))
}

// DeleteForm removes an owned form together with its testimonials.
func (handlers *DashboardHandlers) DeleteForm(context *gin.Context) {
	currentUser, ok := CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
		return
	}

	form, found := handlers.findOwnedForm(context, currentUser)
	if !found {
		return
	}

	deleteErr := handlers.database.Transaction(func(transaction *gorm.DB) error {
		if err := transaction.Where("form_id = ?", form.ID).Delete(&model.Testimonial{}).Error; err != nil {
			return err
		}
		return transaction.Delete(&form).Error
	})
	if deleteErr != nil {
		handlers.logger.Warn("delete_form", zap.Error(deleteErr), zap.String("form_id", form.ID))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueDeleteFailed})
		return
	}

	context.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type testimonialResponse struct {
	ID              string          `json:"id"`
	FormID          string          `json:"form_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email,omitempty"`
	CustomerCompany string          `json:"customer_company,omitempty"`
	CustomerPhoto   string          `json:"customer_photo,omitempty"`
	Content         string          `json:"content"`
	Rating          int             `json:"rating,omitempty"`
	VideoURL        string          `json:"video_url,omitempty"`
	Status          string          `json:"status"`
	Featured        bool            `json:"featured"`
	Answers         model.AnswerMap `json:"answers,omitempty"`
	SubmittedAt     int64           `json:"submitted_at"`
}

// ListTestimonialsByForm returns an owned form's testimonials, optionally
// filtered by moderation status.
func (handlers *DashboardHandlers) ListTestimonialsByForm(context *gin.Context) {
	currentUser, ok := CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
		return
	}

	form, found := handlers.findOwnedForm(context, currentUser)
	if !found {
		return
	}

	query := handlers.database.Where("form_id = ?", form.ID)
	statusFilter := strings.TrimSpace(context.Query("status"))
	if statusFilter != "" {
		if !model.IsValidTestimonialStatus(statusFilter) {
			context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidStatus})
			return
		}
		query = query.Where("status = ?", statusFilter)
	}

	var testimonials []model.Testimonial
	if err := query.Order("submitted_at DESC").Find(&testimonials).Error; err != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	responses := make([]testimonialResponse, 0, len(testimonials))
	for _, testimonial := range testimonials {
		responses = append(responses, toTestimonialResponse(testimonial))
	}
	context.JSON(http.StatusOK, gin.H{"form_id": form.ID, "testimonials": responses})
}

type moderateTestimonialRequest struct {
	Status   *string `json:"status"`
	Featured *bool   `json:"featured"`
}

// ModerateTestimonial updates moderation status and/or the featured flag on an
// owned testimonial.
func (handlers *DashboardHandlers) ModerateTestimonial(context *gin.Context) {
	currentUser, ok := CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
		return
	}

	testimonialID := strings.TrimSpace(context.Param("id"))
	var testimonial model.Testimonial
	findErr := handlers.database.First(&testimonial, "id = ? AND owner_email = ?", testimonialID, currentUser.normalizedEmail()).Error
	if findErr != nil {
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownTestimonial})
			return
		}
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	var payload moderateTestimonialRequest
	if bindErr := context.BindJSON(&payload); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	updates := map[string]any{}
	if payload.Status != nil {
		if !model.IsValidTestimonialStatus(*payload.Status) {
			context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidStatus})
			return
		}
		updates["status"] = *payload.Status
	}
	if payload.Featured != nil {
		updates["featured"] = *payload.Featured
	}
	if len(updates) == 0 {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueNothingToUpdate})
		return
	}

	if err := handlers.database.Model(&testimonial).Updates(updates).Error; err != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}

	if err := handlers.database.First(&testimonial, "id = ?", testimonial.ID).Error; err != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	context.JSON(http.StatusOK, toTestimonialResponse(testimonial))
}

type bulkModerateRequest struct {
	TestimonialIDs []string `json:"testimonial_ids"`
	Status         string   `json:"status"`
}

// BulkModerateTestimonials applies one moderation status to a batch of owned
// testimonials. Unknown or foreign ids are skipped, not errors.
func (handlers *DashboardHandlers) BulkModerateTestimonials(context *gin.Context) {
	currentUser, ok := CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
		return
	}

	var payload bulkModerateRequest
	if bindErr := context.BindJSON(&payload); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	if !model.IsValidTestimonialStatus(payload.Status) {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidStatus})
		return
	}
	if len(payload.TestimonialIDs) == 0 || len(payload.TestimonialIDs) > bulkModerationLimit {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}

	result := handlers.database.Model(&model.Testimonial{}).
		Where("id IN ? AND owner_email = ?", payload.TestimonialIDs, currentUser.normalizedEmail()).
		Update("status", payload.Status)
	if result.Error != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}

	context.JSON(http.StatusOK, gin.H{"status": "ok", "updated": result.RowsAffected})
}

// DeleteTestimonial removes an owned testimonial.
func (handlers *DashboardHandlers) DeleteTestimonial(context *gin.Context) {
	currentUser, ok := CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
		return
	}

	testimonialID := strings.TrimSpace(context.Param("id"))
	result := handlers.database.Where("id = ? AND owner_email = ?", testimonialID, currentUser.normalizedEmail()).Delete(&model.Testimonial{})
	if result.Error != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueDeleteFailed})
		return
	}
	if result.RowsAffected == 0 {
		context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownTestimonial})
		return
	}
	context.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createWidgetRequest struct {
	Name           string             `json:"name"`
	Type           string             `json:"type"`
	Config         model.WidgetConfig `json:"config"`
	AllowedDomains []string           `json:"allowed_domains"`
}

type updateWidgetRequest struct {
	Name           *string              `json:"name"`
	Type           *string              `json:"type"`
	Filters        *model.WidgetFilters `json:"filters"`
	Display        *model.WidgetDisplay `json:"display"`
	Style          *model.WidgetStyle   `json:"style"`
	AllowedDomains *[]string            `json:"allowed_domains"`
}

type widgetResponse struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Type           string             `json:"type"`
	Config         model.WidgetConfig `json:"config"`
	AllowedDomains []string           `json:"allowed_domains"`
	Impressions    int64              `json:"impressions"`
	EmbedSnippet   string             `json:"embed_snippet"`
	CreatedAt      int64              `json:"created_at"`
}

// CreateWidget creates a widget owned by the session user.
func (handlers *DashboardHandlers) CreateWidget(context *gin.Context) {
	currentUser, ok := CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
		return
	}

	var payload createWidgetRequest
	if bindErr := context.BindJSON(&payload); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	widgetRecord, widgetErr := model.NewWidget(model.WidgetInput{
		OwnerEmail:     currentUser.normalizedEmail(),
		Name:           payload.Name,
		Type:           payload.Type,
		Config:         payload.Config,
		AllowedDomains: payload.AllowedDomains,
	})
	if widgetErr != nil {
		switch {
		case errors.Is(widgetErr, model.ErrInvalidWidgetType):
			context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidWidgetType})
		case errors.Is(widgetErr, model.ErrInvalidWidgetDomain):
			context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidDomains})
		default:
			context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		}
		return
	}

	if err := handlers.database.Create(&widgetRecord).Error; err != nil {
		handlers.logger.Warn("save_widget", zap.Error(err))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}

	context.JSON(http.StatusOK, handlers.toWidgetResponse(widgetRecord))
}

// ListWidgets returns the session user's widgets.
func (handlers *DashboardHandlers) ListWidgets(context *gin.Context) {
	currentUser, ok := CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
		return
	}

	var widgets []model.Widget
	if err := handlers.database.Where("owner_email = ?", currentUser.normalizedEmail()).Order("created_at DESC").Find(&widgets).Error; err != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	responses := make([]widgetResponse, 0, len(widgets))
	for _, widgetRecord := range widgets {
		responses = append(responses, handlers.toWidgetResponse(widgetRecord))
	}
	context.JSON(http.StatusOK, gin.H{"widgets": responses})
}

// GetWidget returns one owned widget.
func (handlers *DashboardHandlers) GetWidget(context *gin.Context) {
	currentUser, ok := CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
		return
	}

	widgetRecord, found := handlers.findOwnedWidget(context, currentUser)
	if !found {
		return
	}
	context.JSON(http.StatusOK, handlers.toWidgetResponse(widgetRecord))
}

// UpdateWidget applies a partial update. Each provided sub-configuration
// (filters, display, style) replaces the stored one wholesale; omitted
// sub-configurations are untouched, so the editing UI can patch one concern at
// a time.
func (handlers *DashboardHandlers) UpdateWidget(context *gin.Context) {
	currentUser, ok := CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
		return
	}

	widgetRecord, found := handlers.findOwnedWidget(context, currentUser)
	if !found {
		return
	}

	var payload updateWidgetRequest
	if bindErr := context.BindJSON(&payload); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	updates := map[string]any{}
	if payload.Name != nil {
		trimmedName := strings.TrimSpace(*payload.Name)
		if trimmedName == "" {
			context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
			return
		}
		updates["name"] = trimmedName
	}
	if payload.Type != nil {
		widgetType := strings.ToLower(strings.TrimSpace(*payload.Type))
		if !model.IsValidWidgetType(widgetType) {
			context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidWidgetType})
			return
		}
		updates["type"] = widgetType
	}

	configChanged := false
	updatedConfig := widgetRecord.Config
	if payload.Filters != nil {
		updatedConfig.Filters = *payload.Filters
		configChanged = true
	}
	if payload.Display != nil {
		updatedConfig.Display = *payload.Display
		configChanged = true
	}
	if payload.Style != nil {
		updatedConfig.Style = *payload.Style
		configChanged = true
	}
	if configChanged {
		updates["config"] = updatedConfig
	}

	if payload.AllowedDomains != nil {
		normalizedDomains, domainsErr := model.NormalizeAllowedDomains(*payload.AllowedDomains)
		if domainsErr != nil {
			context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidDomains})
			return
		}
		updates["allowed_domains"] = normalizedDomains
	}

	if len(updates) == 0 {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueNothingToUpdate})
		return
	}

	if err := handlers.database.Model(&widgetRecord).Updates(updates).Error; err != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}

	if err := handlers.database.First(&widgetRecord, "id = ?", widgetRecord.ID).Error; err != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	context.JSON(http.StatusOK, handlers.toWidgetResponse(widgetRecord))
}

// DeleteWidget removes an owned widget.
func (handlers *DashboardHandlers) DeleteWidget(context *gin.Context) {
	currentUser, ok := CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
		return
	}

	widgetRecord, found := handlers.findOwnedWidget(context, currentUser)
	if !found {
		return
	}

	if err := handlers.database.Delete(&widgetRecord).Error; err != nil {
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueDeleteFailed})
		return
	}
	context.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (handlers *DashboardHandlers) findOwnedForm(context *gin.Context, currentUser *CurrentUser) (model.Form, bool) {
	formID := strings.TrimSpace(context.Param("id"))
	var form model.Form
	findErr := handlers.database.First(&form, "id = ? AND owner_email = ?", formID, currentUser.normalizedEmail()).Error
	if findErr != nil {
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownForm})
		} else {
			context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		}
		return model.Form{}, false
	}
	return form, true
}

func (handlers *DashboardHandlers) findOwnedWidget(context *gin.Context, currentUser *CurrentUser) (model.Widget, bool) {
	widgetID := strings.TrimSpace(context.Param("id"))
	var widgetRecord model.Widget
	findErr := handlers.database.First(&widgetRecord, "id = ? AND owner_email = ?", widgetID, currentUser.normalizedEmail()).Error
	if findErr != nil {
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownWidget})
		} else {
			context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		}
		return model.Widget{}, false
	}
	return widgetRecord, true
}

func (handlers *DashboardHandlers) testimonialCount(formID string) int64 {
	var count int64
	if err := handlers.database.Model(&model.Testimonial{}).Where("form_id = ?", formID).Count(&count).Error; err != nil {
		handlers.logger.Warn("count_testimonials", zap.Error(err), zap.String("form_id", formID))
		return 0
	}
	return count
}

func (handlers *DashboardHandlers) toFormResponse(form model.Form, testimonialCount int64) formResponse {
	return formResponse{
		ID:               form.ID,
		Name:             form.Name,
		Title:            form.Title,
		AutoApprove:      form.AutoApprove,
		Questions:        form.Questions,
		TestimonialCount: testimonialCount,
		CreatedAt:        form.CreatedAt.Unix(),
	}
}

func (handlers *DashboardHandlers) toWidgetResponse(widgetRecord model.Widget) widgetResponse {
	return widgetResponse{
		ID:             widgetRecord.ID,
		Name:           widgetRecord.Name,
		Type:           widgetRecord.Type,
		Config:         widgetRecord.Config,
		AllowedDomains: widgetRecord.AllowedDomains,
		Impressions:    widgetRecord.Impressions,
		EmbedSnippet:   handlers.embedSnippet(widgetRecord.ID),
		CreatedAt:      widgetRecord.CreatedAt.Unix(),
	}
}

func (handlers *DashboardHandlers) embedSnippet(widgetID string) string {
	return fmt.Sprintf(embedSnippetTemplate, widget.ContainerElementID(widgetID), handlers.embedBaseURL, widgetID)
}

func toTestimonialResponse(testimonial model.Testimonial) testimonialResponse {
	return testimonialResponse{
		ID:              testimonial.ID,
		FormID:          testimonial.FormID,
		CustomerName:    testimonial.CustomerName,
		CustomerEmail:   testimonial.CustomerEmail,
		CustomerCompany: testimonial.CustomerCompany,
		CustomerPhoto:   testimonial.CustomerPhotoURL,
		Content:         testimonial.Content,
		Rating:          testimonial.Rating,
		VideoURL:        testimonial.VideoURL,
		Status:          testimonial.Status,
		Featured:        testimonial.Featured,
		Answers:         testimonial.Answers,
		SubmittedAt:     testimonial.SubmittedAt.Unix(),
	}
}
