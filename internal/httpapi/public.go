package httpapi

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/model"
	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/widget"
)

const (
	jsonKeyError = "error"

	errorValueInvalidJSON    = "invalid_json"
	errorValueMissingFields  = "missing_fields"
	errorValueUnknownForm    = "unknown_form"
	errorValueInvalidRating  = "invalid_rating"
	errorValueSaveFailed     = "save_failed"
	errorValueInvalidContent = "invalid_content"

	javascriptContentType = "application/javascript; charset=utf-8"

	embedCacheControlValue = "public, max-age=60"

	unknownWidgetScript    = "/* unknown widget */"
	missingWidgetIDScript  = "/* missing widget id */"
	degradedWidgetScript   = `;(function(){if(window.console&&window.console.error){window.console.error("[testimonial-widget] temporarily unavailable");}})();`
	originForbiddenMessage = "/* origin_forbidden */"

	embedScriptSuffix = ".js"
)

// PublicHandlers serves the unauthenticated surface: testimonial submission
// and the embeddable widget script.
type PublicHandlers struct {
	database *gorm.DB
	logger   *zap.Logger
}

// NewPublicHandlers constructs PublicHandlers.
func NewPublicHandlers(database *gorm.DB, logger *zap.Logger) *PublicHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublicHandlers{
		database: database,
		logger:   logger,
	}
}

type submitTestimonialRequest struct {
	FormID          string            `json:"form_id"`
	CustomerName    string            `json:"name"`
	CustomerEmail   string            `json:"email"`
	CustomerCompany string            `json:"company"`
	CustomerPhoto   string            `json:"photo_url"`
	Content         string            `json:"content"`
	Rating          int               `json:"rating"`
	VideoURL        string            `json:"video_url"`
	Answers         map[string]string `json:"answers"`
}

// SubmitTestimonial accepts a public form submission. The owning form's
// auto-approve setting decides the initial moderation status.
func (handlers *PublicHandlers) SubmitTestimonial(context *gin.Context) {
	var payload submitTestimonialRequest
	if bindErr := context.BindJSON(&payload); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	payload.FormID = strings.TrimSpace(payload.FormID)
	payload.CustomerName = strings.TrimSpace(payload.CustomerName)
	payload.Content = strings.TrimSpace(payload.Content)

	if payload.FormID == "" || payload.CustomerName == "" || payload.Content == "" {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}

	var form model.Form
	if err := handlers.database.First(&form, "id = ?", payload.FormID).Error; err != nil {
		context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownForm})
		return
	}

	status := model.TestimonialStatusPending
	if form.AutoApprove {
		status = model.TestimonialStatusApproved
	}

	testimonial, testimonialErr := model.NewTestimonial(model.TestimonialInput{
		FormID:           form.ID,
		OwnerEmail:       form.OwnerEmail,
		CustomerName:     payload.CustomerName,
		CustomerEmail:    payload.CustomerEmail,
		CustomerCompany:  payload.CustomerCompany,
		CustomerPhotoURL: payload.CustomerPhoto,
		Content:          payload.Content,
		Rating:           payload.Rating,
		VideoURL:         payload.VideoURL,
		Status:           status,
		Answers:          payload.Answers,
	})
	if testimonialErr != nil {
		if errors.Is(testimonialErr, model.ErrInvalidTestimonialRating) {
			context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidRating})
			return
		}
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidContent})
		return
	}

	if err := handlers.database.Create(&testimonial).Error; err != nil {
		handlers.logger.Warn("save_testimonial", zap.Error(err))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}

	testimonialSubmissionsTotal.WithLabelValues(testimonial.Status).Inc()
	context.JSON(http.StatusOK, gin.H{"status": "ok", "testimonial_id": testimonial.ID, "moderation_status": testimonial.Status})
}

// EmbedScript serves the standalone widget script for third-party pages. The
// embed contract never surfaces internal failures as broken pages: unexpected
// errors degrade to a script that only logs client-side.
func (handlers *PublicHandlers) EmbedScript(context *gin.Context) {
	widgetID := strings.TrimSuffix(strings.TrimSpace(context.Param("widget_id")), embedScriptSuffix)
	if widgetID == "" {
		context.Data(http.StatusNotFound, javascriptContentType, []byte(missingWidgetIDScript))
		return
	}

	var widgetRecord model.Widget
	if err := handlers.database.First(&widgetRecord, "id = ?", widgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			context.Data(http.StatusNotFound, javascriptContentType, []byte(unknownWidgetScript))
			return
		}
		handlers.logger.Warn("load_widget", zap.Error(err), zap.String("widget_id", widgetID))
		context.Data(http.StatusOK, javascriptContentType, []byte(degradedWidgetScript))
		return
	}

	if !isEmbedOriginAllowed(widgetRecord.AllowedDomains, context.GetHeader("Origin")) {
		context.Data(http.StatusForbidden, javascriptContentType, []byte(originForbiddenMessage))
		return
	}

	var testimonials []model.Testimonial
	if err := handlers.database.Where("owner_email = ?", widgetRecord.OwnerEmail).Find(&testimonials).Error; err != nil {
		handlers.logger.Warn("load_testimonials", zap.Error(err), zap.String("widget_id", widgetRecord.ID))
		context.Data(http.StatusOK, javascriptContentType, []byte(degradedWidgetScript))
		return
	}

	ordered := widget.Select(testimonials, widget.ResolveSelectionFilters(widgetRecord.Config.Filters))
	script, packageErr := widget.Package(widgetRecord, ordered)
	if packageErr != nil {
		handlers.logger.Warn("package_widget", zap.Error(packageErr), zap.String("widget_id", widgetRecord.ID))
		context.Data(http.StatusOK, javascriptContentType, []byte(degradedWidgetScript))
		return
	}

	handlers.recordImpression(widgetRecord)

	context.Header("Cache-Control", embedCacheControlValue)
	context.Data(http.StatusOK, javascriptContentType, []byte(script))
}

// recordImpression increments the widget counter as a fire-and-forget side
// effect; a failed write never delays or fails the response.
func (handlers *PublicHandlers) recordImpression(widgetRecord model.Widget) {
	embedImpressionsTotal.WithLabelValues(widgetRecord.Type).Inc()
	database := handlers.database
	logger := handlers.logger
	go func() {
		err := database.Model(&model.Widget{}).
			Where("id = ?", widgetRecord.ID).
			UpdateColumn("impressions", gorm.Expr("impressions + ?", 1)).Error
		if err != nil {
			logger.Warn("record_impression", zap.Error(err), zap.String("widget_id", widgetRecord.ID))
		}
	}()
}

// isEmbedOriginAllowed enforces exact hostname equality against the widget's
// allow-list. Without an allow-list every origin is permitted; with one, a
// missing or unparsable origin is rejected.
func isEmbedOriginAllowed(allowedDomains []string, originHeader string) bool {
	if len(allowedDomains) == 0 {
		return true
	}

	trimmedOrigin := strings.TrimSpace(originHeader)
	if trimmedOrigin == "" {
		return false
	}

	parsedOrigin, parseErr := url.Parse(trimmedOrigin)
	if parseErr != nil {
		return false
	}
	originHostname := strings.ToLower(parsedOrigin.Hostname())
	if originHostname == "" {
		return false
	}

	for _, allowedDomain := range allowedDomains {
		if originHostname == strings.ToLower(strings.TrimSpace(allowedDomain)) {
			return true
		}
	}
	return false
}
