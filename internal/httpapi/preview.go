package httpapi

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/model"
	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/widget"
)

const (
	htmlContentType = "text/html; charset=utf-8"

	previewPageTemplateName = "widget_preview"
	previewNotFoundBody     = "widget not found"
	previewRenderErrorBody  = "failed to render preview"

	previewPageTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.WidgetName}} preview</title>
<style>{{.WidgetCSS}}</style>
<style>body{margin:0;padding:32px;background:#f3f4f6;font-family:system-ui,sans-serif;}</style>
</head>
<body>
<div id="{{.ContainerElementID}}">{{.WidgetHTML}}</div>
</body>
</html>`
)

var previewPageTemplate = template.Must(template.New(previewPageTemplateName).Parse(previewPageTemplateHTML))

type previewPageTemplateData struct {
	WidgetName         string
	ContainerElementID string
	WidgetHTML         template.HTML
	WidgetCSS          template.CSS
}

// PreviewHandlers renders widget output outside the embed path: the public
// server-rendered preview page and the authenticated live-editing fragment.
// Both share the same selection and rendering core as the embed endpoint.
type PreviewHandlers struct {
	database *gorm.DB
	logger   *zap.Logger
}

// NewPreviewHandlers constructs PreviewHandlers.
func NewPreviewHandlers(database *gorm.DB, logger *zap.Logger) *PreviewHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreviewHandlers{
		database: database,
		logger:   logger,
	}
}

// RenderPreviewPage serves the public preview page for a widget. Preview is
// not embeddable, so no domain gating applies.
func (handlers *PreviewHandlers) RenderPreviewPage(context *gin.Context) {
	widgetID := strings.TrimSpace(context.Param("widget_id"))
	if widgetID == "" {
		context.Data(http.StatusBadRequest, htmlContentType, []byte(previewNotFoundBody))
		return
	}

	var widgetRecord model.Widget
	if err := handlers.database.First(&widgetRecord, "id = ?", widgetID).Error; err != nil {
		context.Data(http.StatusNotFound, htmlContentType, []byte(previewNotFoundBody))
		return
	}

	fragment, stylesheet, _, renderErr := handlers.renderWidget(widgetRecord)
	if renderErr != nil {
		handlers.logger.Warn("render_preview", zap.Error(renderErr), zap.String("widget_id", widgetRecord.ID))
		context.Data(http.StatusInternalServerError, htmlContentType, []byte(previewRenderErrorBody))
		return
	}

	var buffer bytes.Buffer
	executeErr := previewPageTemplate.Execute(&buffer, previewPageTemplateData{
		WidgetName:         widgetRecord.Name,
		ContainerElementID: widget.ContainerElementID(widgetRecord.ID),
		WidgetHTML:         template.HTML(fragment),
		WidgetCSS:          template.CSS(stylesheet),
	})
	if executeErr != nil {
		handlers.logger.Warn("render_preview_page", zap.Error(executeErr), zap.String("widget_id", widgetRecord.ID))
		context.Data(http.StatusInternalServerError, htmlContentType, []byte(previewRenderErrorBody))
		return
	}

	context.Data(http.StatusOK, htmlContentType, buffer.Bytes())
}

type widgetPreviewResponse struct {
	WidgetID         string `json:"widget_id"`
	HTML             string `json:"html"`
	CSS              string `json:"css"`
	TestimonialCount int    `json:"testimonial_count"`
}

// WidgetPreviewFragment returns the rendered fragment for the dashboard's
// live-editing pane. The caller must own the widget.
func (handlers *PreviewHandlers) WidgetPreviewFragment(context *gin.Context) {
	currentUser, ok := CurrentUserFromContext(context)
	if !ok {
		context.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
		return
	}

	widgetID := strings.TrimSpace(context.Param("id"))
	var widgetRecord model.Widget
	findErr := handlers.database.First(&widgetRecord, "id = ? AND owner_email = ?", widgetID, currentUser.normalizedEmail()).Error
	if findErr != nil {
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownWidget})
			return
		}
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	fragment, stylesheet, selectedCount, renderErr := handlers.renderWidget(widgetRecord)
	if renderErr != nil {
		handlers.logger.Warn("render_preview_fragment", zap.Error(renderErr), zap.String("widget_id", widgetRecord.ID))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueRenderFailed})
		return
	}

	context.JSON(http.StatusOK, widgetPreviewResponse{
		WidgetID:         widgetRecord.ID,
		HTML:             fragment,
		CSS:              stylesheet,
		TestimonialCount: selectedCount,
	})
}

func (handlers *PreviewHandlers) renderWidget(widgetRecord model.Widget) (string, string, int, error) {
	var testimonials []model.Testimonial
	if err := handlers.database.Where("owner_email = ?", widgetRecord.OwnerEmail).Find(&testimonials).Error; err != nil {
		return "", "", 0, err
	}

	ordered := widget.Select(testimonials, widget.ResolveSelectionFilters(widgetRecord.Config.Filters))
	display := widget.ResolveDisplayOptions(widgetRecord.Config.Display)
	style := widget.ResolveStyleOptions(widgetRecord.Config.Style)

	container, renderErr := widget.RenderContainer(ordered, widgetRecord.Type, display, style)
	if renderErr != nil {
		return "", "", 0, renderErr
	}

	containerSelector := "#" + widget.ContainerElementID(widgetRecord.ID)
	return container.Render(), widget.Stylesheet(containerSelector, widgetRecord.Type, style), len(ordered), nil
}
