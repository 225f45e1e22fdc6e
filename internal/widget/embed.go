package widget

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/model"
)

const (
	// ContainerElementIDPrefix scopes the host-page container id per widget.
	ContainerElementIDPrefix = "testimonial-widget-"
	styleElementIDPrefix     = "testimonial-widget-style-"

	// RetryIntervalMilliseconds and MaxInitializationAttempts bound the embed
	// script's container discovery loop to a ten second window.
	RetryIntervalMilliseconds = 500
	MaxInitializationAttempts = 20

	// CarouselAdvanceIntervalMilliseconds is the auto-advance cadence.
	CarouselAdvanceIntervalMilliseconds = 5000
)

//go:embed assets/embed.js
var embedBootstrapSource string

var embedBootstrapTemplate = template.Must(template.New("embed.js").Parse(embedBootstrapSource))

type embedTemplateData struct {
	WidgetID           string
	ContainerElementID string
	StyleElementID     string
	WidgetType         string
	WidgetHTML         string
	WidgetCSS          string
	CarouselIntervalMs int
	RetryIntervalMs    int
	MaxAttempts        int
}

// ContainerElementID returns the host-page element id the embed script binds to.
func ContainerElementID(widgetID string) string {
	return ContainerElementIDPrefix + widgetID
}

// StyleElementID returns the id keying the injected stylesheet for a widget.
func StyleElementID(widgetID string) string {
	return styleElementIDPrefix + widgetID
}

// Package wraps the rendered widget into a self-contained script. The script
// injects the stylesheet once per widget id, injects the markup into the
// host-page container, and wires carousel and read-more behavior. Executing it
// twice on one page never duplicates styles.
func Package(widgetRecord model.Widget, orderedTestimonials []model.Testimonial) (string, error) {
	display := ResolveDisplayOptions(widgetRecord.Config.Display)
	style := ResolveStyleOptions(widgetRecord.Config.Style)

	container, renderErr := RenderContainer(orderedTestimonials, widgetRecord.Type, display, style)
	if renderErr != nil {
		return "", renderErr
	}

	containerElementID := ContainerElementID(widgetRecord.ID)
	stylesheet := Stylesheet("#"+containerElementID, widgetRecord.Type, style)

	templateData := embedTemplateData{
		WidgetID:           encodeScriptString(widgetRecord.ID),
		ContainerElementID: encodeScriptString(containerElementID),
		StyleElementID:     encodeScriptString(StyleElementID(widgetRecord.ID)),
		WidgetType:         encodeScriptString(widgetRecord.Type),
		WidgetHTML:         encodeScriptString(container.Render()),
		WidgetCSS:          encodeScriptString(stylesheet),
		CarouselIntervalMs: CarouselAdvanceIntervalMilliseconds,
		RetryIntervalMs:    RetryIntervalMilliseconds,
		MaxAttempts:        MaxInitializationAttempts,
	}

	var buffer bytes.Buffer
	if executeErr := embedBootstrapTemplate.Execute(&buffer, templateData); executeErr != nil {
		return "", fmt.Errorf("widget: render embed bootstrap: %w", executeErr)
	}
	return buffer.String(), nil
}

// encodeScriptString produces a JavaScript string literal. Closing-tag
// sequences are broken so the payload stays inert even if the script text is
// ever inlined into markup.
func encodeScriptString(value string) string {
	encoded, _ := json.Marshal(value)
	return strings.ReplaceAll(string(encoded), "</", "<\\/")
}
