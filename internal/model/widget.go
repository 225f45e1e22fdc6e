package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	WidgetTypeWall     = "wall"
	WidgetTypeCarousel = "carousel"
	WidgetTypeGrid     = "grid"
	WidgetTypeSingle   = "single"
	WidgetTypeBadge    = "badge"

	FallbackAvatarKindInitials    = "initials"
	FallbackAvatarKindPlaceholder = "placeholder"

	widgetNameMaxLength   = 200
	widgetDomainMaxLength = 253
	widgetDomainLimit     = 50
)

var (
	ErrInvalidWidgetOwner  = errors.New("invalid_widget_owner")
	ErrInvalidWidgetName   = errors.New("invalid_widget_name")
	ErrInvalidWidgetType   = errors.New("invalid_widget_type")
	ErrInvalidWidgetDomain = errors.New("invalid_widget_domain")
)

// WidgetFilters narrows which approved testimonials a widget shows. A non-empty
// SelectedTestimonialIDs list switches the widget into explicit-selection mode
// and makes every other filter field inert.
type WidgetFilters struct {
	SelectedTestimonialIDs []string `json:"selected_testimonial_ids,omitempty"`
	TestimonialOrder       []string `json:"testimonial_order,omitempty"`
	FormIDs                []string `json:"form_ids,omitempty"`
	OnlyFeatured           bool     `json:"only_featured,omitempty"`
	MinRating              int      `json:"min_rating,omitempty"`
	MaxItems               *int     `json:"max_items,omitempty"`
}

// WidgetDisplay controls per-card presentation. Nil pointers fall back to the
// documented defaults at render time.
type WidgetDisplay struct {
	ShowRating     *bool `json:"show_rating,omitempty"`
	ShowPhoto      *bool `json:"show_photo,omitempty"`
	ShowCompany    *bool `json:"show_company,omitempty"`
	ShowDate       *bool `json:"show_date,omitempty"`
	TruncateLength *int  `json:"truncate_length,omitempty"`
	ShowReadMore   *bool `json:"show_read_more,omitempty"`
	ItemsPerPage   *int  `json:"items_per_page,omitempty"`
}

// WidgetStyle carries theme tokens and the fallback-avatar policy.
type WidgetStyle struct {
	Theme                    string `json:"theme,omitempty"`
	AccentColor              string `json:"accent_color,omitempty"`
	BorderRadiusPx           *int   `json:"border_radius_px,omitempty"`
	ShadowDepth              string `json:"shadow_depth,omitempty"`
	Density                  string `json:"density,omitempty"`
	FallbackAvatarKind       string `json:"fallback_avatar_kind,omitempty"`
	FallbackAvatarURL        string `json:"fallback_avatar_url,omitempty"`
	FallbackAvatarBackground string `json:"fallback_avatar_background,omitempty"`
	FallbackAvatarTextColor  string `json:"fallback_avatar_text_color,omitempty"`
}

// WidgetConfig bundles the three independently optional sub-configurations
// owned by a single widget instance.
type WidgetConfig struct {
	Filters WidgetFilters `json:"filters"`
	Display WidgetDisplay `json:"display"`
	Style   WidgetStyle   `json:"style"`
}

// StringList is stored as a JSON column.
type StringList []string

// Widget is a named, embeddable presentation of a tenant's testimonials.
// Impressions accumulates embed-script renders as a fire-and-forget counter.
type Widget struct {
	ID             string       `gorm:"primaryKey;size:36"`
	OwnerEmail     string       `gorm:"index;not null;size:320"`
	Name           string       `gorm:"not null;size:200"`
	Type           string       `gorm:"not null;size:16"`
	Config         WidgetConfig `gorm:"serializer:json"`
	AllowedDomains StringList   `gorm:"serializer:json"`
	Impressions    int64        `gorm:"not null;default:0"`
	CreatedAt      time.Time    `gorm:"autoCreateTime"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime"`
}

// WidgetInput holds the raw values used to construct a Widget.
type WidgetInput struct {
	OwnerEmail     string
	Name           string
	Type           string
	Config         WidgetConfig
	AllowedDomains []string
}

// NewWidget constructs a Widget with validated, normalized fields.
func NewWidget(input WidgetInput) (Widget, error) {
	ownerEmail := strings.ToLower(strings.TrimSpace(input.OwnerEmail))
	if ownerEmail == "" {
		return Widget{}, ErrInvalidWidgetOwner
	}

	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > widgetNameMaxLength {
		return Widget{}, ErrInvalidWidgetName
	}

	widgetType := strings.ToLower(strings.TrimSpace(input.Type))
	if !IsValidWidgetType(widgetType) {
		return Widget{}, fmt.Errorf("%w: %s", ErrInvalidWidgetType, input.Type)
	}

	allowedDomains, domainsErr := NormalizeAllowedDomains(input.AllowedDomains)
	if domainsErr != nil {
		return Widget{}, domainsErr
	}

	return Widget{
		ID:             uuid.NewString(),
		OwnerEmail:     ownerEmail,
		Name:           name,
		Type:           widgetType,
		Config:         input.Config,
		AllowedDomains: allowedDomains,
	}, nil
}

// IsValidWidgetType reports whether the provided type names a known layout.
func IsValidWidgetType(widgetType string) bool {
	switch widgetType {
	case WidgetTypeWall, WidgetTypeCarousel, WidgetTypeGrid, WidgetTypeSingle, WidgetTypeBadge:
		return true
	default:
		return false
	}
}

// NormalizeAllowedDomains lowercases, deduplicates, and validates the embed
// allow-list. An empty list means every origin may load the widget.
func NormalizeAllowedDomains(domains []string) (StringList, error) {
	if len(domains) == 0 {
		return nil, nil
	}
	if len(domains) > widgetDomainLimit {
		return nil, fmt.Errorf("%w: too many domains", ErrInvalidWidgetDomain)
	}

	normalized := make(StringList, 0, len(domains))
	seenDomains := make(map[string]struct{}, len(domains))
	for _, domain := range domains {
		trimmedDomain := strings.ToLower(strings.TrimSpace(domain))
		if trimmedDomain == "" {
			continue
		}
		if len(trimmedDomain) > widgetDomainMaxLength || strings.ContainsAny(trimmedDomain, " /:") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWidgetDomain, domain)
		}
		if _, alreadySeen := seenDomains[trimmedDomain]; alreadySeen {
			continue
		}
		seenDomains[trimmedDomain] = struct{}{}
		normalized = append(normalized, trimmedDomain)
	}
	if len(normalized) == 0 {
		return nil, nil
	}
	return normalized, nil
}
