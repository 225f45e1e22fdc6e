package widget

import (
	"strings"

	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/model"
)

const (
	// DefaultMaxItems caps rule-based selection when the configuration leaves
	// max_items unset. An explicit zero still yields an empty selection.
	DefaultMaxItems = 20
	// DefaultTruncateLength is the content length above which cards expose a
	// truncated form alongside the full text.
	DefaultTruncateLength = 200
	// DefaultItemsPerPage slices grid layouts when items_per_page is unset.
	DefaultItemsPerPage = 9

	DefaultAccentColor              = "#3b82f6"
	DefaultFallbackAvatarBackground = "#3b82f6"
	DefaultFallbackAvatarTextColor  = "#FFFFFF"
	DefaultBorderRadiusPx           = 8

	ShadowDepthNone   = "none"
	ShadowDepthSmall  = "sm"
	ShadowDepthMedium = "md"
	ShadowDepthLarge  = "lg"

	DensityComfortable = "comfortable"
	DensityCompact     = "compact"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

// SelectionFilters is the fully resolved form of model.WidgetFilters with all
// defaults applied.
type SelectionFilters struct {
	SelectedTestimonialIDs []string
	TestimonialOrder       []string
	FormIDs                []string
	OnlyFeatured           bool
	MinRating              int
	MaxItems               int
}

// DisplayOptions is the fully resolved form of model.WidgetDisplay.
type DisplayOptions struct {
	ShowRating     bool
	ShowPhoto      bool
	ShowCompany    bool
	ShowDate       bool
	TruncateLength int
	ShowReadMore   bool
	ItemsPerPage   int
}

// FallbackAvatarOptions resolves the fallback-avatar policy for customers
// without a photo.
type FallbackAvatarOptions struct {
	Kind            string
	PlaceholderURL  string
	BackgroundColor string
	TextColor       string
}

// StyleOptions is the fully resolved form of model.WidgetStyle.
type StyleOptions struct {
	Theme          string
	AccentColor    string
	BorderRadiusPx int
	ShadowDepth    string
	Density        string
	FallbackAvatar FallbackAvatarOptions
}

// ResolveSelectionFilters applies documented defaults to a persisted filter
// configuration. A minimum rating at or below zero disables the rating filter.
func ResolveSelectionFilters(filters model.WidgetFilters) SelectionFilters {
	maxItems := DefaultMaxItems
	if filters.MaxItems != nil {
		maxItems = *filters.MaxItems
		if maxItems < 0 {
			maxItems = 0
		}
	}

	minRating := filters.MinRating
	if minRating < 0 {
		minRating = 0
	}

	return SelectionFilters{
		SelectedTestimonialIDs: compactStrings(filters.SelectedTestimonialIDs),
		TestimonialOrder:       compactStrings(filters.TestimonialOrder),
		FormIDs:                compactStrings(filters.FormIDs),
		OnlyFeatured:           filters.OnlyFeatured,
		MinRating:              minRating,
		MaxItems:               maxItems,
	}
}

// ResolveDisplayOptions applies documented defaults to a persisted display
// configuration.
func ResolveDisplayOptions(display model.WidgetDisplay) DisplayOptions {
	truncateLength := DefaultTruncateLength
	if display.TruncateLength != nil && *display.TruncateLength > 0 {
		truncateLength = *display.TruncateLength
	}

	itemsPerPage := DefaultItemsPerPage
	if display.ItemsPerPage != nil && *display.ItemsPerPage > 0 {
		itemsPerPage = *display.ItemsPerPage
	}

	return DisplayOptions{
		ShowRating:     boolOrDefault(display.ShowRating, true),
		ShowPhoto:      boolOrDefault(display.ShowPhoto, true),
		ShowCompany:    boolOrDefault(display.ShowCompany, true),
		ShowDate:       boolOrDefault(display.ShowDate, true),
		TruncateLength: truncateLength,
		ShowReadMore:   boolOrDefault(display.ShowReadMore, true),
		ItemsPerPage:   itemsPerPage,
	}
}

// ResolveStyleOptions applies documented defaults to a persisted style
// configuration. The placeholder avatar kind only holds when a placeholder URL
// is actually configured.
func ResolveStyleOptions(style model.WidgetStyle) StyleOptions {
	theme := strings.ToLower(strings.TrimSpace(style.Theme))
	if theme != ThemeDark {
		theme = ThemeLight
	}

	accentColor := strings.TrimSpace(style.AccentColor)
	if accentColor == "" {
		accentColor = DefaultAccentColor
	}

	borderRadius := DefaultBorderRadiusPx
	if style.BorderRadiusPx != nil && *style.BorderRadiusPx >= 0 {
		borderRadius = *style.BorderRadiusPx
	}

	shadowDepth := strings.ToLower(strings.TrimSpace(style.ShadowDepth))
	switch shadowDepth {
	case ShadowDepthNone, ShadowDepthSmall, ShadowDepthMedium, ShadowDepthLarge:
	default:
		shadowDepth = ShadowDepthSmall
	}

	density := strings.ToLower(strings.TrimSpace(style.Density))
	if density != DensityCompact {
		density = DensityComfortable
	}

	avatarKind := strings.ToLower(strings.TrimSpace(style.FallbackAvatarKind))
	placeholderURL := strings.TrimSpace(style.FallbackAvatarURL)
	if avatarKind != model.FallbackAvatarKindPlaceholder || placeholderURL == "" {
		avatarKind = model.FallbackAvatarKindInitials
		placeholderURL = ""
	}

	avatarBackground := strings.TrimSpace(style.FallbackAvatarBackground)
	if avatarBackground == "" {
		avatarBackground = DefaultFallbackAvatarBackground
	}

	avatarTextColor := strings.TrimSpace(style.FallbackAvatarTextColor)
	if avatarTextColor == "" {
		avatarTextColor = DefaultFallbackAvatarTextColor
	}

	return StyleOptions{
		Theme:          theme,
		AccentColor:    accentColor,
		BorderRadiusPx: borderRadius,
		ShadowDepth:    shadowDepth,
		Density:        density,
		FallbackAvatar: FallbackAvatarOptions{
			Kind:            avatarKind,
			PlaceholderURL:  placeholderURL,
			BackgroundColor: avatarBackground,
			TextColor:       avatarTextColor,
		},
	}
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func compactStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	compacted := make([]string, 0, len(values))
	for _, value := range values {
		trimmedValue := strings.TrimSpace(value)
		if trimmedValue == "" {
			continue
		}
		compacted = append(compacted, trimmedValue)
	}
	if len(compacted) == 0 {
		return nil
	}
	return compacted
}
