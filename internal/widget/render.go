package widget

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/model"
	"github.com/MarkoPoloResearchLab/testimonial_svc/pkg/initials"
)

const (
	starFilledGlyph = "★"
	starEmptyGlyph  = "☆"
	starSlotCount   = 5

	truncationSuffix = "..."

	emptyStateMessage = "No testimonials match your filter criteria."

	cardDateLayout = "Jan 2, 2006"

	classWidget         = "tsw-widget"
	classCard           = "tsw-card"
	classCardHeader     = "tsw-card-header"
	classCardMeta       = "tsw-card-meta"
	classCustomerName   = "tsw-name"
	classCompany        = "tsw-company"
	classDate           = "tsw-date"
	classAvatar         = "tsw-avatar"
	classAvatarInitials = "tsw-avatar-initials"
	classStars          = "tsw-stars"
	classStar           = "tsw-star"
	classStarFilled     = "tsw-star-filled"
	classVideo          = "tsw-video"
	classContent        = "tsw-content"
	classTextFull       = "tsw-text-full"
	classTextTruncated  = "tsw-text-truncated"
	classHidden         = "tsw-hidden"
	classReadMore       = "tsw-read-more"
	classEmptyState     = "tsw-empty"
	classCarouselTrack  = "tsw-track"
	classCarouselSlide  = "tsw-slide"
	classNavPrevious    = "tsw-nav tsw-nav-prev"
	classNavNext        = "tsw-nav tsw-nav-next"
	classDots           = "tsw-dots"
	classDot            = "tsw-dot"
	classDotActive      = "tsw-dot tsw-dot-active"
	classBadgeAverage   = "tsw-badge-average"
	classBadgeCount     = "tsw-badge-count"

	readMoreLabel           = "Read more"
	navigationPreviousLabel = "‹"
	navigationNextLabel     = "›"
)

// ErrUnknownWidgetType reports a widget type the renderer does not recognize.
var ErrUnknownWidgetType = errors.New("widget: unknown widget type")

// BadgeSummary aggregates ratings for the badge layout. Testimonials without a
// rating contribute zero to the sum while still counting toward the divisor.
type BadgeSummary struct {
	AverageRating    float64
	FilledStars      int
	TestimonialCount int
}

// SummarizeBadge computes the badge aggregate over the post-selection list.
// Zero testimonials yields a zero average rather than a division error.
func SummarizeBadge(testimonials []model.Testimonial) BadgeSummary {
	if len(testimonials) == 0 {
		return BadgeSummary{}
	}

	ratingSum := 0
	for _, testimonial := range testimonials {
		if testimonial.HasRating() {
			ratingSum += testimonial.Rating
		}
	}

	average := float64(ratingSum) / float64(len(testimonials))
	return BadgeSummary{
		AverageRating:    average,
		FilledStars:      int(math.Round(average)),
		TestimonialCount: len(testimonials),
	}
}

// RenderCard turns a single testimonial into its displayable card structure.
func RenderCard(testimonial model.Testimonial, display DisplayOptions, style StyleOptions) *Node {
	card := NewElement("div", Attr("class", classCard))

	card.Append(renderCardHeader(testimonial, display, style))

	if display.ShowRating && testimonial.HasRating() {
		card.Append(renderStars(testimonial.Rating))
	}

	if testimonial.VideoURL != "" {
		videoElement := NewElement("video", Attr("src", testimonial.VideoURL), Attr("controls", "controls"))
		card.Append(NewElement("div", Attr("class", classVideo)).Append(videoElement))
	}

	card.Append(renderCardContent(testimonial.Content, display))
	return card
}

func renderCardHeader(testimonial model.Testimonial, display DisplayOptions, style StyleOptions) *Node {
	header := NewElement("div", Attr("class", classCardHeader))
	header.Append(renderAvatar(testimonial, display, style))

	meta := NewElement("div", Attr("class", classCardMeta))
	meta.Append(NewElement("div", Attr("class", classCustomerName)).AppendText(testimonial.CustomerName))
	if display.ShowCompany && testimonial.CustomerCompany != "" {
		meta.Append(NewElement("div", Attr("class", classCompany)).AppendText(testimonial.CustomerCompany))
	}
	if display.ShowDate && !testimonial.SubmittedAt.IsZero() {
		meta.Append(NewElement("div", Attr("class", classDate)).AppendText(testimonial.SubmittedAt.Format(cardDateLayout)))
	}

	return header.Append(meta)
}

// renderAvatar resolves the avatar by strict precedence: the customer's own
// photo, then a configured placeholder image, then a generated initials badge.
func renderAvatar(testimonial model.Testimonial, display DisplayOptions, style StyleOptions) *Node {
	if display.ShowPhoto && testimonial.CustomerPhotoURL != "" {
		return NewElement("img",
			Attr("class", classAvatar),
			Attr("src", testimonial.CustomerPhotoURL),
			Attr("alt", testimonial.CustomerName),
		)
	}

	if style.FallbackAvatar.Kind == model.FallbackAvatarKindPlaceholder {
		return NewElement("img",
			Attr("class", classAvatar),
			Attr("src", style.FallbackAvatar.PlaceholderURL),
			Attr("alt", testimonial.CustomerName),
		)
	}

	badgeStyle := fmt.Sprintf("background-color:%s;color:%s", style.FallbackAvatar.BackgroundColor, style.FallbackAvatar.TextColor)
	return NewElement("div",
		Attr("class", classAvatarInitials),
		Attr("style", badgeStyle),
	).AppendText(initials.FromName(testimonial.CustomerName))
}

func renderStars(rating int) *Node {
	stars := NewElement("div", Attr("class", classStars), Attr("aria-label", fmt.Sprintf("%d out of %d stars", rating, starSlotCount)))
	for slot := 1; slot <= starSlotCount; slot++ {
		starClass := classStar
		starGlyph := starEmptyGlyph
		if slot <= rating {
			starClass = classStar + " " + classStarFilled
			starGlyph = starFilledGlyph
		}
		stars.Append(NewElement("span", Attr("class", starClass)).AppendText(starGlyph))
	}
	return stars
}

// renderCardContent exposes both the truncated and the full form when the
// content exceeds the truncation limit; within the limit only the full form
// exists and no toggle is offered.
func renderCardContent(content string, display DisplayOptions) *Node {
	contentBlock := NewElement("div", Attr("class", classContent))

	if len(content) <= display.TruncateLength {
		return contentBlock.Append(NewElement("p", Attr("class", classTextFull)).AppendText(content))
	}

	// The limit is a byte budget; back off to a rune boundary so the
	// truncated form never ends in a broken UTF-8 sequence.
	cutPoint := display.TruncateLength
	for cutPoint > 0 && !utf8.RuneStart(content[cutPoint]) {
		cutPoint--
	}
	truncated := content[:cutPoint] + truncationSuffix
	contentBlock.Append(NewElement("p", Attr("class", classTextTruncated)).AppendText(truncated))
	contentBlock.Append(NewElement("p", Attr("class", classTextFull+" "+classHidden)).AppendText(content))

	if display.ShowReadMore {
		contentBlock.Append(NewElement("button",
			Attr("class", classReadMore),
			Attr("type", "button"),
			Attr("data-expanded", "false"),
		).AppendText(readMoreLabel))
	}
	return contentBlock
}

// RenderContainer lays out the ordered card list for the requested widget
// type. An empty input renders the shared empty-state placeholder for every
// type; an unrecognized type is a configuration error.
func RenderContainer(testimonials []model.Testimonial, widgetType string, display DisplayOptions, style StyleOptions) (*Node, error) {
	if !model.IsValidWidgetType(widgetType) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWidgetType, widgetType)
	}

	container := NewElement("div",
		Attr("class", classWidget+" tsw-"+widgetType),
		Attr("data-widget-type", widgetType),
	)

	if len(testimonials) == 0 {
		return container.Append(NewElement("div", Attr("class", classEmptyState)).AppendText(emptyStateMessage)), nil
	}

	switch widgetType {
	case model.WidgetTypeWall:
		appendCards(container, testimonials, display, style)
	case model.WidgetTypeGrid:
		pageItems := testimonials
		if len(pageItems) > display.ItemsPerPage {
			pageItems = pageItems[:display.ItemsPerPage]
		}
		appendCards(container, pageItems, display, style)
	case model.WidgetTypeCarousel:
		appendCarousel(container, testimonials, display, style)
	case model.WidgetTypeSingle:
		container.Append(RenderCard(testimonials[0], display, style))
	case model.WidgetTypeBadge:
		appendBadge(container, testimonials)
	}

	return container, nil
}

func appendCards(container *Node, testimonials []model.Testimonial, display DisplayOptions, style StyleOptions) {
	for _, testimonial := range testimonials {
		container.Append(RenderCard(testimonial, display, style))
	}
}

func appendCarousel(container *Node, testimonials []model.Testimonial, display DisplayOptions, style StyleOptions) {
	track := NewElement("div", Attr("class", classCarouselTrack))
	for _, testimonial := range testimonials {
		track.Append(NewElement("div", Attr("class", classCarouselSlide)).Append(RenderCard(testimonial, display, style)))
	}
	container.Append(track)

	if len(testimonials) < 2 {
		return
	}

	container.Append(NewElement("button", Attr("class", classNavPrevious), Attr("type", "button"), Attr("aria-label", "Previous")).AppendText(navigationPreviousLabel))
	container.Append(NewElement("button", Attr("class", classNavNext), Attr("type", "button"), Attr("aria-label", "Next")).AppendText(navigationNextLabel))

	dots := NewElement("div", Attr("class", classDots))
	for slideIndex := range testimonials {
		dotClass := classDot
		if slideIndex == 0 {
			dotClass = classDotActive
		}
		dots.Append(NewElement("button",
			Attr("class", dotClass),
			Attr("type", "button"),
			Attr("data-slide-index", strconv.Itoa(slideIndex)),
			Attr("aria-label", fmt.Sprintf("Slide %d", slideIndex+1)),
		))
	}
	container.Append(dots)
}

func appendBadge(container *Node, testimonials []model.Testimonial) {
	summary := SummarizeBadge(testimonials)
	container.Append(renderStars(summary.FilledStars))
	container.Append(NewElement("span", Attr("class", classBadgeAverage)).AppendText(strconv.FormatFloat(summary.AverageRating, 'f', 1, 64)))
	container.Append(NewElement("span", Attr("class", classBadgeCount)).AppendText(badgeCountLabel(summary.TestimonialCount)))
}

func badgeCountLabel(count int) string {
	if count == 1 {
		return "1 testimonial"
	}
	return fmt.Sprintf("%d testimonials", count)
}
