package widget

import (
	"fmt"
	"strings"

	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/model"
)

const (
	gridMobileBreakpointPx = 640
	gridColumnCount        = 3
	wallMinimumColumnPx    = 280

	starColor = "#f59e0b"
)

var shadowValuesByDepth = map[string]string{
	ShadowDepthNone:   "none",
	ShadowDepthSmall:  "0 1px 3px rgba(0,0,0,0.12)",
	ShadowDepthMedium: "0 4px 6px rgba(0,0,0,0.12)",
	ShadowDepthLarge:  "0 10px 20px rgba(0,0,0,0.16)",
}

var cardPaddingByDensity = map[string]string{
	DensityComfortable: "20px",
	DensityCompact:     "12px",
}

// Stylesheet builds the widget CSS scoped under the provided container
// selector, so repeated injection for different widgets on one page cannot
// collide.
func Stylesheet(containerSelector string, widgetType string, style StyleOptions) string {
	var builder strings.Builder

	textColor := "#1f2937"
	mutedColor := "#6b7280"
	surfaceColor := "#ffffff"
	if style.Theme == ThemeDark {
		textColor = "#f9fafb"
		mutedColor = "#9ca3af"
		surfaceColor = "#1f2937"
	}

	writeRule := func(selector string, declarations string) {
		builder.WriteString(containerSelector)
		builder.WriteString(" ")
		builder.WriteString(selector)
		builder.WriteString("{")
		builder.WriteString(declarations)
		builder.WriteString("}")
	}

	writeRule("."+classWidget, "font-family:system-ui,-apple-system,sans-serif;color:"+textColor+";")
	writeRule("."+classCard, fmt.Sprintf(
		"background:%s;border-radius:%dpx;box-shadow:%s;padding:%s;margin:8px 0;break-inside:avoid;",
		surfaceColor, style.BorderRadiusPx, shadowValuesByDepth[style.ShadowDepth], cardPaddingByDensity[style.Density],
	))
	writeRule("."+classCardHeader, "display:flex;align-items:center;gap:12px;margin-bottom:8px;")
	writeRule("."+classAvatar, "width:40px;height:40px;border-radius:50%;object-fit:cover;")
	writeRule("."+classAvatarInitials, "width:40px;height:40px;border-radius:50%;display:flex;align-items:center;justify-content:center;font-weight:600;")
	writeRule("."+classCustomerName, "font-weight:600;")
	writeRule("."+classCompany, "font-size:13px;color:"+mutedColor+";")
	writeRule("."+classDate, "font-size:12px;color:"+mutedColor+";")
	writeRule("."+classStars, "color:"+starColor+";letter-spacing:2px;margin-bottom:6px;")
	writeRule("."+classVideo+" video", "width:100%;border-radius:6px;margin-bottom:8px;")
	writeRule("."+classContent+" p", "margin:0;line-height:1.5;")
	writeRule("."+classHidden, "display:none;")
	writeRule("."+classReadMore, "background:none;border:none;padding:0;margin-top:6px;cursor:pointer;color:"+style.AccentColor+";font-size:13px;")
	writeRule("."+classEmptyState, "padding:24px;text-align:center;color:"+mutedColor+";")

	switch widgetType {
	case model.WidgetTypeWall:
		writeRule(".tsw-wall", fmt.Sprintf("columns:auto %dpx;column-gap:16px;", wallMinimumColumnPx))
	case model.WidgetTypeGrid:
		writeRule(".tsw-grid", fmt.Sprintf("display:grid;grid-template-columns:repeat(%d,1fr);gap:16px;", gridColumnCount))
		builder.WriteString(fmt.Sprintf(
			"@media(max-width:%dpx){%s .tsw-grid{grid-template-columns:1fr;}}",
			gridMobileBreakpointPx, containerSelector,
		))
	case model.WidgetTypeCarousel:
		writeRule(".tsw-carousel", "position:relative;overflow:hidden;")
		writeRule("."+classCarouselTrack, "display:flex;transition:transform 0.4s ease;")
		writeRule("."+classCarouselSlide, "flex:0 0 100%;box-sizing:border-box;padding:0 4px;")
		writeRule(".tsw-nav", "position:absolute;top:50%;transform:translateY(-50%);background:"+style.AccentColor+";color:#fff;border:none;border-radius:50%;width:32px;height:32px;cursor:pointer;")
		writeRule(".tsw-nav-prev", "left:8px;")
		writeRule(".tsw-nav-next", "right:8px;")
		writeRule("."+classDots, "display:flex;justify-content:center;gap:6px;margin-top:10px;")
		writeRule("."+classDot, "width:8px;height:8px;border-radius:50%;border:none;padding:0;background:"+mutedColor+";cursor:pointer;")
		writeRule(".tsw-dot-active", "background:"+style.AccentColor+";")
	case model.WidgetTypeBadge:
		writeRule(".tsw-badge", "display:inline-flex;align-items:center;gap:8px;padding:8px 14px;background:"+surfaceColor+";border-radius:999px;box-shadow:"+shadowValuesByDepth[style.ShadowDepth]+";")
		writeRule("."+classBadgeAverage, "font-weight:700;")
		writeRule("."+classBadgeCount, "font-size:13px;color:"+mutedColor+";")
	}

	return builder.String()
}
