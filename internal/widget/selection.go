package widget

import (
	"sort"

	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/model"
)

// unorderedPositionSentinel sorts explicitly selected testimonials that are
// absent from the curator's order list after every ordered entry. The relative
// order among such entries follows the fetch order (stable sort).
const unorderedPositionSentinel = int(^uint(0) >> 1)

// Select reduces a tenant's full testimonial set to the ordered list a widget
// instance shows. Non-approved testimonials never survive selection. A
// non-empty explicit-selection list overrides every rule-based filter and
// supplies the output order itself when no separate order list exists; rule
// mode applies form scope, featured-only, and minimum-rating filters
// conjunctively, orders by recency, and caps at MaxItems. An empty result is a
// valid, renderable state.
func Select(allTestimonials []model.Testimonial, filters SelectionFilters) []model.Testimonial {
	eligible := make([]model.Testimonial, 0, len(allTestimonials))
	for _, testimonial := range allTestimonials {
		if testimonial.IsApproved() {
			eligible = append(eligible, testimonial)
		}
	}

	if len(filters.SelectedTestimonialIDs) > 0 {
		return selectExplicit(eligible, filters)
	}
	return selectByRules(eligible, filters)
}

func selectExplicit(eligible []model.Testimonial, filters SelectionFilters) []model.Testimonial {
	selectedIDs := make(map[string]struct{}, len(filters.SelectedTestimonialIDs))
	for _, testimonialID := range filters.SelectedTestimonialIDs {
		selectedIDs[testimonialID] = struct{}{}
	}

	selected := make([]model.Testimonial, 0, len(selectedIDs))
	for _, testimonial := range eligible {
		if _, isSelected := selectedIDs[testimonial.ID]; isSelected {
			selected = append(selected, testimonial)
		}
	}

	orderSource := filters.TestimonialOrder
	if len(orderSource) == 0 {
		orderSource = filters.SelectedTestimonialIDs
	}

	positionsByID := make(map[string]int, len(orderSource))
	for position, testimonialID := range orderSource {
		if _, alreadyListed := positionsByID[testimonialID]; !alreadyListed {
			positionsByID[testimonialID] = position
		}
	}

	sort.SliceStable(selected, func(left int, right int) bool {
		return orderPosition(positionsByID, selected[left].ID) < orderPosition(positionsByID, selected[right].ID)
	})
	return selected
}

func selectByRules(eligible []model.Testimonial, filters SelectionFilters) []model.Testimonial {
	var formIDs map[string]struct{}
	if len(filters.FormIDs) > 0 {
		formIDs = make(map[string]struct{}, len(filters.FormIDs))
		for _, formID := range filters.FormIDs {
			formIDs[formID] = struct{}{}
		}
	}

	matched := make([]model.Testimonial, 0, len(eligible))
	for _, testimonial := range eligible {
		if formIDs != nil {
			if _, inScope := formIDs[testimonial.FormID]; !inScope {
				continue
			}
		}
		if filters.OnlyFeatured && !testimonial.Featured {
			continue
		}
		if filters.MinRating > 0 && testimonial.Rating < filters.MinRating {
			continue
		}
		matched = append(matched, testimonial)
	}

	sort.SliceStable(matched, func(left int, right int) bool {
		return matched[left].SubmittedAt.After(matched[right].SubmittedAt)
	})

	if len(matched) > filters.MaxItems {
		matched = matched[:filters.MaxItems]
	}
	return matched
}

func orderPosition(positionsByID map[string]int, testimonialID string) int {
	if position, isOrdered := positionsByID[testimonialID]; isOrdered {
		return position
	}
	return unorderedPositionSentinel
}
