package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	TestimonialStatusPending  = "pending"
	TestimonialStatusApproved = "approved"
	TestimonialStatusRejected = "rejected"

	RatingMinimum = 1
	RatingMaximum = 5

	testimonialNameMaxLength     = 200
	testimonialEmailMaxLength    = 320
	testimonialCompanyMaxLength  = 200
	testimonialContentMaxLength  = 4000
	testimonialPhotoURLMaxLength = 500
	testimonialVideoURLMaxLength = 500
)

var (
	ErrInvalidTestimonialFormID  = errors.New("invalid_testimonial_form_id")
	ErrInvalidTestimonialName    = errors.New("invalid_testimonial_name")
	ErrInvalidTestimonialContent = errors.New("invalid_testimonial_content")
	ErrInvalidTestimonialRating  = errors.New("invalid_testimonial_rating")
	ErrInvalidTestimonialStatus  = errors.New("invalid_testimonial_status")
	ErrInvalidTestimonialField   = errors.New("invalid_testimonial_field")
)

// AnswerMap maps custom form question identifiers to submitted answers.
type AnswerMap map[string]string

// Testimonial captures a single customer submission. Rating zero means the
// customer left no rating; valid ratings are 1 through 5.
type Testimonial struct {
	ID               string    `gorm:"primaryKey;size:36"`
	FormID           string    `gorm:"index;not null;size:36"`
	OwnerEmail       string    `gorm:"index;size:320"`
	CustomerName     string    `gorm:"not null;size:200"`
	CustomerEmail    string    `gorm:"size:320"`
	CustomerCompany  string    `gorm:"size:200"`
	CustomerPhotoURL string    `gorm:"size:500"`
	Content          string    `gorm:"not null;size:4000"`
	Rating           int       `gorm:"not null;default:0"`
	VideoURL         string    `gorm:"size:500"`
	Status           string    `gorm:"not null;size:16;index"`
	Featured         bool      `gorm:"not null;default:false;index"`
	Answers          AnswerMap `gorm:"serializer:json"`
	SubmittedAt      time.Time `gorm:"not null;index"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

// TestimonialInput holds the raw values used to construct a Testimonial.
type TestimonialInput struct {
	FormID           string
	OwnerEmail       string
	CustomerName     string
	CustomerEmail    string
	CustomerCompany  string
	CustomerPhotoURL string
	Content          string
	Rating           int
	VideoURL         string
	Status           string
	Featured         bool
	Answers          AnswerMap
	SubmittedAt      time.Time
}

// NewTestimonial constructs a Testimonial with validated, normalized fields.
func NewTestimonial(input TestimonialInput) (Testimonial, error) {
	formID := strings.TrimSpace(input.FormID)
	if formID == "" {
		return Testimonial{}, ErrInvalidTestimonialFormID
	}

	customerName := strings.TrimSpace(input.CustomerName)
	if customerName == "" || len(customerName) > testimonialNameMaxLength {
		return Testimonial{}, ErrInvalidTestimonialName
	}

	content := strings.TrimSpace(input.Content)
	if content == "" || len(content) > testimonialContentMaxLength {
		return Testimonial{}, ErrInvalidTestimonialContent
	}

	if input.Rating != 0 && (input.Rating < RatingMinimum || input.Rating > RatingMaximum) {
		return Testimonial{}, ErrInvalidTestimonialRating
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = TestimonialStatusPending
	}
	if !IsValidTestimonialStatus(status) {
		return Testimonial{}, fmt.Errorf("%w: %s", ErrInvalidTestimonialStatus, status)
	}

	customerEmail := strings.ToLower(strings.TrimSpace(input.CustomerEmail))
	if len(customerEmail) > testimonialEmailMaxLength {
		return Testimonial{}, fmt.Errorf("%w: email too long", ErrInvalidTestimonialField)
	}

	customerCompany := strings.TrimSpace(input.CustomerCompany)
	if len(customerCompany) > testimonialCompanyMaxLength {
		return Testimonial{}, fmt.Errorf("%w: company too long", ErrInvalidTestimonialField)
	}

	customerPhotoURL := strings.TrimSpace(input.CustomerPhotoURL)
	if len(customerPhotoURL) > testimonialPhotoURLMaxLength {
		return Testimonial{}, fmt.Errorf("%w: photo url too long", ErrInvalidTestimonialField)
	}

	videoURL := strings.TrimSpace(input.VideoURL)
	if len(videoURL) > testimonialVideoURLMaxLength {
		return Testimonial{}, fmt.Errorf("%w: video url too long", ErrInvalidTestimonialField)
	}

	submittedAt := input.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}

	return Testimonial{
		ID:               uuid.NewString(),
		FormID:           formID,
		OwnerEmail:       strings.ToLower(strings.TrimSpace(input.OwnerEmail)),
		CustomerName:     customerName,
		CustomerEmail:    customerEmail,
		CustomerCompany:  customerCompany,
		CustomerPhotoURL: customerPhotoURL,
		Content:          content,
		Rating:           input.Rating,
		VideoURL:         videoURL,
		Status:           status,
		Featured:         input.Featured,
		Answers:          input.Answers,
		SubmittedAt:      submittedAt,
	}, nil
}

// IsValidTestimonialStatus reports whether the provided status is a known moderation state.
func IsValidTestimonialStatus(status string) bool {
	switch status {
	case TestimonialStatusPending, TestimonialStatusApproved, TestimonialStatusRejected:
		return true
	default:
		return false
	}
}

// HasRating reports whether the customer supplied a rating.
func (testimonial Testimonial) HasRating() bool {
	return testimonial.Rating >= RatingMinimum && testimonial.Rating <= RatingMaximum
}

// IsApproved reports whether the testimonial is eligible for widget display.
func (testimonial Testimonial) IsApproved() bool {
	return testimonial.Status == TestimonialStatusApproved
}
