package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	formNameMaxLength          = 200
	formTitleMaxLength         = 300
	formQuestionLabelMaxLength = 300
	formQuestionLimit          = 20
)

var (
	ErrInvalidFormOwner    = errors.New("invalid_form_owner")
	ErrInvalidFormName     = errors.New("invalid_form_name")
	ErrInvalidFormQuestion = errors.New("invalid_form_question")
)

// FormQuestion describes one custom question shown on a collection form.
type FormQuestion struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// FormQuestionList is stored as a JSON column on Form.
type FormQuestionList []FormQuestion

// Form is a customer-facing collection form owning submitted testimonials.
// AutoApprove controls the initial moderation status of new submissions.
type Form struct {
	ID          string           `gorm:"primaryKey;size:36"`
	OwnerEmail  string           `gorm:"index;not null;size:320"`
	Name        string           `gorm:"not null;size:200"`
	Title       string           `gorm:"size:300"`
	AutoApprove bool             `gorm:"not null;default:false"`
	Questions   FormQuestionList `gorm:"serializer:json"`
	CreatedAt   time.Time        `gorm:"autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime"`
}

// FormInput holds the raw values used to construct a Form.
type FormInput struct {
	OwnerEmail  string
	Name        string
	Title       string
	AutoApprove bool
	Questions   FormQuestionList
}

// NewForm constructs a Form with validated, normalized fields.
func NewForm(input FormInput) (Form, error) {
	ownerEmail := strings.ToLower(strings.TrimSpace(input.OwnerEmail))
	if ownerEmail == "" {
		return Form{}, ErrInvalidFormOwner
	}

	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > formNameMaxLength {
		return Form{}, ErrInvalidFormName
	}

	title := strings.TrimSpace(input.Title)
	if len(title) > formTitleMaxLength {
		return Form{}, fmt.Errorf("%w: title too long", ErrInvalidFormName)
	}

	questions, questionsErr := normalizeFormQuestions(input.Questions)
	if questionsErr != nil {
		return Form{}, questionsErr
	}

	return Form{
		ID:          uuid.NewString(),
		OwnerEmail:  ownerEmail,
		Name:        name,
		Title:       title,
		AutoApprove: input.AutoApprove,
		Questions:   questions,
	}, nil
}

func normalizeFormQuestions(questions FormQuestionList) (FormQuestionList, error) {
	if len(questions) == 0 {
		return nil, nil
	}
	if len(questions) > formQuestionLimit {
		return nil, fmt.Errorf("%w: too many questions", ErrInvalidFormQuestion)
	}

	normalized := make(FormQuestionList, 0, len(questions))
	for _, question := range questions {
		label := strings.TrimSpace(question.Label)
		if label == "" || len(label) > formQuestionLabelMaxLength {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFormQuestion, question.Label)
		}
		questionID := strings.TrimSpace(question.ID)
		if questionID == "" {
			questionID = uuid.NewString()
		}
		normalized = append(normalized, FormQuestion{
			ID:       questionID,
			Label:    label,
			Required: question.Required,
		})
	}
	return normalized, nil
}
