// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/smerptek/smerp-site/internal/content"
	"github.com/smerptek/smerp-site/internal/metrics"
	"github.com/smerptek/smerp-site/internal/model"
)

// Contact form limits
const (
	MinNameLength    = 2
	MinMessageLength = 10
	MaxPhoneLength   = 32
)

// Validation messages returned to the visitor.
const (
	MsgNameTooShort    = "Name must be at least 2 characters"
	MsgInvalidEmail    = "Please enter a valid email address"
	MsgPhoneTooLong    = "Phone number is too long"
	MsgInvalidInterest = "Please select a valid area of interest"
	MsgMessageTooShort = "Message must be at least 10 characters"
	MsgConsentRequired = "You must agree to be contacted"
)

// ContactSuccessMessage is returned for every accepted submission.
const ContactSuccessMessage = "Thank you for contacting us. We will get back to you soon."

// ValidationError is a contact form field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ContactRequest is the body of POST /contact. Consent is kept raw so
// that only the JSON literal true is accepted.
type ContactRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Company  string          `json:"company"`
	Phone    string          `json:"phone"`
	Interest string          `json:"interest"`
	Message  string          `json:"message"`
	Consent  json.RawMessage `json:"consent"`
}

// Outcome tells where an accepted submission ended up.
type Outcome int

const (
	// OutcomePersisted means the submission was stored.
	OutcomePersisted Outcome = iota + 1
	// OutcomeLoggedOnly means storage was unavailable and the submission
	// was written to the log instead.
	OutcomeLoggedOnly
)

func (o Outcome) String() string {
	switch o {
	case OutcomePersisted:
		return metrics.OutcomePersisted
	case OutcomeLoggedOnly:
		return metrics.OutcomeLoggedOnly
	default:
		return "unknown"
	}
}

// SubmissionCreator stores form submissions.
type SubmissionCreator interface {
	Create(ctx context.Context, sub *model.FormSubmission) error
}

// ContactService validates and records contact form submissions.
type ContactService struct {
	forms  SubmissionCreator
	logger *slog.Logger
}

// NewContactService creates a contact service. A nil forms store puts the
// service in log-only mode.
func NewContactService(forms SubmissionCreator, logger *slog.Logger) *ContactService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactService{forms: forms, logger: logger}
}

// Validate checks the request in field order and returns the first failure.
// Free-text fields lose any markup and all values are trimmed in place.
func Validate(req *ContactRequest) *ValidationError {
	req.Name = plainText(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Company = plainText(req.Company)
	req.Phone = plainText(req.Phone)
	req.Interest = strings.TrimSpace(req.Interest)
	req.Message = plainText(req.Message)

	if utf8.RuneCountInString(req.Name) < MinNameLength {
		return &ValidationError{Field: "name", Message: MsgNameTooShort}
	}
	if !isValidEmail(req.Email) {
		return &ValidationError{Field: "email", Message: MsgInvalidEmail}
	}
	if utf8.RuneCountInString(req.Phone) > MaxPhoneLength {
		return &ValidationError{Field: "phone", Message: MsgPhoneTooLong}
	}
	if !model.IsValidInterest(req.Interest) {
		return &ValidationError{Field: "interest", Message: MsgInvalidInterest}
	}
	if utf8.RuneCountInString(req.Message) < MinMessageLength {
		return &ValidationError{Field: "message", Message: MsgMessageTooShort}
	}
	if !bytes.Equal(bytes.TrimSpace(req.Consent), []byte("true")) {
		return &ValidationError{Field: "consent", Message: MsgConsentRequired}
	}
	return nil
}

func plainText(s string) string {
	return strings.TrimSpace(content.StripTags(s))
}

// isValidEmail accepts a bare address only, no display name.
func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// Submit validates the request and stores it. Storage problems never fail
// the call: the submission is logged and OutcomeLoggedOnly returned. The
// only error is a *ValidationError.
func (s *ContactService) Submit(ctx context.Context, req ContactRequest) (Outcome, error) {
	if verr := Validate(&req); verr != nil {
		return 0, verr
	}

	data := model.ContactData{
		Name:     req.Name,
		Company:  req.Company,
		Phone:    req.Phone,
		Interest: req.Interest,
		Message:  req.Message,
	}

	outcome := s.store(ctx, req.Email, data)
	metrics.ContactSubmissionsTotal.WithLabelValues(outcome.String()).Inc()
	return outcome, nil
}

func (s *ContactService) store(ctx context.Context, email string, data model.ContactData) Outcome {
	logOnly := func(reason string, err error) Outcome {
		s.logger.Warn("contact submission not stored",
			"reason", reason,
			"error", err,
			"email", email,
			"name", data.Name,
			"company", data.Company,
			"phone", data.Phone,
			"interest", data.Interest,
			"message", data.Message,
		)
		return OutcomeLoggedOnly
	}

	if s.forms == nil {
		return logOnly("database not configured", nil)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return logOnly("encoding failed", err)
	}

	sub := &model.FormSubmission{
		Type:  model.SubmissionTypeContact,
		Email: email,
		Data:  payload,
	}
	if err := s.forms.Create(ctx, sub); err != nil {
		return logOnly("insert failed", err)
	}

	s.logger.Info("contact submission stored", "id", sub.ID, "interest", data.Interest)
	return OutcomePersisted
}
