// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Submission types
const (
	SubmissionTypeContact = "contact"
)

// FormSubmission is a visitor message. Data is an opaque payload whose
// shape depends on Type; only contact submissions are validated, at intake.
type FormSubmission struct {
	Base
	Type  string         `json:"type"`
	Email string         `json:"email"`
	Data  datatypes.JSON `json:"data"`
	Read  bool           `json:"read"`
}

func (FormSubmission) TableName() string    { return "form_submissions" }
func (FormSubmission) DefaultOrder() string { return orderByNewest }

func (FormSubmission) Filters() map[string]FilterField {
	return map[string]FilterField{
		"type":  {Column: "type"},
		"read":  {Column: "read", Bool: true},
		"email": {Column: "email"},
	}
}

// MutableColumns limits admin updates to the read flag.
func (FormSubmission) MutableColumns() []string {
	return []string{"read"}
}

func (f *FormSubmission) BeforeSave(*gorm.DB) error {
	if len(f.Data) == 0 {
		f.Data = datatypes.JSON("{}")
	}
	if f.Type == "" {
		f.Type = SubmissionTypeContact
	}
	return nil
}

// RecentSubmissionColumns is the field subset exposed in dashboard activity.
var RecentSubmissionColumns = []string{"id", "type", "email", "read", "created_at", "data"}

// ContactData is the payload of a contact submission.
type ContactData struct {
	Name     string `json:"name"`
	Company  string `json:"company,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Interest string `json:"interest"`
	Message  string `json:"message"`
}

// Contact interest categories
const (
	InterestERP               = "erp"
	InterestCRM               = "crm"
	InterestHRMS              = "hrms"
	InterestAccounting        = "accounting"
	InterestInventory         = "inventory"
	InterestEcommerce         = "ecommerce"
	InterestCustomDevelopment = "custom-development"
	InterestConsulting        = "consulting"
	InterestOther             = "other"
)

// ValidInterests returns all accepted contact interest categories.
func ValidInterests() []string {
	return []string{
		InterestERP,
		InterestCRM,
		InterestHRMS,
		InterestAccounting,
		InterestInventory,
		InterestEcommerce,
		InterestCustomDevelopment,
		InterestConsulting,
		InterestOther,
	}
}

// IsValidInterest checks if an interest category is valid.
func IsValidInterest(interest string) bool {
	for _, i := range ValidInterests() {
		if i == interest {
			return true
		}
	}
	return false
}
