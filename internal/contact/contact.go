package contact

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Contact is a person's name and phone number.
//
// ID is assigned by the store on insert and never changes afterwards.
// A zero ID marks a contact that has not been saved yet.
type Contact struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	PhoneNumber string `json:"phone" yaml:"phone"`
}

// New returns an unsaved contact with the given fields.
func New(name, phone string) Contact {
	return Contact{Name: name, PhoneNumber: phone}
}

// IsNew reports whether the contact has not been assigned an ID yet.
func (c Contact) IsNew() bool {
	return c.ID == 0
}

// Normalize returns a copy of c with surrounding whitespace trimmed and
// both text fields in Unicode NFC, so that visually identical input is
// stored identically regardless of how the keyboard composed it.
//
// No format validation is applied to PhoneNumber.
func Normalize(c Contact) Contact {
	c.Name = normalizeText(c.Name)
	c.PhoneNumber = normalizeText(c.PhoneNumber)
	return c
}

func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
