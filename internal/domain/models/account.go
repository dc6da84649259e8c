package models

import "strings"

// Account is a user identity with a credit balance. ID is the lowercased email.
type Account struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Credits   int    `json:"credits"`
	Avatar    string `json:"avatar,omitempty"`
}

// AccountID normalizes an email into the account primary key.
func AccountID(email string) string {
	return strings.ToLower(email)
}
