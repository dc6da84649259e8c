package models

// DemoPair is a before/after slider entry derived from two catalog records.
type DemoPair struct {
	ID     int    `json:"id"`
	Label  string `json:"label"`
	Before string `json:"before"`
	After  string `json:"after"`
}
