package models

// RegisteredComponent represents a component registered in the system with metadata
type RegisteredComponent struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"schema"`
}
