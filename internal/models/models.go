// Package models defines the records kept in the render history.
package models

import "time"

// Render is a worker command produced by the filter chain.
type Render struct {
	ID         string    `json:"id"`
	Role       string    `json:"role"`
	Tokens     []string  `json:"tokens"`
	ConfigHash string    `json:"config_hash"`
	CreatedAt  time.Time `json:"created_at"`
}

// PDREntry represents a Process Decision Record for audit.
type PDREntry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	InputsHash string    `json:"inputs_hash"`
	Outcome    string    `json:"outcome"`
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
