package models

import "time"

// Snapshot captures the full engine state for one session so a host
// persistence layer can checkpoint and resume it. The active question
// sequence is not stored: it is rebuilt deterministically from the registry
// given Stage, CurrentDomain, and Cursor, which keeps restored sessions
// bit-identical in behavior to the originals.
type Snapshot struct {
	SessionID      string      `json:"session_id,omitempty"`
	Stage          Stage       `json:"stage"`
	CurrentDomain  string      `json:"current_domain,omitempty"`
	PendingDomain  string      `json:"pending_domain,omitempty"`
	Cursor         int         `json:"cursor"`
	Responses      ResponseSet `json:"responses"`
	VisitedDomains []string    `json:"visited_domains"`
	DomainOrder    []string    `json:"domain_order"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
