// Package types contains the shared types for mailaudit.
// This package does not import anything from other mailaudit packages
// to avoid circular imports.
package types

// CheckLevel identifies the audit level.
type CheckLevel = string

const (
	LevelSyntax CheckLevel = "syntax"
	LevelDNS    CheckLevel = "dns"
	LevelDomain CheckLevel = "domain"
	LevelAuth   CheckLevel = "auth"
	LevelProbe  CheckLevel = "probe"
)

// CheckResult is the outcome of a single audit level.
type CheckResult struct {
	Level      CheckLevel `json:"level"`
	Passed     bool       `json:"passed"`
	Details    string     `json:"details,omitempty"`
	MXHost     string     `json:"mxHost,omitempty"`
	Suggestion string     `json:"suggestion,omitempty"`

	// Probe level only.
	Existence  string  `json:"existence,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`

	// Auth level only.
	SPFRecord    string `json:"spfRecord,omitempty"`
	DMARCPolicy  string `json:"dmarcPolicy,omitempty"`
	DKIMSelector string `json:"dkimSelector,omitempty"`
}
