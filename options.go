package mailaudit

import "time"

// DNSOptions configures the DNS audit level.
type DNSOptions struct {
	// Timeout is the maximum time for MX lookup. Default: 5s
	Timeout time.Duration
	// FallbackToA when true accepts A records when no MX record is found,
	// the implicit-MX rule of RFC 5321 §5.1. Default: false
	FallbackToA bool
}

func defaultDNSOptions() DNSOptions {
	return DNSOptions{
		Timeout:     5 * time.Second,
		FallbackToA: false,
	}
}

// DomainOptions configures the domain-level audit.
type DomainOptions struct {
	// CheckDisposable when true fails on known disposable domains. Default: true
	CheckDisposable bool
	// CheckTypos when true suggests corrections for close-match domains. Default: true
	// This never fails an email, only provides a suggestion (Suggestion field).
	CheckTypos bool
	// TypoThreshold is the Levenshtein distance threshold for typo detection. Default: 2
	TypoThreshold int
}

func defaultDomainOptions() DomainOptions {
	return DomainOptions{
		CheckDisposable: true,
		CheckTypos:      true,
		TypoThreshold:   2,
	}
}

// AuthOptions configures the auth audit level (SPF, DKIM and DMARC presence).
type AuthOptions struct {
	// Timeout is the maximum time per TXT lookup. Default: 5s
	Timeout time.Duration
	// RequireDMARC when true fails the level if no DMARC record exists.
	// Default: false (DMARC absence is reported but does not fail)
	RequireDMARC bool
	// DKIMSelectors are the DKIM selectors to check key records for.
	// Selectors cannot be discovered over DNS, so none are checked by
	// default; common choices are "default", "selector1", "google".
	DKIMSelectors []string
}

func defaultAuthOptions() AuthOptions {
	return AuthOptions{
		Timeout:      5 * time.Second,
		RequireDMARC: false,
	}
}
