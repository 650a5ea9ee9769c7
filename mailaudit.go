// Package mailaudit audits email addresses at the syntax, DNS, domain,
// auth and SMTP probe levels.
//
// Basic usage:
//
//	result, err := mailaudit.New().Validate(ctx, "user@example.com")
//
// Full pipeline with an active deliverability probe:
//
//	result, err := mailaudit.New().
//	    WithDNS().
//	    WithDomain().
//	    WithAuth().
//	    WithProbe(mailaudit.ProbeOptions{
//	        HeloDomain:   "myapp.com",
//	        EnvelopeFrom: "verify@myapp.com",
//	    }).
//	    Validate(ctx, "user@example.com")
//
// The probe level opens a real SMTP session against the domain's mail
// exchangers and checks the recipient with RCPT TO; it never sends mail.
package mailaudit

import (
	"github.com/optimode/mailaudit/smtpprobe"
	"github.com/optimode/mailaudit/types"
)

// CheckResult is a re-export from the types package so that consumers
// don't need to import the types package directly.
type CheckResult = types.CheckResult

// CheckLevel is a re-export.
type CheckLevel = types.CheckLevel

// Level constants re-exported.
const (
	LevelSyntax = types.LevelSyntax
	LevelDNS    = types.LevelDNS
	LevelDomain = types.LevelDomain
	LevelAuth   = types.LevelAuth
	LevelProbe  = types.LevelProbe
)

// ProbeOptions configures the SMTP probe level. See smtpprobe.ProbeOptions
// for the field documentation.
type ProbeOptions = smtpprobe.ProbeOptions

// Existence is the probe's verdict on a mailbox.
type Existence = smtpprobe.Existence

// Existence variants re-exported.
const (
	Exists        = smtpprobe.Exists
	DoesNotExist  = smtpprobe.DoesNotExist
	CatchAll      = smtpprobe.CatchAll
	Indeterminate = smtpprobe.Indeterminate
)
