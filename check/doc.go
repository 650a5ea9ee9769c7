// Package check contains the audit levels for mailaudit: syntax, dns,
// domain, auth and the active SMTP probe.
// Each type implements the checker interface defined in validator.go.
// These types can be used directly, but the recommended approach is
// to use the fluent builder API from the github.com/optimode/mailaudit package.
package check
