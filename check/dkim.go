package check

import (
	"context"
	"strings"
)

// dkimOutcome summarizes the domain's DKIM posture for the auth details line.
type dkimOutcome struct {
	selector string // first selector carrying a usable key
	detail   string
}

// checkDKIM inspects DKIM key records at <selector>._domainkey.<domain>
// for each configured selector. Without selectors only the organizational
// policy record at _domainkey.<domain> can be observed; key records are
// unenumerable by design.
func (c *AuthChecker) checkDKIM(ctx context.Context, domain string) dkimOutcome {
	if len(c.cfg.DKIMSelectors) == 0 {
		if c.findRecord(ctx, "_domainkey."+domain, "") != "" {
			return dkimOutcome{detail: "DKIM policy record present"}
		}
		return dkimOutcome{}
	}

	var invalid, testing string
	for _, sel := range c.cfg.DKIMSelectors {
		rec := c.findRecord(ctx, sel+"._domainkey."+domain, "")
		if rec == "" {
			continue
		}
		switch classifyDKIMRecord(rec) {
		case dkimUsable:
			return dkimOutcome{selector: sel, detail: "DKIM present (" + sel + ")"}
		case dkimTesting:
			if testing == "" {
				testing = sel
			}
		default:
			if invalid == "" {
				invalid = sel
			}
		}
	}
	if testing != "" {
		return dkimOutcome{selector: testing, detail: "DKIM key in testing mode (" + testing + ")"}
	}
	if invalid != "" {
		return dkimOutcome{detail: "invalid DKIM record (" + invalid + ")"}
	}
	return dkimOutcome{detail: "no DKIM record for configured selectors"}
}

type dkimRecordStatus int

const (
	dkimInvalid dkimRecordStatus = iota
	dkimTesting
	dkimUsable
)

// classifyDKIMRecord validates a key record's tags: the version tag, when
// present, must be DKIM1; an empty p= tag means the key was revoked; t=y
// marks the key as still in testing.
func classifyDKIMRecord(record string) dkimRecordStatus {
	tags := dkimTags(record)
	if v, ok := tags["v"]; ok && v != "DKIM1" {
		return dkimInvalid
	}
	if tags["p"] == "" {
		return dkimInvalid
	}
	if strings.Contains(tags["t"], "y") {
		return dkimTesting
	}
	return dkimUsable
}

func dkimTags(record string) map[string]string {
	tags := make(map[string]string)
	for _, part := range strings.Split(record, ";") {
		part = strings.TrimSpace(part)
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		tags[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return tags
}
