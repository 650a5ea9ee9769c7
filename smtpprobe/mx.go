package smtpprobe

import (
	"net"
	"sort"
	"strings"
)

// MxCandidate is one mail exchanger supplied by the DNS collaborator.
// Lower Priority means higher preference.
type MxCandidate struct {
	Host     string `json:"host"`
	Priority int    `json:"priority"`
}

// SelectCandidates orders and truncates the MX host list: ascending by
// priority, ties kept in input order, at most maxMX entries. The input
// slice is never mutated. An empty input yields an empty output, which
// callers must treat as "no mail exchanger" rather than a connection
// failure.
func SelectCandidates(records []MxCandidate, maxMX int) []MxCandidate {
	if len(records) == 0 {
		return nil
	}
	out := make([]MxCandidate, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	if maxMX > 0 && len(out) > maxMX {
		out = out[:maxMX]
	}
	return out
}

// FromNetMX adapts stdlib resolver output, trimming the trailing root dot
// from each exchange host.
func FromNetMX(records []*net.MX) []MxCandidate {
	out := make([]MxCandidate, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		host := strings.TrimSuffix(r.Host, ".")
		if host == "" {
			continue
		}
		out = append(out, MxCandidate{Host: host, Priority: int(r.Pref)})
	}
	return out
}
