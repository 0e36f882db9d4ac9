// Package notify formats and sends the match digest email.
package notify

import (
	"fmt"
	"strings"

	"jobradar/internal/match"
)

var separator = strings.Repeat("=", 60)

// Body renders the plain-text digest: one numbered entry per match with
// company, location, score, reason and the application link.
func Body(matches []*match.Match) string {
	var b strings.Builder

	b.WriteString("Top Job Matches Based on Your Resume\n")
	b.WriteString(separator + "\n\n")

	for i, m := range matches {
		position := m.Position
		if position == "" {
			position = "Unknown Position"
		}
		company := m.Company
		if company == "" {
			company = "Unknown Company"
		}
		location := m.Location
		if location == "" {
			location = "Unknown"
		}

		fmt.Fprintf(&b, "%d. %s\n", i+1, position)
		fmt.Fprintf(&b, "   Company: %s\n", company)
		fmt.Fprintf(&b, "   Location: %s\n", location)
		fmt.Fprintf(&b, "   Match Score: %d/100\n", m.MatchScore)
		if m.MatchReason != "" {
			fmt.Fprintf(&b, "   Reason: %s\n", m.MatchReason)
		}
		fmt.Fprintf(&b, "   Apply: %s\n\n", m.ApplyLink)
	}

	b.WriteString("\n" + separator + "\n")
	b.WriteString("Generated by jobradar\n")

	return b.String()
}
