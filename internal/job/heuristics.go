package job

import (
	"regexp"
	"strconv"
	"strings"
)

// Locations that mean "remote" without saying so.
var remoteAliases = map[string]struct{}{
	"anywhere":  {},
	"global":    {},
	"worldwide": {},
}

// DetectRemoteOption classifies a free-text location string. It is a pure
// function: the same input always yields the same option.
func DetectRemoteOption(location string) RemoteOption {
	location = strings.ToLower(strings.TrimSpace(location))
	if location == "" {
		return RemoteUnknown
	}

	hasRemote := strings.Contains(location, "remote")
	hasHybrid := strings.Contains(location, "hybrid")

	switch {
	case hasRemote && hasHybrid:
		return RemoteHybrid
	case hasRemote:
		return RemoteRemote
	case hasHybrid:
		return RemoteHybrid
	}

	if _, ok := remoteAliases[location]; ok {
		return RemoteRemote
	}

	return RemoteOnsite
}

var agePattern = regexp.MustCompile(`(\d+)\s*([dwmy])`)

// ParseAge converts an age token such as "6d", "2w", "1m" or "1y" into a
// day count (week=7, month=30, year=365). Unparseable or absent input
// yields nil, not zero.
func ParseAge(age string) *int {
	match := agePattern.FindStringSubmatch(strings.ToLower(age))
	if match == nil {
		return nil
	}

	n, err := strconv.Atoi(match[1])
	if err != nil {
		return nil
	}

	switch match[2] {
	case "w":
		n *= 7
	case "m":
		n *= 30
	case "y":
		n *= 365
	}

	return &n
}

// InferType guesses the seniority bucket from the position title and the
// source name. Lists curated for new grads usually carry the marker in
// the repository name rather than in every row.
func InferType(position, source string) Type {
	position = strings.ToLower(position)
	source = strings.ToLower(source)

	switch {
	case strings.Contains(position, "intern"):
		return TypeInternship
	case strings.Contains(position, "new grad") || strings.Contains(source, "new grad") || strings.Contains(source, "new-grad"):
		return TypeNewGrad
	default:
		return TypeEntryLevel
	}
}
