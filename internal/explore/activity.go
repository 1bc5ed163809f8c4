package explore

import (
	"fmt"
	"strings"
)

// ActivityType is the kind of content the user asked for. The set is
// closed: every value below activityCount has a display name, a slug and a
// prompt template.
type ActivityType int

const (
	DIYProject ActivityType = iota
	VirtualFieldTrip
	Challenge

	activityCount
)

var activityNames = [activityCount]string{
	DIYProject:       "DIY Project",
	VirtualFieldTrip: "Virtual Field Trip",
	Challenge:        "Challenge",
}

var activitySlugs = [activityCount]string{
	DIYProject:       "diy",
	VirtualFieldTrip: "field-trip",
	Challenge:        "challenge",
}

// Activities returns every activity type in display order.
func Activities() []ActivityType {
	out := make([]ActivityType, activityCount)
	for i := range out {
		out[i] = ActivityType(i)
	}
	return out
}

// Valid reports whether a is one of the known activity types.
func (a ActivityType) Valid() bool {
	return a >= 0 && a < activityCount
}

// String returns the display name ("DIY Project").
func (a ActivityType) String() string {
	if !a.Valid() {
		return fmt.Sprintf("ActivityType(%d)", int(a))
	}
	return activityNames[a]
}

// Slug returns the short machine name ("diy", "field-trip", "challenge").
func (a ActivityType) Slug() string {
	if !a.Valid() {
		return ""
	}
	return activitySlugs[a]
}

// ParseActivity accepts a display name, a slug, or a kebab-case display
// name, case-insensitively.
func ParseActivity(s string) (ActivityType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, a := range Activities() {
		name := strings.ToLower(activityNames[a])
		if key == name || key == activitySlugs[a] || key == strings.ReplaceAll(name, " ", "-") {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownActivity, s)
}

func (a ActivityType) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownActivity, int(a))
	}
	return []byte(a.Slug()), nil
}

func (a *ActivityType) UnmarshalText(b []byte) error {
	parsed, err := ParseActivity(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
