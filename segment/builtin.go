package segment

import (
	"strings"
	"time"

	"almoner/models"
)

// Reserved group identifiers.
const (
	GroupMajorDonors    = 1
	GroupActiveMonthly  = 2
	GroupLapsedDonors   = 3
	GroupFirstTime      = 4
	GroupEventAttendees = 5
)

// MajorDonorThreshold is the lifetime-giving floor for built-in group 1.
const MajorDonorThreshold = 10000

// builtinGroups is the static catalogue of the five reserved groups.
// The Criteria strings here are display text only; matching for these
// groups is hardcoded in matchBuiltin and never reads Criteria.
var builtinGroups = []Group{
	{
		ID:          GroupMajorDonors,
		Name:        "Major Donors",
		Description: "Supporters with $10,000 or more in lifetime giving",
		Criteria:    []string{"total >= $10,000"},
		Color:       "#f59e0b",
	},
	{
		ID:          GroupActiveMonthly,
		Name:        "Active Monthly Givers",
		Description: "Active supporters who gave within the last 30 days",
		Criteria:    []string{"active", "donated in last 30 days"},
		Color:       "#10b981",
	},
	{
		ID:          GroupLapsedDonors,
		Name:        "Lapsed Donors",
		Description: "Lapsed supporters whose last gift is over 6 months old",
		Criteria:    []string{"lapsed", "no donation in 6 months"},
		Color:       "#ef4444",
	},
	{
		ID:          GroupFirstTime,
		Name:        "First-Time Donors",
		Description: "Supporters added this calendar year",
		Criteria:    []string{"joined this year"},
		Color:       "#3b82f6",
	},
	{
		ID:          GroupEventAttendees,
		Name:        "Event Attendees",
		Description: "Supporters noted as attending an event or gala",
		Criteria:    []string{"event", "gala"},
		Color:       "#8b5cf6",
	},
}

// BuiltinGroups returns the reserved groups in fixed ID order 1-5.
// Callers get fresh copies; the catalogue itself is never mutated.
func BuiltinGroups() []Group {
	out := make([]Group, len(builtinGroups))
	copy(out, builtinGroups)
	return out
}

// matchBuiltin decides membership of one donor in one reserved group.
// Each identifier has its own closed predicate; unknown identifiers
// match nothing. now is fixed by the caller for the whole filter pass.
func matchBuiltin(d models.Donor, id int, now time.Time) bool {
	switch id {
	case GroupMajorDonors:
		return d.TotalDonated >= MajorDonorThreshold
	case GroupActiveMonthly:
		// Inclusive lower bound: a gift exactly 30 days ago still counts.
		return d.Status == models.DonorStatusActive &&
			d.LastDonation != nil &&
			!d.LastDonation.Before(now.AddDate(0, 0, -30))
	case GroupLapsedDonors:
		return d.Status == models.DonorStatusLapsed &&
			d.LastDonation != nil &&
			d.LastDonation.Before(now.AddDate(0, -6, 0))
	case GroupFirstTime:
		return !d.CreatedAt.IsZero() && d.CreatedAt.Year() == now.Year()
	case GroupEventAttendees:
		if d.Description == "" {
			return false
		}
		desc := strings.ToLower(d.Description)
		return strings.Contains(desc, "event") ||
			strings.Contains(desc, "gala") ||
			strings.Contains(desc, "attendee")
	}
	return false
}
