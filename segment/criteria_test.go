package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"almoner/models"
)

func TestAmountCriterion(t *testing.T) {
	tests := []struct {
		name      string
		criterion string
		total     float64
		want      bool
	}{
		{"total with threshold, above", "total >= 10000", 15000, true},
		{"total with threshold, below", "total >= 10000", 500, false},
		{"bare dollar amount, at threshold", "$5,000", 5000, true},
		{"bare dollar amount, below", "$5,000", 4999, false},
		{"comma grouping", "total over 1,000,000", 2000000, true},
		{"decimal amount", "99.50", 99.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := CompileCriterion(tt.criterion)
			d := models.Donor{TotalDonated: tt.total}
			assert.Equal(t, tt.want, match(d, testNow))
		})
	}
}

func TestStatusCriteria(t *testing.T) {
	active := models.Donor{Status: models.DonorStatusActive}
	lapsed := models.Donor{Status: models.DonorStatusLapsed}
	major := models.Donor{Status: models.DonorStatusMajor}

	assert.True(t, CompileCriterion("active donors")(active, testNow))
	assert.False(t, CompileCriterion("active donors")(lapsed, testNow))

	assert.True(t, CompileCriterion("Lapsed")(lapsed, testNow))
	assert.False(t, CompileCriterion("Lapsed")(active, testNow))

	assert.True(t, CompileCriterion("major supporters")(major, testNow))
	assert.False(t, CompileCriterion("major supporters")(active, testNow))
}

func TestEventCriterion(t *testing.T) {
	match := CompileCriterion("gala guests")

	assert.True(t, match(models.Donor{Description: "came to the gala"}, testNow))
	assert.True(t, match(models.Donor{Description: "Donor EVENT volunteer"}, testNow))
	// The custom rule only looks for event/gala, not attendee
	assert.False(t, match(models.Donor{Description: "conference attendee"}, testNow))
	assert.False(t, match(models.Donor{}, testNow))
}

func TestRecentDonationCriteria(t *testing.T) {
	within30 := CompileCriterion("gave in the last 30 days")
	lastMonth := CompileCriterion("donated last month")

	assert.True(t, within30(models.Donor{LastDonation: daysAgo(10)}, testNow))
	assert.True(t, within30(models.Donor{LastDonation: daysAgo(30)}, testNow))
	assert.False(t, within30(models.Donor{LastDonation: daysAgo(45)}, testNow))
	assert.False(t, within30(models.Donor{}, testNow))

	assert.True(t, lastMonth(models.Donor{LastDonation: daysAgo(10)}, testNow))
}

// The "6 months" criterion means a gift WITHIN the window — the opposite
// direction from the built-in Lapsed group.
func TestSixMonthsCriterionIsWithinWindow(t *testing.T) {
	match := CompileCriterion("donated in the last 6 months")

	recent := models.Donor{Status: models.DonorStatusLapsed, LastDonation: monthsAgo(2)}
	old := models.Donor{Status: models.DonorStatusLapsed, LastDonation: monthsAgo(8)}

	assert.True(t, match(recent, testNow))
	assert.False(t, match(old, testNow))

	// Same donors against the built-in rule go the other way
	assert.False(t, matchBuiltin(recent, GroupLapsedDonors, testNow))
	assert.True(t, matchBuiltin(old, GroupLapsedDonors, testNow))
}

func TestFallbackSubstringMatch(t *testing.T) {
	match := CompileCriterion("  Volunteers  ")

	assert.True(t, match(models.Donor{Description: "longtime volunteer, also volunteers at the shelter"}, testNow))
	assert.False(t, match(models.Donor{Description: "prefers phone calls"}, testNow))
	assert.False(t, match(models.Donor{}, testNow))
}

func TestRuleOrder(t *testing.T) {
	// "active" inside an amount criterion: the amount rule wins because
	// the text contains "total"
	match := CompileCriterion("active donors with total >= 1000")
	assert.True(t, match(models.Donor{Status: models.DonorStatusLapsed, TotalDonated: 5000}, testNow))
	assert.False(t, match(models.Donor{Status: models.DonorStatusActive, TotalDonated: 10}, testNow))

	// A number without "total"/">=" is not an amount criterion; "active"
	// claims it instead
	match = CompileCriterion("active 2024 cohort")
	assert.True(t, match(models.Donor{Status: models.DonorStatusActive}, testNow))
	assert.False(t, match(models.Donor{Status: models.DonorStatusLapsed, TotalDonated: 999999}, testNow))

	// "lapsed" outranks the "6 months" time window
	match = CompileCriterion("lapsed for 6 months")
	assert.True(t, match(models.Donor{Status: models.DonorStatusLapsed}, testNow))
	assert.False(t, match(models.Donor{Status: models.DonorStatusActive, LastDonation: daysAgo(5)}, testNow))
}

func TestMalformedCriterionNeverErrors(t *testing.T) {
	// Anything compiles to some predicate; garbage ends up as a
	// description substring match
	for _, raw := range []string{"", "???", "🎉🎉🎉", "total >="} {
		match := CompileCriterion(raw)
		assert.NotNil(t, match)
		// Must not panic
		match(models.Donor{Description: "notes"}, testNow)
	}
}
