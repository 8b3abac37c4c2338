package segment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almoner/models"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := testNow.AddDate(0, 0, -n)
	return &t
}

func monthsAgo(n int) *time.Time {
	t := testNow.AddDate(0, -n, 0)
	return &t
}

func TestBuiltinGroupsCatalogue(t *testing.T) {
	groups := BuiltinGroups()
	require.Len(t, groups, 5)
	for i, g := range groups {
		assert.Equal(t, i+1, g.ID)
		assert.True(t, g.Builtin())
		assert.NotEmpty(t, g.Name)
	}
	assert.Equal(t, "Major Donors", groups[0].Name)
	assert.Equal(t, "Event Attendees", groups[4].Name)
}

func TestMajorDonors(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		want  bool
	}{
		{"well above threshold", 12000, true},
		{"exactly at threshold", 10000, true},
		{"just below threshold", 9999.99, false},
		{"zero", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := models.Donor{TotalDonated: tt.total, Status: models.DonorStatusLapsed}
			assert.Equal(t, tt.want, matchBuiltin(d, GroupMajorDonors, testNow))
		})
	}
}

func TestActiveMonthlyGivers(t *testing.T) {
	tests := []struct {
		name   string
		status models.DonorStatus
		last   *time.Time
		want   bool
	}{
		{"active, gave yesterday", models.DonorStatusActive, daysAgo(1), true},
		{"active, gave exactly 30 days ago", models.DonorStatusActive, daysAgo(30), true},
		{"active, gave 31 days ago", models.DonorStatusActive, daysAgo(31), false},
		{"lapsed, gave yesterday", models.DonorStatusLapsed, daysAgo(1), false},
		{"active, never donated", models.DonorStatusActive, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := models.Donor{Status: tt.status, LastDonation: tt.last}
			assert.Equal(t, tt.want, matchBuiltin(d, GroupActiveMonthly, testNow))
		})
	}
}

func TestLapsedDonors(t *testing.T) {
	tests := []struct {
		name   string
		status models.DonorStatus
		last   *time.Time
		want   bool
	}{
		{"lapsed, gave 7 months ago", models.DonorStatusLapsed, monthsAgo(7), true},
		{"lapsed, gave 5 months ago", models.DonorStatusLapsed, monthsAgo(5), false},
		{"lapsed, gave exactly 6 months ago", models.DonorStatusLapsed, monthsAgo(6), false},
		{"active, gave 7 months ago", models.DonorStatusActive, monthsAgo(7), false},
		{"lapsed, never donated", models.DonorStatusLapsed, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := models.Donor{Status: tt.status, LastDonation: tt.last}
			assert.Equal(t, tt.want, matchBuiltin(d, GroupLapsedDonors, testNow))
		})
	}
}

func TestFirstTimeDonors(t *testing.T) {
	tests := []struct {
		name    string
		created time.Time
		want    bool
	}{
		{"created this year", time.Date(testNow.Year(), 2, 1, 0, 0, 0, 0, time.UTC), true},
		{"created january 1 this year", time.Date(testNow.Year(), 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"created last year", time.Date(testNow.Year()-1, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{"zero created date", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := models.Donor{CreatedAt: tt.created}
			assert.Equal(t, tt.want, matchBuiltin(d, GroupFirstTime, testNow))
		})
	}
}

func TestEventAttendees(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        bool
	}{
		{"mentions gala", "Attended the spring GALA 2024", true},
		{"mentions event", "met at donor event", true},
		{"mentions attendee", "Conference Attendee", true},
		{"unrelated notes", "prefers email contact", false},
		{"no description", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := models.Donor{Description: tt.description}
			assert.Equal(t, tt.want, matchBuiltin(d, GroupEventAttendees, testNow))
		})
	}
}

func TestUnknownBuiltinIDMatchesNothing(t *testing.T) {
	d := models.Donor{TotalDonated: 50000, Status: models.DonorStatusActive, Description: "gala"}
	assert.False(t, matchBuiltin(d, 0, testNow))
	assert.False(t, matchBuiltin(d, -3, testNow))
}
