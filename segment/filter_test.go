package segment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almoner/models"
)

func donorIDs(donors []models.Donor) []uint {
	ids := make([]uint, len(donors))
	for i, d := range donors {
		ids[i] = d.ID
	}
	return ids
}

func TestFilterBuiltinGroups(t *testing.T) {
	donors := []models.Donor{
		{
			ID:           1,
			TotalDonated: 12000,
			Status:       models.DonorStatusMajor,
			LastDonation: nil,
			CreatedAt:    time.Date(testNow.Year()-1, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:           2,
			TotalDonated: 500,
			Status:       models.DonorStatusActive,
			LastDonation: daysAgo(29),
			CreatedAt:    time.Date(testNow.Year(), 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	major := Group{ID: GroupMajorDonors}
	assert.Equal(t, []uint{1}, donorIDs(FilterDonorsByGroupAt(donors, &major, testNow)))

	monthly := Group{ID: GroupActiveMonthly}
	assert.Equal(t, []uint{2}, donorIDs(FilterDonorsByGroupAt(donors, &monthly, testNow)))

	firstTime := Group{ID: GroupFirstTime}
	assert.Equal(t, []uint{2}, donorIDs(FilterDonorsByGroupAt(donors, &firstTime, testNow)))
}

func TestBuiltinIgnoresAttachedCriteria(t *testing.T) {
	donors := []models.Donor{
		{ID: 1, TotalDonated: 12000, Status: models.DonorStatusLapsed},
		{ID: 2, TotalDonated: 100, Status: models.DonorStatusActive},
	}

	// A criteria list bolted onto a reserved id must not override the
	// hardcoded Major Donors rule
	group := Group{ID: GroupMajorDonors, Criteria: []string{"active"}}
	assert.Equal(t, []uint{1}, donorIDs(FilterDonorsByGroupAt(donors, &group, testNow)))
}

func TestCustomCriteriaORSemantics(t *testing.T) {
	donors := []models.Donor{
		{ID: 1, Status: models.DonorStatusLapsed, TotalDonated: 15000},
		{ID: 2, Status: models.DonorStatusActive, TotalDonated: 50},
		{ID: 3, Status: models.DonorStatusLapsed, TotalDonated: 50},
	}

	group := Group{ID: 7, Criteria: []string{"active", "total >= 10000"}}
	matched := FilterDonorsByGroupAt(donors, &group, testNow)

	// Donor 1 fails "active" but passes the amount criterion; donor 3
	// matches neither
	assert.Equal(t, []uint{1, 2}, donorIDs(matched))
}

func TestEmptyCriteriaMatchesAll(t *testing.T) {
	donors := []models.Donor{
		{ID: 1, Status: models.DonorStatusActive},
		{ID: 2, Status: models.DonorStatusLapsed},
	}

	group := Group{ID: 9, Criteria: nil}
	assert.Equal(t, []uint{1, 2}, donorIDs(FilterDonorsByGroupAt(donors, &group, testNow)))
}

func TestFilterPreservesOrderAndInput(t *testing.T) {
	donors := []models.Donor{
		{ID: 5, TotalDonated: 20000},
		{ID: 1, TotalDonated: 100},
		{ID: 9, TotalDonated: 11000},
		{ID: 3, TotalDonated: 10000},
	}
	original := make([]models.Donor, len(donors))
	copy(original, donors)

	group := Group{ID: GroupMajorDonors}
	first := FilterDonorsByGroupAt(donors, &group, testNow)
	second := FilterDonorsByGroupAt(donors, &group, testNow)

	// Stable subsequence of input order, same answer on repeat calls,
	// input untouched
	assert.Equal(t, []uint{5, 9, 3}, donorIDs(first))
	assert.Equal(t, first, second)
	assert.Equal(t, original, donors)
}

func TestFilterEmptyDonorList(t *testing.T) {
	group := Group{ID: 8, Criteria: []string{"active"}}
	matched := FilterDonorsByGroupAt(nil, &group, testNow)
	require.NotNil(t, matched)
	assert.Empty(t, matched)
}

func TestNilGroupPanics(t *testing.T) {
	assert.Panics(t, func() {
		FilterDonorsByGroupAt([]models.Donor{{ID: 1}}, nil, testNow)
	})
}

func TestCountDonors(t *testing.T) {
	donors := []models.Donor{
		{ID: 1, TotalDonated: 20000},
		{ID: 2, TotalDonated: 100},
	}
	group := Group{ID: GroupMajorDonors}
	assert.Equal(t, 1, CountDonors(donors, &group))
}
