package segment

import (
	"time"

	"almoner/models"
)

// FilterDonorsByGroup returns the donors matching the group, evaluated
// against the current wall clock.
func FilterDonorsByGroup(donors []models.Donor, group *Group) []models.Donor {
	return FilterDonorsByGroupAt(donors, group, time.Now())
}

// FilterDonorsByGroupAt is the engine's single entry point. now is held
// fixed for the whole pass so time-window predicates are consistent
// across one batch.
//
// Reserved identifiers always resolve through the built-in predicates;
// any Criteria attached to such a group are ignored. Custom groups OR
// their compiled criteria, and a custom group with no criteria matches
// every donor. The input slice is never mutated and the output preserves
// input order.
//
// A nil group is a caller contract violation and panics.
func FilterDonorsByGroupAt(donors []models.Donor, group *Group, now time.Time) []models.Donor {
	if group == nil {
		panic("segment: FilterDonorsByGroupAt called with nil group")
	}

	matched := make([]models.Donor, 0, len(donors))

	if group.ID <= MaxBuiltinID {
		for _, d := range donors {
			if matchBuiltin(d, group.ID, now) {
				matched = append(matched, d)
			}
		}
		return matched
	}

	if len(group.Criteria) == 0 {
		return append(matched, donors...)
	}

	predicates := make([]Predicate, len(group.Criteria))
	for i, criterion := range group.Criteria {
		predicates[i] = CompileCriterion(criterion)
	}

	for _, d := range donors {
		for _, match := range predicates {
			if match(d, now) {
				matched = append(matched, d)
				break
			}
		}
	}
	return matched
}

// CountDonors derives a group's donor count from the current donor list.
func CountDonors(donors []models.Donor, group *Group) int {
	return len(FilterDonorsByGroup(donors, group))
}
