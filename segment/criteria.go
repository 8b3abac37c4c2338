package segment

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"almoner/models"
)

// Predicate decides membership of one donor at a fixed evaluation time.
type Predicate func(d models.Donor, now time.Time) bool

// Criterion matching is deliberately a best-effort heuristic over free
// text, not a query language. Each criterion compiles to exactly one
// predicate: the rules below are tried in order and the first recognizer
// that fires wins. Nothing ever fails to compile — text no rule claims
// falls through to a case-insensitive description substring match.

var (
	amountToken = regexp.MustCompile(`\$?\d[\d,]*(\.\d+)?`)
	bareAmount  = regexp.MustCompile(`^\$?\d[\d,]*(\.\d+)?$`)
)

type criterionRule struct {
	recognize func(text string) bool
	build     func(text string) Predicate
}

// criterionRules is evaluated top to bottom; order is part of the
// contract. The amount rule must run first so "total >= 5000" is read as
// a threshold rather than matched as description text, and the status
// words must outrank the time-window phrases.
var criterionRules = []criterionRule{
	{
		recognize: func(text string) bool {
			if !amountToken.MatchString(text) {
				return false
			}
			return strings.Contains(text, "total") ||
				strings.Contains(text, ">=") ||
				bareAmount.MatchString(text)
		},
		build: func(text string) Predicate {
			amount := parseAmount(amountToken.FindString(text))
			return func(d models.Donor, _ time.Time) bool {
				return d.TotalDonated >= amount
			}
		},
	},
	{
		recognize: func(text string) bool { return strings.Contains(text, "active") },
		build: func(string) Predicate {
			return statusIs(models.DonorStatusActive)
		},
	},
	{
		recognize: func(text string) bool { return strings.Contains(text, "lapsed") },
		build: func(string) Predicate {
			return statusIs(models.DonorStatusLapsed)
		},
	},
	{
		recognize: func(text string) bool { return strings.Contains(text, "major") },
		build: func(string) Predicate {
			return statusIs(models.DonorStatusMajor)
		},
	},
	{
		recognize: func(text string) bool {
			return strings.Contains(text, "event") || strings.Contains(text, "gala")
		},
		build: func(string) Predicate {
			return func(d models.Donor, _ time.Time) bool {
				if d.Description == "" {
					return false
				}
				desc := strings.ToLower(d.Description)
				return strings.Contains(desc, "event") || strings.Contains(desc, "gala")
			}
		},
	},
	{
		recognize: func(text string) bool {
			return strings.Contains(text, "30 days") || strings.Contains(text, "last month")
		},
		build: func(string) Predicate {
			return donatedWithin(func(now time.Time) time.Time {
				return now.AddDate(0, 0, -30)
			})
		},
	},
	{
		// NOTE: "6 months" here means a gift WITHIN the last 6 months — the
		// opposite direction from the built-in Lapsed group, which requires
		// the last gift to be OLDER than 6 months. Both directions are in
		// active use; do not unify them.
		recognize: func(text string) bool { return strings.Contains(text, "6 months") },
		build: func(string) Predicate {
			return donatedWithin(func(now time.Time) time.Time {
				return now.AddDate(0, -6, 0)
			})
		},
	},
}

// CompileCriterion turns one free-text criterion into a predicate.
func CompileCriterion(raw string) Predicate {
	text := strings.ToLower(strings.TrimSpace(raw))
	for _, rule := range criterionRules {
		if rule.recognize(text) {
			return rule.build(text)
		}
	}
	// Fallback: substring match against the donor description.
	return func(d models.Donor, _ time.Time) bool {
		if d.Description == "" {
			return false
		}
		return strings.Contains(strings.ToLower(d.Description), text)
	}
}

func statusIs(status models.DonorStatus) Predicate {
	return func(d models.Donor, _ time.Time) bool {
		return d.Status == status
	}
}

func donatedWithin(cutoff func(now time.Time) time.Time) Predicate {
	return func(d models.Donor, now time.Time) bool {
		return d.LastDonation != nil && !d.LastDonation.Before(cutoff(now))
	}
}

// parseAmount reads a monetary token like "$10,000" or "5000.50".
// Malformed tokens parse to 0, which matches every donor — consistent
// with the engine's permissive, never-error posture.
func parseAmount(token string) float64 {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(token)
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return amount
}
