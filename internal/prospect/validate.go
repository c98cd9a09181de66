package prospect

import (
	"fmt"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/normalize"
)

// Ranges are the firmographic acceptance bounds. Revenue is in millions of
// dollars.
type Ranges struct {
	EmployeeMin int
	EmployeeMax int
	RevenueMinM float64
	RevenueMaxM float64
}

// DefaultRanges matches the prompt's stated constraints.
var DefaultRanges = Ranges{
	EmployeeMin: 100,
	EmployeeMax: 5000,
	RevenueMinM: 0.5,
	RevenueMaxM: 50,
}

// Validate partitions candidates into accepted and rejected sets. A
// candidate is accepted only when both employee count and revenue parse and
// fall inside the ranges; rejections record every failed check.
func Validate(candidates []model.CompanyCandidate, r Ranges) (accepted, rejected []model.ValidationOutcome) {
	for _, c := range candidates {
		outcome := model.ValidationOutcome{Candidate: c}

		emp, empOK := normalize.ParseEmployeeCount(c.EmployeeCount)
		rev, revOK := normalize.ParseRevenueMillions(c.Revenue)

		if !empOK {
			outcome.Reasons = append(outcome.Reasons, "employee count unparseable")
		}
		if !revOK {
			outcome.Reasons = append(outcome.Reasons, "revenue unparseable")
		}
		if empOK {
			outcome.Employees = emp
			if emp < r.EmployeeMin || emp > r.EmployeeMax {
				outcome.Reasons = append(outcome.Reasons,
					fmt.Sprintf("employee count %d outside %d-%d", emp, r.EmployeeMin, r.EmployeeMax))
			}
		}
		if revOK {
			outcome.RevenueMillions = rev
			if rev < r.RevenueMinM || rev > r.RevenueMaxM {
				outcome.Reasons = append(outcome.Reasons,
					fmt.Sprintf("revenue $%.1fM outside $%.1fM-$%.1fM", rev, r.RevenueMinM, r.RevenueMaxM))
			}
		}

		outcome.Accepted = len(outcome.Reasons) == 0
		if outcome.Accepted {
			accepted = append(accepted, outcome)
		} else {
			rejected = append(rejected, outcome)
		}
	}
	return accepted, rejected
}
