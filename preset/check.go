package preset

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/javajack/sheetlive"
)

// Check compiles the expression of every format entry in plan so a typo shows
// up before the first cycle instead of on every cycle.
func Check(plan *sheetlive.Plan) []sheetlive.Issue {
	var issues []sheetlive.Issue
	for _, e := range plan.Entries {
		if e.Kind != "format" {
			continue
		}
		desc, err := cast.ToStringMapStringE(e.Descriptor)
		if err != nil || desc["target"] == "" || desc["expr"] == "" {
			issues = append(issues, sheetlive.Issue{
				Severity: sheetlive.SeverityError,
				Kind:     e.Kind,
				Cell:     e.Cell,
				Message:  "expected { target, expr }",
			})
			continue
		}
		if err := CheckExpression(desc["expr"]); err != nil {
			issues = append(issues, sheetlive.Issue{
				Severity: sheetlive.SeverityError,
				Kind:     e.Kind,
				Cell:     e.Cell,
				Message:  fmt.Sprintf("expression does not compile: %v", err),
			})
		}
	}
	return issues
}
