package validate

import (
	"time"

	"github.com/ambarahq/ambara/graphdoc"
)

// Run executes the fixed five-stage pipeline against g, stopping
// immediately after any stage that contributes a fatal error (cycle, no
// output nodes) and returning the accumulated Report.
func Run(g *graphdoc.Graph) *Report {
	start := time.Now()
	report := &Report{Success: true}

	for _, stage := range Stages {
		warnings, errs := stage(g)
		report.Warnings = append(report.Warnings, warnings...)
		report.Errors = append(report.Errors, errs...)

		fatal := false
		for _, e := range errs {
			if IsFatal(e.Kind) {
				fatal = true
			}
		}
		if len(errs) > 0 {
			report.Success = false
		}
		if fatal {
			break
		}
	}

	report.DurationMs = time.Since(start).Milliseconds()
	return report
}
