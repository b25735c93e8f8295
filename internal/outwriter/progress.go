package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/depshield/schema"
)

// stepLabels are the human-readable names of the scan steps.
var stepLabels = map[schema.ScanStep]string{
	schema.StepParse:       "Parsing dependencies",
	schema.StepMetadata:    "Fetching registry metadata",
	schema.StepMaintainers: "Analyzing maintainers",
	schema.StepTakeover:    "Checking takeover risk",
	schema.StepSlopsquat:   "Detecting slopsquatting",
	schema.StepLicense:     "Tracking license changes",
	schema.StepReport:      "Building report",
}

// NewProgressPrinter returns a progress callback that writes one line per event to w.
func NewProgressPrinter(w io.Writer) func(schema.ScanProgress) {
	return func(p schema.ScanProgress) {
		label, ok := stepLabels[p.Step]
		if !ok {
			label = string(p.Step)
		}
		if p.TotalPackages > 0 {
			fmt.Fprintf(w, "[%d/%d] %s\n", p.PackagesProcessed, p.TotalPackages, label)
			return
		}
		fmt.Fprintf(w, "%s\n", label)
	}
}
