package gaitnotes

import (
	"fmt"
	"strings"
)

// BuildClinicalNotes turns aggregated gait metrics into a textual report.
func BuildClinicalNotes(a *Analysis) string {
	if a == nil {
		return ""
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Gait analysis: %d cycles across %d contexts\n", a.CycleCount, len(a.Contexts))

	for _, c := range a.Contexts {
		fmt.Fprintf(
			&b,
			"%s: %d cycles | cadence %.1f steps/min | stride %.3f s | step %.3f s\n",
			c.Context,
			c.CycleCount,
			c.CadenceMean,
			c.StrideTimeMean,
			c.StepTimeMean,
		)
		fmt.Fprintf(
			&b,
			"  support double %.1f%% / single %.1f%% | step length %.3f m / width %.3f m\n",
			c.DoubleSupportMean*100.0,
			c.SingleSupportMean*100.0,
			c.StepLengthMean,
			c.StepWidthMean,
		)
		if c.ToeClearanceMean != nil {
			fmt.Fprintf(&b, "  minimal toe clearance %.3f m\n", *c.ToeClearanceMean)
		} else {
			b.WriteString("  minimal toe clearance: not measurable in this trial\n")
		}
		fmt.Fprintf(
			&b,
			"  margin of stability AP %.3f m / ML %.3f m\n",
			c.APMarginMean,
			c.MLMarginMean,
		)
	}

	b.WriteString("\nCycle Screening\n")
	for _, c := range a.Contexts {
		fmt.Fprintf(
			&b,
			"- %s: %d steady, %d irregular, %d outlier\n",
			c.Context,
			c.SteadyCycleCount,
			c.IrregularCycleCount,
			c.OutlierCycleCount,
		)
	}

	if a.Symmetry != nil {
		b.WriteString("\nSymmetry\n")
		fmt.Fprintf(
			&b,
			"- %s vs %s: step length %+.1f%%, step time %+.1f%% (%s)\n",
			a.Symmetry.FirstContext,
			a.Symmetry.SecondContext,
			a.Symmetry.StepLengthAsymmetryPct,
			a.Symmetry.StepTimeAsymmetryPct,
			a.Symmetry.Label,
		)
	}

	b.WriteString("\nClinical Notes\n")
	b.WriteString("- ")
	b.WriteString(gaitAssessment(a))
	b.WriteString("\n- ")
	b.WriteString(followupSuggestion(a))
	b.WriteByte('\n')

	return strings.TrimSpace(b.String())
}

func gaitAssessment(a *Analysis) string {
	if a == nil || len(a.Contexts) == 0 {
		return "No assessment available."
	}

	outliers := 0
	for _, c := range a.Contexts {
		outliers += c.OutlierCycleCount
	}

	if a.Symmetry != nil && a.Symmetry.Label == "asymmetric" {
		return "Notable left/right asymmetry in step parameters; review side-specific cycles before interpreting aggregate means."
	}
	if outliers > 0 && a.CycleCount > 0 && float64(outliers)/float64(a.CycleCount) > 0.25 {
		return "A substantial share of cycles deviate from the trial's typical stride time; the trial may include turns, stops, or segmentation errors."
	}
	if outliers > 0 {
		return "Gait is largely consistent with a small number of atypical cycles; aggregate metrics remain representative."
	}
	return "Gait pattern is consistent across the recorded cycles; aggregate metrics are representative."
}

func followupSuggestion(a *Analysis) string {
	if a == nil || len(a.Contexts) == 0 {
		return "No recommendation available."
	}

	for _, c := range a.Contexts {
		if c.ToeClearanceMean == nil {
			return "Toe clearance could not be measured; verify forefoot marker visibility during swing if clearance is of clinical interest."
		}
	}
	if a.Symmetry != nil && a.Symmetry.Label == "asymmetric" {
		return "Repeat the trial or extend the capture to confirm whether the asymmetry persists across more cycles."
	}
	return "Metrics are suitable for longitudinal comparison against earlier trials of the same subject."
}
