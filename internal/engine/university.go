package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"pathway-workers/internal/models"
)

// ScoreProgram applies the hard filters and additive scoring for one
// program. ok is false when the program is excluded outright: inactive,
// wrong level for the student, destination conflict, academic or English
// shortfall, or tuition clearly out of budget.
//
// pathwayTags widens the interest overlap with the tags of the pathway the
// options are being attached to. now anchors intake-month arithmetic so
// evaluations replay deterministically.
func ScoreProgram(prog ProgramView, p *models.StudentProfile, pathwayTags []string, now time.Time) (models.UniversityOption, bool) {
	var none models.UniversityOption

	if !prog.Active() {
		return none, false
	}

	programLevel := prog.ProgramLevel()
	switch p.StudentLevel {
	case "SPM":
		if programLevel != "Foundation" && programLevel != "Diploma" {
			return none, false
		}
	case "Diploma":
		if programLevel != "Bachelor" && programLevel != "Top-up" {
			return none, false
		}
	}

	country := prog.Country()
	if country == "" {
		country = "Malaysia"
	}
	countryKey := strings.ToLower(country)
	selected := normSet(p.DestinationTags)

	if p.DestinationPreference == "malaysia_only" && countryKey != "malaysia" {
		return none, false
	}
	if p.DestinationPreference == "open_overseas" && len(selected) > 0 {
		if !setHas(selected, countryKey) && countryKey != "malaysia" {
			return none, false
		}
	}

	var reasons, cautions []string
	score := 0.0

	programTags := normSet(prog.FieldTags())
	studentTags := normSet(p.InterestTags)
	if specific := strings.ToLower(strings.TrimSpace(p.SpecificProgramInterest)); specific != "" && specific != "general" {
		studentTags[specific] = struct{}{}
	}
	for _, tag := range pathwayTags {
		if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
			studentTags[tag] = struct{}{}
		}
	}

	if overlap := intersection(programTags, studentTags); len(overlap) > 0 {
		score += math.Min(30.0, 12.0+float64(len(overlap))*7.0)
		reasons = append(reasons, fmt.Sprintf("Program fit: %s", strings.Join(overlap, ", ")))
	} else {
		score += 6.0
		cautions = append(cautions, "Program specialization may not fully match stated interests")
	}

	requirements := prog.AdmissionRequirements()
	switch p.StudentLevel {
	case "SPM":
		if required := cast.ToInt(requirements["min_spm_credits"]); required > 0 {
			if p.SPMCredits < required {
				return none, false
			}
			if p.SPMCredits >= required+1 {
				score += 18.0
			} else {
				score += 14.0
			}
			reasons = append(reasons, fmt.Sprintf("SPM credits meet baseline (%d/%d+)", p.SPMCredits, required))
		}
	case "Diploma":
		if required := cast.ToFloat64(requirements["min_cgpa"]); required > 0 {
			if p.CGPA < required {
				return none, false
			}
			if p.CGPA >= required+0.2 {
				score += 18.0
			} else {
				score += 14.0
			}
			reasons = append(reasons, fmt.Sprintf("CGPA meets baseline (%.2f/%.2f+)", p.CGPA, required))
		}
	}

	requiredEnglish := cast.ToString(requirements["english_min_level"])
	if requiredEnglish == "" {
		requiredEnglish = "Intermediate"
	}
	if englishMeets(p.EnglishSelf, requiredEnglish) {
		score += 10.0
		reasons = append(reasons, "English level matches entry expectation")
	} else {
		got := englishLevels[p.EnglishSelf]
		need, ok := englishLevels[requiredEnglish]
		if !ok {
			need = 1
		}
		if got+1 < need {
			return none, false
		}
		score += 5.0
		cautions = append(cautions, "English readiness is close to threshold")
	}

	ieltsMin := prog.IELTSMin()
	if ieltsMin == 0 {
		ieltsMin = cast.ToFloat64(requirements["ielts_min"])
	}
	if ieltsMin > 0 {
		if p.IELTSScore > 0 && p.IELTSScore >= ieltsMin {
			score += 6.0
			reasons = append(reasons, fmt.Sprintf("IELTS aligns (%.1f/%.1f)", p.IELTSScore, ieltsMin))
		} else if p.IELTSScore == 0 {
			cautions = append(cautions, fmt.Sprintf("IELTS %.1f may be required", ieltsMin))
		}
	}

	toeflMin := prog.TOEFLMin()
	if toeflMin == 0 {
		toeflMin = cast.ToInt(requirements["toefl_min"])
	}
	if toeflMin > 0 {
		if p.TOEFLScore > 0 && p.TOEFLScore >= toeflMin {
			score += 4.0
			reasons = append(reasons, fmt.Sprintf("TOEFL aligns (%d/%d)", p.TOEFLScore, toeflMin))
		} else if p.TOEFLScore == 0 {
			cautions = append(cautions, fmt.Sprintf("TOEFL %d may be required", toeflMin))
		}
	}

	budgetYearly := p.BudgetMonthly * 12
	tuitionMin := prog.TuitionYearlyMin()
	tuitionMax := prog.TuitionYearlyMax()
	if tuitionMin > 0 {
		if budgetYearly >= tuitionMin {
			score += 15.0
			reasons = append(reasons, "Budget aligns with estimated tuition")
		} else if budgetYearly >= int(float64(tuitionMin)*0.8) {
			score += 9.0
			cautions = append(cautions, "Budget slightly tight; scholarship/loan planning needed")
		} else {
			return none, false
		}
	} else if tuitionMax > 0 {
		score += 10.0
	}

	intakeScore, intakeReason := intakeWindowFit(p.IntakeWindow, prog.IntakeTerms(), now)
	score += intakeScore
	reasons = append(reasons, intakeReason)

	if p.ScholarshipNeeded && prog.PTPTNEligible() {
		score += 5.0
		reasons = append(reasons, "PTPTN-eligible indicator supports financing pathway")
	}

	sourceCodes := prog.SourceCodes()
	sourceURLs := prog.SourceURLs()
	trace := make([]models.SourceTrace, 0, len(sourceCodes))
	for _, code := range sourceCodes {
		trace = append(trace, models.SourceTrace{Source: code, URL: sourceURLs[code]})
	}

	var qsRank *int
	if rank, ok := prog.QSOverallRank(); ok {
		qsRank = &rank
	}

	return models.UniversityOption{
		ProgramCode:             prog.ProgramCode(),
		UniversityName:          prog.UniversityName(),
		ProgramName:             prog.ProgramName(),
		ProgramLevel:            programLevel,
		Country:                 country,
		IntakeTerms:             nonNilStrings(prog.IntakeTerms()),
		ApplicationDeadlineText: prog.ApplicationDeadlineText(),
		ApplicationURL:          prog.ApplicationURL(),
		ContactEmail:            prog.ContactEmail(),
		PTPTNEligible:           prog.PTPTNEligible(),
		MOHEListed:              prog.MOHEListed(),
		QSOverallRank:           qsRank,
		TuitionYearlyText:       tuitionText(tuitionMin, tuitionMax),
		MatchScore:              round2(math.Min(100.0, score)),
		FitReasons:              truncate(reasons, 5),
		Cautions:                nonNilStrings(truncate(cautions, 4)),
		SourceTrace:             trace,
	}, true
}

// MatchUniversities scores every program for one profile and returns the
// surviving options sorted by match score descending. limit <= 0 keeps the
// full list.
func MatchUniversities(programs []ProgramView, p *models.StudentProfile, pathwayTags []string, now time.Time, limit int) []models.UniversityOption {
	options := make([]models.UniversityOption, 0, len(programs))
	for _, prog := range programs {
		if option, ok := ScoreProgram(prog, p, pathwayTags, now); ok {
			options = append(options, option)
		}
	}
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].MatchScore > options[j].MatchScore
	})
	if limit > 0 && len(options) > limit {
		options = options[:limit]
	}
	return options
}

// bestIntakeDelta returns the smallest forward distance in months from now
// to any parseable intake term. ok is false when no term parses.
func bestIntakeDelta(intakeTerms []string, now time.Time) (int, bool) {
	currentMonth := int(now.Month())
	best := 0
	found := false
	for _, term := range intakeTerms {
		monthNum, ok := MonthNumber(term)
		if !ok {
			continue
		}
		delta := ((monthNum-currentMonth)%12 + 12) % 12
		if !found || delta < best {
			best = delta
			found = true
		}
	}
	return best, found
}

// intakeWindowFit scores how the program's next intake lines up with the
// student's planning window.
func intakeWindowFit(intakeWindow string, intakeTerms []string, now time.Time) (float64, string) {
	delta, ok := bestIntakeDelta(intakeTerms, now)
	if !ok {
		return 6.0, "Intake timing available on request"
	}
	switch intakeWindow {
	case "next_3_months":
		if delta <= 3 {
			return 15.0, "Intake aligns with your 0-3 month timeline"
		}
		return 4.0, "Intake may be later than your preferred immediate timeline"
	case "next_6_12_months":
		if delta >= 4 && delta <= 12 {
			return 15.0, "Intake fits your 6-12 month planning window"
		}
		return 10.0, "Intake available earlier than planned"
	case "flexible_local":
		return 12.0, "Timeline is flexible with local-first focus"
	}
	return 10.0, "Intake timing is generally compatible"
}

// tuitionText renders the yearly tuition band as display text.
func tuitionText(tuitionMin, tuitionMax int) string {
	switch {
	case tuitionMin > 0 && tuitionMax > 0:
		return fmt.Sprintf("RM %s - RM %s per year", groupThousands(tuitionMin), groupThousands(tuitionMax))
	case tuitionMin > 0:
		return fmt.Sprintf("From RM %s per year", groupThousands(tuitionMin))
	case tuitionMax > 0:
		return fmt.Sprintf("Up to RM %s per year", groupThousands(tuitionMax))
	}
	return "Tuition on request"
}

// groupThousands renders 18000 as "18,000".
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	start := 0
	if strings.HasPrefix(s, "-") {
		start = 1
	}
	for i := len(s) - 3; i > start; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
