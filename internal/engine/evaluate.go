package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"pathway-workers/internal/models"
)

// Request carries everything one evaluation needs. Rules and Programs are
// point-in-time catalog snapshots; Profile must already be normalized.
type Request struct {
	Rules    []RuleView
	Programs []ProgramView
	Profile  *models.StudentProfile

	// TopN caps the shortlist; <= 0 means 5. At least 3 recommendations
	// are returned whenever that many rules pass.
	TopN int

	// Now anchors intake-month arithmetic; zero means current UTC time.
	Now time.Time
}

// Evaluate runs one full evaluation pass: gate every rule, score and rank
// the survivors, attach university options, and build the action plan. When
// nothing passes it assembles a recovery plan instead. Output is fully
// deterministic for a fixed Request.
func Evaluate(req Request) *models.EvaluationResult {
	p := req.Profile
	if p == nil {
		p = NormalizeProfile(nil)
	}
	topN := req.TopN
	if topN <= 0 {
		topN = 5
	}
	now := req.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	eligible := make([]models.Recommendation, 0, len(req.Rules))
	var rejectionReasons []string

	for _, rule := range req.Rules {
		passed, matched, borderline, missing := EvaluateGate(rule, p)
		if !passed {
			rejectionReasons = append(rejectionReasons, missing...)
			continue
		}

		fit := ScoreFit(rule, p)

		eligible = append(eligible, models.Recommendation{
			RuleID:                rule.RuleID(),
			PathwayTitle:          rule.PathwayTitle(),
			PathwaySummary:        rule.PathwaySummary(),
			CostEstimateText:      rule.CostEstimateText(),
			VisaNote:              rule.VisaNote(),
			ScholarshipLikelihood: rule.ScholarshipLikelihood(),
			ReadinessGaps:         nonNilStrings(rule.ReadinessGaps()),
			NextSteps:             rule.NextSteps(),
			PriorityWeight:        rule.PriorityWeight(),
			FitScore:              fit.FitScore,
			ComponentScores:       fit.ComponentScores,
			Explanation: models.Explanation{
				MatchedConditions:    prependFragments(matched, fit.Explanation.MatchedConditions),
				BorderlineConditions: prependFragments(borderline, fit.Explanation.BorderlineConditions),
				MissingConditions:    prependFragments(missing, fit.Explanation.MissingConditions),
				RankingReason:        fit.Explanation.RankingReason,
			},
			UniversityOptions: []models.UniversityOption{},
			InterestTags:      rule.InterestTags(),
		})
	}

	// Stable, so rules tied on both keys keep catalog order.
	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].FitScore != eligible[j].FitScore {
			return eligible[i].FitScore > eligible[j].FitScore
		}
		return eligible[i].PriorityWeight > eligible[j].PriorityWeight
	})

	readiness := ScoreReadiness(p)

	if len(eligible) == 0 {
		return evaluateNoMatch(req, p, readiness, rejectionReasons, now)
	}

	count := topN
	if count < 3 {
		count = 3
	}
	if count > len(eligible) {
		count = len(eligible)
	}
	recommendations := eligible[:count]

	var aggregateMissing []string
	for i := range recommendations {
		aggregateMissing = append(aggregateMissing, recommendations[i].Explanation.MissingConditions...)
		recommendations[i].ReadinessScore = readiness.ReadinessScore
	}
	plan := BuildActionPlan(p, aggregateMissing)

	topUniversities := []models.UniversityOption{}
	if len(req.Programs) > 0 {
		topUniversities = buildUniversityMatches(recommendations, p, req.Programs, now)
		plan = focusPlanOnUniversities(plan, topUniversities)
	}

	return &models.EvaluationResult{
		NoMatch:              false,
		Readiness:            readiness,
		Recommendations:      recommendations,
		TopUniversityOptions: topUniversities,
		SevenDayActions:      plan.SevenDayActions,
		ThirtyDayPlan:        plan.ThirtyDayPlan,
	}
}

// evaluateNoMatch builds the recovery-mode result: no recommendations, a
// recovery plan seeded with same-level local fallback rules, and a general
// university shortlist driven by the student's own interests.
func evaluateNoMatch(req Request, p *models.StudentProfile, readiness models.Readiness, rejectionReasons []string, now time.Time) *models.EvaluationResult {
	fallbacks := LocalFallbacks(req.Rules, p)

	recovery := BuildRecoveryPlan(p, rejectionReasons, fallbacks)
	plan := BuildActionPlan(p, rejectionReasons)

	topUniversities := []models.UniversityOption{}
	if len(req.Programs) > 0 {
		seeded := []models.Recommendation{{
			InterestTags:      p.InterestTags,
			UniversityOptions: []models.UniversityOption{},
		}}
		topUniversities = buildUniversityMatches(seeded, p, req.Programs, now)
		if len(topUniversities) > 5 {
			topUniversities = topUniversities[:5]
		}
	}

	return &models.EvaluationResult{
		NoMatch:              true,
		Readiness:            readiness,
		Recommendations:      []models.Recommendation{},
		TopUniversityOptions: topUniversities,
		RecoveryPlan:         &recovery,
		SevenDayActions:      plan.SevenDayActions,
		ThirtyDayPlan:        plan.ThirtyDayPlan,
	}
}

// buildUniversityMatches attaches the top three options to each
// recommendation and returns the deduplicated cross-pathway shortlist of at
// most eight, keeping the higher-scoring entry when the same university and
// program surfaces under two pathways.
func buildUniversityMatches(recs []models.Recommendation, p *models.StudentProfile, programs []ProgramView, now time.Time) []models.UniversityOption {
	aggregate := make([]models.UniversityOption, 0, len(recs)*2)
	for i := range recs {
		options := MatchUniversities(programs, p, recs[i].InterestTags, now, 0)
		top := options
		if len(top) > 3 {
			top = top[:3]
		}
		recs[i].UniversityOptions = top

		pool := top
		if len(pool) > 2 {
			pool = pool[:2]
		}
		aggregate = append(aggregate, pool...)
	}

	best := make(map[string]models.UniversityOption, len(aggregate))
	order := make([]string, 0, len(aggregate))
	for _, option := range aggregate {
		key := option.UniversityName + "::" + option.ProgramName
		existing, seen := best[key]
		if !seen {
			order = append(order, key)
		}
		if !seen || option.MatchScore > existing.MatchScore {
			best[key] = option
		}
	}

	shortlist := make([]models.UniversityOption, 0, len(order))
	for _, key := range order {
		shortlist = append(shortlist, best[key])
	}
	sort.SliceStable(shortlist, func(i, j int) bool {
		return shortlist[i].MatchScore > shortlist[j].MatchScore
	})
	if len(shortlist) > 8 {
		shortlist = shortlist[:8]
	}
	return shortlist
}

// focusPlanOnUniversities swaps in shortlist-driven actions once concrete
// university options exist, keeping the most useful of the generic items.
func focusPlanOnUniversities(plan models.ActionPlan, shortlist []models.UniversityOption) models.ActionPlan {
	if len(shortlist) == 0 {
		return plan
	}

	top := shortlist
	if len(top) > 3 {
		top = top[:3]
	}
	names := make([]string, 0, len(top))
	for _, option := range top {
		if option.UniversityName != "" {
			names = append(names, option.UniversityName)
		}
	}
	if len(names) == 0 {
		return plan
	}

	plan.SevenDayActions = append([]string{
		fmt.Sprintf("Shortlist these universities for action: %s.", strings.Join(names, ", ")),
		"Open each official application page and record required documents.",
		"Email admissions teams to confirm latest intake and entry requirements.",
	}, truncate(plan.SevenDayActions, 2)...)

	plan.ThirtyDayPlan = append([]string{
		"Complete a personal statement draft tailored to your top 3 programs.",
		"Prepare certified academic transcripts and English test evidence.",
		"Submit at least 2 applications before the earliest deadline shown.",
	}, truncate(plan.ThirtyDayPlan, 3)...)

	return plan
}

// prependFragments joins gate fragments ahead of scorer fragments into one
// non-nil slice.
func prependFragments(gate, scorer []string) []string {
	out := make([]string, 0, len(gate)+len(scorer))
	out = append(out, gate...)
	return append(out, scorer...)
}
