package scoring

import (
	"math"
	"sort"
)

// Fallback records which rule picked the primary profile.
type Fallback string

const (
	FallbackNone    Fallback = "none"
	FallbackFlow    Fallback = "flow"
	FallbackDefault Fallback = "default"
)

// ProfileShare is one entry of the ranked profile distribution.
type ProfileShare struct {
	Code    ProfileCode `json:"code"`
	Points  int         `json:"points"`
	Percent int         `json:"percent"`
}

// Outcome is the resolved result for one submission.
type Outcome struct {
	FlowTotals     map[FlowCode]int `json:"flow_totals"`
	FlowPercent    map[FlowCode]int `json:"flow_percent"`
	PrimaryProfile ProfileCode      `json:"primary_profile"`
	ProfileRanking []ProfileShare   `json:"profile_ranking"`
	Fallback       Fallback         `json:"fallback"`
}

// Resolve turns accumulated totals into percentages and a primary profile.
// It never fails: degenerate totals resolve through the fallback rules.
//
// Ties between profiles (and between flows in the fallback) are broken by
// canonical code order, so the outcome is a pure function of the totals.
// Negative buckets count as zero.
func Resolve(t Totals) Outcome {
	out := Outcome{
		FlowTotals:  make(map[FlowCode]int, 4),
		FlowPercent: make(map[FlowCode]int, 4),
		Fallback:    FallbackNone,
	}

	flowTotal := 0
	for _, f := range AllFlows() {
		out.FlowTotals[f] = nonNegative(t.Flow[f])
		flowTotal += out.FlowTotals[f]
	}
	for _, f := range AllFlows() {
		out.FlowPercent[f] = percent(out.FlowTotals[f], flowTotal)
	}

	out.ProfileRanking = rankProfiles(t.Profile)

	switch {
	case len(out.ProfileRanking) > 0:
		out.PrimaryProfile = out.ProfileRanking[0].Code
	case flowTotal > 0:
		out.PrimaryProfile = profileForFlow(winningFlow(out.FlowTotals))
		out.Fallback = FallbackFlow
	default:
		out.PrimaryProfile = DefaultProfile
		out.Fallback = FallbackDefault
	}

	if flowTotal == 0 {
		primary := PrimaryFlow(out.PrimaryProfile)
		for _, f := range AllFlows() {
			out.FlowPercent[f] = 0
		}
		out.FlowPercent[primary] = 100
	}

	return out
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

func rankProfiles(totals map[ProfileCode]int) []ProfileShare {
	sum := 0
	ranking := make([]ProfileShare, 0, len(totals))
	for _, p := range AllProfiles() {
		points, ok := totals[p]
		if !ok {
			continue
		}
		points = nonNegative(points)
		sum += points
		ranking = append(ranking, ProfileShare{Code: p, Points: points})
	}
	for i := range ranking {
		ranking[i].Percent = percent(ranking[i].Points, sum)
	}

	// stable over canonical order: equal points keep P1..P8 order
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Points > ranking[j].Points
	})
	return ranking
}

func winningFlow(totals map[FlowCode]int) FlowCode {
	best := FlowA
	for _, f := range AllFlows() {
		if totals[f] > totals[best] {
			best = f
		}
	}
	return best
}

func profileForFlow(f FlowCode) ProfileCode {
	for _, p := range AllProfiles() {
		if PrimaryFlow(p) == f {
			return p
		}
	}
	return DefaultProfile
}
