package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// AnswerSelection is one recorded answer reduced to the options it selected.
type AnswerSelection struct {
	QuestionID uint
	OptionIDs  []uint
}

// OptionScore is the scoring-relevant slice of an option row.
// Points is nil when the option carries no explicit weight.
type OptionScore struct {
	ID          uint
	Points      *int
	ProfileCode string
	FlowCode    string
}

// Axis names the tag a TagIssue refers to.
type Axis string

const (
	AxisFlow    Axis = "flow"
	AxisProfile Axis = "profile"
)

// TagIssue records an unrecognised tag that was skipped for one axis.
type TagIssue struct {
	OptionID uint
	Axis     Axis
	Value    string
}

func (t TagIssue) Error() string {
	return fmt.Sprintf("unknown %s tag %q on option %d", t.Axis, t.Value, t.OptionID)
}

// Totals holds the per-bucket point sums for one submission.
// Flow always has all four codes; Profile only has codes that were seen.
type Totals struct {
	Flow    map[FlowCode]int
	Profile map[ProfileCode]int
	Issues  []TagIssue
}

// DefaultPoints is credited for options without an explicit point value.
const DefaultPoints = 1

// CollectSelections flattens answers into the set of selected option ids,
// deduplicated and in ascending order.
func CollectSelections(answers []AnswerSelection) []uint {
	seen := make(map[uint]struct{})
	ids := make([]uint, 0)
	for _, a := range answers {
		for _, id := range a.OptionIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Aggregate sums option points into flow and profile buckets.
// A profile tag never credits a flow here; that inference happens in Resolve.
func Aggregate(options []OptionScore) Totals {
	totals := Totals{
		Flow:    make(map[FlowCode]int, 4),
		Profile: make(map[ProfileCode]int),
	}
	for _, f := range AllFlows() {
		totals.Flow[f] = 0
	}

	ordered := make([]OptionScore, len(options))
	copy(ordered, options)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	for _, opt := range ordered {
		points := DefaultPoints
		if opt.Points != nil {
			points = *opt.Points
		}

		if strings.TrimSpace(opt.FlowCode) != "" {
			if f, ok := ParseFlowCode(opt.FlowCode); ok {
				totals.Flow[f] += points
			} else {
				totals.Issues = append(totals.Issues, TagIssue{OptionID: opt.ID, Axis: AxisFlow, Value: opt.FlowCode})
			}
		}

		if strings.TrimSpace(opt.ProfileCode) != "" {
			if p, ok := ParseProfileCode(opt.ProfileCode); ok {
				totals.Profile[p] += points
			} else {
				totals.Issues = append(totals.Issues, TagIssue{OptionID: opt.ID, Axis: AxisProfile, Value: opt.ProfileCode})
			}
		}
	}

	return totals
}

// FlowTotal is the sum of all four flow buckets.
func (t Totals) FlowTotal() int {
	sum := 0
	for _, f := range AllFlows() {
		sum += t.Flow[f]
	}
	return sum
}
