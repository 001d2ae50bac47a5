package scoring

import "strings"

// FlowCode is one of the four flow buckets a selected option can credit.
type FlowCode string

const (
	FlowA FlowCode = "A"
	FlowB FlowCode = "B"
	FlowC FlowCode = "C"
	FlowD FlowCode = "D"
)

var flowLabels = map[FlowCode]string{
	FlowA: "Catalyst",
	FlowB: "Communications",
	FlowC: "Rhythmic",
	FlowD: "Observer",
}

// AllFlows returns the flow codes in canonical order.
func AllFlows() []FlowCode {
	return []FlowCode{FlowA, FlowB, FlowC, FlowD}
}

// Label returns the long-form name shown in reports.
func (f FlowCode) Label() string {
	return flowLabels[f]
}

// ParseFlowCode accepts the single letter or the long label, case-insensitive.
func ParseFlowCode(raw string) (FlowCode, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	for _, f := range AllFlows() {
		if strings.EqualFold(s, string(f)) || strings.EqualFold(s, f.Label()) {
			return f, true
		}
	}
	return "", false
}

// ProfileCode is one of the eight competency profiles.
type ProfileCode string

const (
	ProfileP1 ProfileCode = "P1"
	ProfileP2 ProfileCode = "P2"
	ProfileP3 ProfileCode = "P3"
	ProfileP4 ProfileCode = "P4"
	ProfileP5 ProfileCode = "P5"
	ProfileP6 ProfileCode = "P6"
	ProfileP7 ProfileCode = "P7"
	ProfileP8 ProfileCode = "P8"
)

// DefaultProfile is assigned when a submission carries neither profile nor flow data.
const DefaultProfile = ProfileP1

// primaryFlows is the fixed profile -> primary flow table.
var primaryFlows = map[ProfileCode]FlowCode{
	ProfileP1: FlowA,
	ProfileP2: FlowA,
	ProfileP3: FlowB,
	ProfileP4: FlowB,
	ProfileP5: FlowC,
	ProfileP6: FlowC,
	ProfileP7: FlowD,
	ProfileP8: FlowD,
}

// AllProfiles returns the profile codes in canonical order.
func AllProfiles() []ProfileCode {
	return []ProfileCode{
		ProfileP1, ProfileP2, ProfileP3, ProfileP4,
		ProfileP5, ProfileP6, ProfileP7, ProfileP8,
	}
}

// PrimaryFlow returns the flow a profile is anchored to.
func PrimaryFlow(p ProfileCode) FlowCode {
	return primaryFlows[p]
}

// ParseProfileCode normalizes a stored profile tag.
func ParseProfileCode(raw string) (ProfileCode, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	p := ProfileCode(s)
	if _, ok := primaryFlows[p]; !ok {
		return "", false
	}
	return p, true
}

// IsValidFlowCode reports whether raw parses as a flow code.
func IsValidFlowCode(raw string) bool {
	_, ok := ParseFlowCode(raw)
	return ok
}

// IsValidProfileCode reports whether raw parses as a profile code.
func IsValidProfileCode(raw string) bool {
	_, ok := ParseProfileCode(raw)
	return ok
}
