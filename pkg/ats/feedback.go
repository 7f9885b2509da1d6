package ats

import (
	"regexp"
	"strconv"
)

// scorePattern matches the first "Score: <digits>" in model output, which
// covers the "ATS Match Score: 82" line the feedback prompt asks for.
var scorePattern = regexp.MustCompile(`Score:\s*(\d+)`)

// ParseScore extracts the integer match score from generator feedback.
// ok is false when no score line is present.
func ParseScore(feedback string) (score int, ok bool) {
	m := scorePattern.FindStringSubmatch(feedback)
	if m == nil {
		return 0, false
	}
	score, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return score, true
}

// ParseScorePtr is ParseScore for JSON payloads, where a missing score is null.
func ParseScorePtr(feedback string) *int {
	score, ok := ParseScore(feedback)
	if !ok {
		return nil
	}
	return &score
}
