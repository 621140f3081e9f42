package engine

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize lowercases text and collapses whitespace runs to single spaces.
// Every keyword match in the engine runs over normalized text.
func Normalize(text string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(text), " ")
}

// combinedPainText joins the intake fields the friction detector and the ROI
// estimator look at.
func combinedPainText(in BusinessIntake) string {
	return Normalize(strings.Join([]string{
		in.Processes, in.Bottlenecks, in.Systems, in.BusinessFocus, in.TeamRoles,
	}, " "))
}

// combinedScoringText adds goals, which only the scorer considers.
func combinedScoringText(in BusinessIntake) string {
	return Normalize(strings.Join([]string{
		in.Processes, in.Bottlenecks, in.Systems, in.Goals, in.BusinessFocus, in.TeamRoles,
	}, " "))
}

// combinedTierText is the signal text for the tier classifier.
func combinedTierText(in BusinessIntake) string {
	return Normalize(strings.Join([]string{
		in.Bottlenecks, in.Processes, in.Systems, in.Goals,
	}, " "))
}

func containsAny(text string, keys []string) bool {
	for _, key := range keys {
		if strings.Contains(text, key) {
			return true
		}
	}
	return false
}
