package server

import "strings"

// SafetyMessage answers any query that mentions self-harm.
const SafetyMessage = "It sounds like you are going through something really painful. " +
	"You are not alone. If you are in immediate danger, please call your local emergency number. " +
	"You can also reach a crisis line such as 988 (US) or 116 123 (UK and Ireland) any time."

var crisisKeywords = []string{
	"suicide",
	"suicidal",
	"kill myself",
	"end my life",
	"want to die",
	"self harm",
	"self-harm",
	"hurt myself",
	"no reason to live",
}

// ContainsCrisisKeywords reports whether text mentions any crisis keyword,
// ignoring case.
func ContainsCrisisKeywords(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range crisisKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
