package intent

import (
	"regexp"
	"strings"
)

// Label is the intent category of a visitor message.
type Label string

const (
	Greeting         Label = "greeting"
	ContactRequest   Label = "contact_request"
	ServiceRequest   Label = "service_request"
	PortfolioRequest Label = "portfolio_request"
	GeneralQuestion  Label = "general_question"
	Unknown          Label = "unknown"
)

// maxGreetingWords bounds how long a message may be and still count as a greeting.
const maxGreetingWords = 5

var greetingKeywords = []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening"}

var greetingPatterns = compileWholeWord(greetingKeywords)

type rule struct {
	label   Label
	pattern *regexp.Regexp
}

// rules are evaluated in order after the greeting check; the first match wins.
var rules = []rule{
	{ContactRequest, regexp.MustCompile(`contact|hire|email|phone|reach|call|telegram|linkedin|whatsapp|get in touch`)},
	{ServiceRequest, regexp.MustCompile(`service|offer|provide|build|develop|create|what can|help with|do you do`)},
	{PortfolioRequest, regexp.MustCompile(`portfolio|project|work|example|experience|case study|built|made|delivered`)},
	{GeneralQuestion, regexp.MustCompile(`\?|how|what|who|where|why|when|which|tell me|explain|describe|skill|tech|stack`)},
}

// Classify maps a raw visitor message to an intent label. Matching is
// case-insensitive and runs against the trimmed message.
func Classify(message string) Label {
	normalized := strings.TrimSpace(strings.ToLower(message))

	if isGreeting(normalized) {
		return Greeting
	}

	for _, r := range rules {
		if r.pattern.MatchString(normalized) {
			return r.label
		}
	}
	return Unknown
}

// Valid reports whether l belongs to the closed label set.
func (l Label) Valid() bool {
	switch l {
	case Greeting, ContactRequest, ServiceRequest, PortfolioRequest, GeneralQuestion, Unknown:
		return true
	default:
		return false
	}
}

func (l Label) String() string {
	return string(l)
}

func isGreeting(normalized string) bool {
	if len(strings.Fields(normalized)) > maxGreetingWords {
		return false
	}
	for _, pattern := range greetingPatterns {
		if pattern.MatchString(normalized) {
			return true
		}
	}
	return false
}

func compileWholeWord(keywords []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(keywords))
	for _, kw := range keywords {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
	}
	return patterns
}
