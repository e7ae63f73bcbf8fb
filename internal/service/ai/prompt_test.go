package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dagimaynadis/portfolio/backend/internal/analysis/intent"
)

func TestBuildSystemPromptGreeting(t *testing.T) {
	prompt := BuildSystemPrompt(intent.Greeting)

	assert.Contains(t, prompt, `"`+GreetingReply+`"`)
	assert.Contains(t, prompt, "NOTHING ELSE")
	assert.NotContains(t, prompt, "FORMATTING RULES")
}

func TestBuildSystemPromptPersonaForOtherIntents(t *testing.T) {
	labels := []intent.Label{
		intent.ContactRequest,
		intent.ServiceRequest,
		intent.PortfolioRequest,
		intent.GeneralQuestion,
		intent.Unknown,
	}

	for _, label := range labels {
		prompt := BuildSystemPrompt(label)
		assert.Equal(t, personaPrompt, prompt, "label %s", label)
	}

	prompt := BuildSystemPrompt(intent.Unknown)
	for _, fragment := range []string{
		"PROGRESSIVE DISCLOSURE RULE",
		"No more than 5 bullet points",
		"**bold** only for short meaningful labels",
		"blank line between different pieces of information",
		UnknownInfoReply,
		"Do not repeat the greeting.",
		"Never expose internal knowledge base section labels.",
	} {
		assert.True(t, strings.Contains(prompt, fragment), "persona prompt missing %q", fragment)
	}
}
