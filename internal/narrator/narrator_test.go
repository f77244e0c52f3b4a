package narrator

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/wtii/internal/errors"
	"github.com/tatianab/wtii/internal/models"
)

func TestBuildPrompt_Creature(t *testing.T) {
	c := &models.Combatant{
		Name:          "Observer",
		Description:   "A floating eye.",
		Faction:       models.FactionCreature,
		CurrentHealth: 10,
		MaxHealth:     52,
		Combat:        models.CombatText{Size: "Medium", CreatureType: "Aberration"},
	}

	prompt, err := BuildPrompt(c)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Name: Observer")
	assert.Contains(t, prompt, "Kind: Aberration")
	assert.Contains(t, prompt, "Size: Medium")
	assert.Contains(t, prompt, "Known details: A floating eye.")
	assert.Contains(t, prompt, "Condition: near death")
}

func TestBuildPrompt_PlayerOmitsEmptyFields(t *testing.T) {
	prompt, err := BuildPrompt(models.NewPlayer("Borbur", ""))
	require.NoError(t, err)
	assert.Contains(t, prompt, "Kind: Player")
	assert.Contains(t, prompt, "Condition: healthy")
	assert.NotContains(t, prompt, "Size:")
	assert.NotContains(t, prompt, "Known details:")
}

func TestCondition(t *testing.T) {
	testCases := []struct {
		current, max int
		expected     string
	}{
		{20, 20, "healthy"},
		{11, 20, "healthy"},
		{10, 20, "bloodied"},
		{6, 20, "bloodied"},
		{5, 20, "near death"},
		{0, 20, "dead"},
	}
	for _, tc := range testCases {
		c := &models.Combatant{CurrentHealth: tc.current, MaxHealth: tc.max}
		c.ApplyHealthDelta(0)
		assert.Equal(t, tc.expected, condition(c), "%d/%d", tc.current, tc.max)
	}
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("  The eye swivels toward you.\n")}},
		}},
	}
	text, err := extractText(resp)
	require.NoError(t, err)
	assert.Equal(t, "The eye swivels toward you.", text)
}

func TestExtractText_Failures(t *testing.T) {
	testCases := map[string]*genai.GenerateContentResponse{
		"nil":           nil,
		"no candidates": {},
		"no parts":      {Candidates: []*genai.Candidate{{Content: &genai.Content{}}}},
		"not text":      {Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}}}}},
		"blank":         {Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Text("   ")}}}}},
	}
	for name, resp := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := extractText(resp)
			require.Error(t, err)
			assert.Equal(t, errors.CodeMalformedResponse, errors.GetCode(err))
		})
	}
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New(context.Background(), "", "gemini-2.5-flash", nil)
	assert.True(t, errors.IsInvalidArgument(err))
}
