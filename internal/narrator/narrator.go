// Package narrator writes flavor text for combatants with Gemini.
package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/tatianab/wtii/internal/errors"
	"github.com/tatianab/wtii/internal/models"
)

//go:embed prompts/describe_combatant.txt
var describeCombatantPrompt string

var describeTemplate = template.Must(template.New("describe_combatant").Parse(describeCombatantPrompt))

type Narrator struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *zap.Logger
}

func New(ctx context.Context, apiKey, modelName string, logger *zap.Logger) (*Narrator, error) {
	if apiKey == "" {
		return nil, errors.InvalidArgument("gemini api key is required for narration")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "creating gemini client")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Narrator{
		client: client,
		model:  client.GenerativeModel(modelName),
		logger: logger,
	}, nil
}

func (n *Narrator) Close() {
	n.client.Close()
}

// Describe returns a short paragraph describing c in its current state.
func (n *Narrator) Describe(ctx context.Context, c *models.Combatant) (string, error) {
	prompt, err := BuildPrompt(c)
	if err != nil {
		return "", err
	}

	resp, err := n.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", errors.WrapWithCodef(err, errors.CodeUnavailable, "narrating %q", c.Name)
	}

	text, err := extractText(resp)
	if err != nil {
		return "", err
	}
	n.logger.Debug("narration generated", zap.String("combatant", c.Name), zap.Int("length", len(text)))
	return text, nil
}

// BuildPrompt renders the narration prompt for c.
func BuildPrompt(c *models.Combatant) (string, error) {
	kind := c.Faction.String()
	if c.Combat.CreatureType != "" {
		kind = c.Combat.CreatureType
	}

	data := struct {
		Name        string
		Kind        string
		Size        string
		Description string
		Condition   string
	}{
		Name:        c.Name,
		Kind:        kind,
		Size:        c.Combat.Size,
		Description: c.Description,
		Condition:   condition(c),
	}

	var buf bytes.Buffer
	if err := describeTemplate.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "rendering narration prompt")
	}
	return buf.String(), nil
}

func condition(c *models.Combatant) string {
	switch {
	case c.Status == models.StatusDead:
		return "dead"
	case c.MaxHealth == 0 || c.CurrentHealth*2 > c.MaxHealth:
		return "healthy"
	case c.CurrentHealth*4 > c.MaxHealth:
		return "bloodied"
	default:
		return "near death"
	}
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New(errors.CodeMalformedResponse, "no content returned from Gemini")
	}

	part := resp.Candidates[0].Content.Parts[0]
	text, ok := part.(genai.Text)
	if !ok {
		return "", errors.Newf(errors.CodeMalformedResponse, "unexpected response type %T from Gemini", part)
	}
	clean := strings.TrimSpace(string(text))
	if clean == "" {
		return "", errors.New(errors.CodeMalformedResponse, "empty narration from Gemini")
	}
	return clean, nil
}
