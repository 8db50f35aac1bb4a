// Package ai provides the generative text-suggestion call used by the
// card editor. One request, one attempt, no retries.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"cardpress/internal/app/model"
)

var (
	// ErrNotConfigured signals that no API key is set. It is returned
	// before any network attempt is made.
	ErrNotConfigured = errors.New("ai suggestions are not configured")
	// ErrInvalidCredential signals that the upstream rejected the key.
	ErrInvalidCredential = errors.New("ai api key was rejected")
	// ErrBadFormat signals an upstream response that is not a JSON
	// array of strings.
	ErrBadFormat = errors.New("ai response has unexpected format")
	// ErrUnsupportedField signals a suggestion request for a field the
	// prompt builder does not know.
	ErrUnsupportedField = errors.New("unsupported suggestion field")
	// ErrUpstream covers every other upstream failure.
	ErrUpstream = errors.New("ai suggestion request failed")
)

const defaultModel = "gemini-2.5-flash"

// Suggester returns short text suggestions for a card field given the
// partially filled card as context.
type Suggester interface {
	Suggest(ctx context.Context, field string, card model.Card) ([]string, error)
}

// GeminiSuggester calls the Gemini API with a JSON response schema so
// the reply is constrained to an array of strings.
type GeminiSuggester struct {
	apiKey string
	model  string

	initOnce sync.Once
	client   *genai.Client
	initErr  error
}

// NewGeminiSuggester builds a suggester. An empty apiKey is allowed;
// every Suggest call will then fail with ErrNotConfigured.
func NewGeminiSuggester(apiKey, modelName string) *GeminiSuggester {
	if modelName == "" {
		modelName = defaultModel
	}
	return &GeminiSuggester{apiKey: apiKey, model: modelName}
}

func (s *GeminiSuggester) Suggest(ctx context.Context, field string, card model.Card) ([]string, error) {
	if s.apiKey == "" {
		return nil, ErrNotConfigured
	}

	prompt, err := buildPrompt(field, card)
	if err != nil {
		return nil, err
	}

	client, err := s.init(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	resp, err := client.Models.GenerateContent(ctx, s.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema: &genai.Schema{
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
	)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && (apiErr.Code == 401 || apiErr.Code == 403) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return parseSuggestions(resp.Text())
}

func (s *GeminiSuggester) init(ctx context.Context) (*genai.Client, error) {
	s.initOnce.Do(func() {
		s.client, s.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  s.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	return s.client, s.initErr
}

func buildPrompt(field string, card model.Card) (string, error) {
	name := orNA(card.Name)
	title := orNA(card.Title)
	company := orNA(card.CompanyName)

	switch field {
	case "title":
		return fmt.Sprintf(`Based on the following professional details, suggest 5 creative and professional alternative job titles.
- Name: %s
- Current Title: %s
- Company: %s

Return only a JSON array of 5 strings. The titles should be concise and impactful.`, name, title, company), nil
	case "name", "cardName":
		return fmt.Sprintf(`I need suggestions for the "Card Name" field on a digital business card application. This is a friendly name for the card profile itself, not the person's legal name.
Based on these details:
- Full Name: %s
- Title: %s
- Company: %s

Suggest 5 friendly and professional options for the card's name. For example, for "John Smith", suggestions could be "John's Card", "John Smith - Professional Profile", etc.
Return only a JSON array of 5 strings.`, name, title, company), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedField, field)
	}
}

func parseSuggestions(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", ErrBadFormat)
	}

	var suggestions []string
	if err := json.Unmarshal([]byte(text), &suggestions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if len(suggestions) == 0 {
		return nil, fmt.Errorf("%w: empty suggestion list", ErrBadFormat)
	}
	return suggestions, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
