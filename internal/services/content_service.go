package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ArowuTest/zithara-mail-backend/internal/apperrors"
	"github.com/ArowuTest/zithara-mail-backend/internal/models"
	"github.com/charmbracelet/log"
)

// ContentGenerator turns a prompt into text.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

var purposeInstructions = map[string]string{
	"promotion":    "Create content that highlights the benefits and creates urgency for the promotion.",
	"newsletter":   "Write informative and engaging content for the newsletter that provides value to subscribers.",
	"announcement": "Craft a clear and impactful message about the announcement.",
}

var toneInstructions = map[string]string{
	"professional": "Use formal language, proper grammar, and maintain a business-appropriate tone.",
	"casual":       "Use conversational language while maintaining professionalism.",
	"friendly":     "Use warm and approachable language that builds rapport.",
}

// BuildEmailPrompt assembles the instruction text sent to the generator.
// Unknown purposes and tones fall back to the key points themselves.
func BuildEmailPrompt(purpose, tone, kind, keyPoints, campaignName string) string {
	target := "an engaging email content"
	if kind == "subject" {
		target = "a compelling email subject line"
	}

	purposeText, ok := purposeInstructions[purpose]
	if !ok {
		purposeText = "Generate content based on the following specific requirements: " + keyPoints
	}
	toneText, ok := toneInstructions[tone]
	if !ok {
		toneText = "Maintain the following specific tone: " + keyPoints
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert email marketing specialist. Generate %s for the following campaign: \"%s\".\n\n", target, campaignName)
	fmt.Fprintf(&b, "Purpose: %s\n", purposeText)
	fmt.Fprintf(&b, "Tone: %s\n\n", toneText)
	b.WriteString("Generate comprehensive email content that:\n")
	b.WriteString("1. Has a clear and engaging opening\n")
	fmt.Fprintf(&b, "2. Elaborates on these key points: %s\n", keyPoints)
	b.WriteString("3. Includes a strong call-to-action\n")
	b.WriteString("4. Has a professional closing\n\n")
	b.WriteString("Provide only the email content text, without any markdown formatting or additional explanations.")
	return b.String()
}

type contentService struct {
	generator ContentGenerator
}

// NewContentService creates a ContentService. generator may be nil when no
// API key is configured; generation then fails with a configuration error.
func NewContentService(generator ContentGenerator) ContentService {
	return &contentService{generator: generator}
}

func (s *contentService) GenerateContent(ctx context.Context, req *models.GenerateContentRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", apperrors.NewValidation("Please provide a prompt for content generation")
	}
	if s.generator == nil {
		return "", apperrors.NewConfigurationError("GEMINI_API_KEY", nil)
	}

	purpose := valueOr(req.Purpose, "custom")
	tone := valueOr(req.Tone, "professional")
	kind := valueOr(req.Type, "content")
	name := valueOr(req.CampaignName, req.Prompt)

	log.Debug("Generating email content", "purpose", purpose, "tone", tone, "type", kind)
	text, err := s.generator.GenerateContent(ctx, BuildEmailPrompt(purpose, tone, kind, req.KeyPoints, name))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return text, nil
}

func (s *contentService) GenerateSubject(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", apperrors.NewValidation("Please provide content for subject line generation")
	}
	if s.generator == nil {
		return "", apperrors.NewConfigurationError("GEMINI_API_KEY", nil)
	}
	text, err := s.generator.GenerateContent(ctx, BuildEmailPrompt("custom", "professional", "subject", "", content))
	if err != nil {
		return "", fmt.Errorf("failed to generate subject line: %w", err)
	}
	return text, nil
}

// Process echoes the draft; personalization happens per recipient at send time.
func (s *contentService) Process(req *models.ProcessContentRequest) *models.ProcessContentRequest {
	return &models.ProcessContentRequest{Subject: req.Subject, Content: req.Content}
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
