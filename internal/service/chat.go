package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sugarsense/backend/internal/metrics"
	"github.com/sugarsense/backend/internal/models"
)

// DefaultGeminiURL is the generateContent endpoint of the chat model.
const DefaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

// Fallback chat replies.
const (
	ReplyUnableToProcess = "Unable to process request."
	ReplyError           = "Error processing request."
	ReplyEmpty           = "Try again later."
)

// LLMClient generates a completion for a prompt.
type LLMClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// GeminiClient calls the Gemini generateContent REST endpoint.
type GeminiClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// NewGeminiClient creates a client. An empty baseURL selects DefaultGeminiURL.
func NewGeminiClient(apiKey, baseURL string) *GeminiClient {
	if baseURL == "" {
		baseURL = DefaultGeminiURL
	}
	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("gemini API key is not configured")
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(data))
	}

	var out geminiResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("error unmarshaling response: %w", err)
	}

	var text strings.Builder
	for _, candidate := range out.Candidates {
		for _, part := range candidate.Content.Parts {
			text.WriteString(part.Text)
		}
		if text.Len() > 0 {
			break
		}
	}
	return text.String(), nil
}

// ChatContext is what the assistant knows about the user.
type ChatContext struct {
	Diet         string
	Allergies    string
	DiabetesRisk string
	Mood         string
}

// BuildChatPrompt renders the assistant prompt for one user message.
func BuildChatPrompt(cc ChatContext, message string) string {
	var b strings.Builder
	b.WriteString("You are a diabetes-focused assistant. User details:\n")
	fmt.Fprintf(&b, "- Diet: %s\n", cc.Diet)
	fmt.Fprintf(&b, "- Allergies: %s\n", cc.Allergies)
	fmt.Fprintf(&b, "- Diabetes risk: %s\n", cc.DiabetesRisk)
	fmt.Fprintf(&b, "- Mood: %s\n", cc.Mood)
	b.WriteString("Answer in 3-4 lines, focusing on diabetes, meals (low-GI), or exercise tailored to user data.\n")
	fmt.Fprintf(&b, "\nUser: %s", message)
	return b.String()
}

// ChatService answers user questions through the LLM with the user's context.
type ChatService struct {
	llm         LLMClient
	wellness    *WellnessService
	predictions PredictionRepository
	metrics     *metrics.Metrics
	log         logrus.FieldLogger
}

var _ IChatService = (*ChatService)(nil)

func NewChatService(llm LLMClient, wellness *WellnessService, predictions PredictionRepository, m *metrics.Metrics) *ChatService {
	return &ChatService{
		llm:         llm,
		wellness:    wellness,
		predictions: predictions,
		metrics:     m,
		log:         logrus.WithField("component", "chat"),
	}
}

// Context collects the user's diet, allergies, latest risk label and latest mood.
func (s *ChatService) Context(ctx context.Context, user *models.User) (ChatContext, error) {
	cc := ChatContext{Diet: "unknown", Allergies: "none", DiabetesRisk: "unknown", Mood: "unknown"}

	pref, err := s.wellness.Preferences(ctx, user.ID)
	if err != nil {
		return cc, err
	}
	if pref != nil {
		if pref.Preference != "" {
			cc.Diet = pref.Preference
		}
		if pref.Allergies != "" {
			cc.Allergies = pref.Allergies
		}
	}

	latest, err := s.predictions.Latest(ctx, user.ID)
	if err != nil {
		return cc, err
	}
	if latest != nil {
		cc.DiabetesRisk = fmt.Sprintf("%s (%.2f%%)", latest.Label, latest.Percent)
	}

	mood, err := s.wellness.LatestMood(ctx, user.ID)
	if err != nil {
		return cc, err
	}
	if mood != "" {
		cc.Mood = mood
	}
	return cc, nil
}

// Reply returns the assistant's answer. Failures are reported as fixed fallback replies
// rather than errors.
func (s *ChatService) Reply(ctx context.Context, user *models.User, message string) string {
	message = strings.TrimSpace(message)
	if message == "" || user == nil {
		s.metrics.ObserveChat("rejected")
		return ReplyUnableToProcess
	}

	cc, err := s.Context(ctx, user)
	if err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Error("Failed to build chat context")
		s.metrics.ObserveChat("error")
		return ReplyError
	}

	text, err := s.llm.GenerateContent(ctx, BuildChatPrompt(cc, message))
	if err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Error("Gemini request failed")
		s.metrics.ObserveChat("error")
		return ReplyError
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.metrics.ObserveChat("empty")
		return ReplyEmpty
	}
	s.metrics.ObserveChat("ok")
	return text
}
