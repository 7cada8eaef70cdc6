package assessor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/insuraloop/backend/internal/validation"
)

// OpenAIAssessor calls an OpenAI-compatible chat-completions API to analyze
// lead data for fraud signals
type OpenAIAssessor struct {
	apiKey     string
	apiBaseURL string
	model      string
	client     *http.Client
}

// NewOpenAIAssessor creates a new assessor. An empty API key is allowed; every
// call will then return the fallback assessment instead of hitting the API.
func NewOpenAIAssessor(apiKey, apiBaseURL, model string, timeout time.Duration) *OpenAIAssessor {
	if apiBaseURL == "" {
		apiBaseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-4o"
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &OpenAIAssessor{
		apiKey:     apiKey,
		apiBaseURL: strings.TrimSuffix(apiBaseURL, "/"),
		model:      model,
		client:     &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat formatSpec    `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type formatSpec struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// assessmentPayload mirrors the JSON object the model is asked to produce
type assessmentPayload struct {
	AIAssessment struct {
		RiskScore  int      `json:"risk_score"`
		Assessment string   `json:"assessment"`
		Confidence int      `json:"confidence"`
		Issues     []string `json:"issues"`
	} `json:"ai_assessment"`
}

const systemPrompt = "You are a fraud detection expert that analyzes lead data for insurance companies. " +
	"You only respond with valid JSON that exactly matches the requested format."

// Assess sends the lead's full field set to the completion API and parses the
// structured risk object out of the reply. Missing credentials, transport
// errors, non-200 responses and unparseable bodies all degrade to the neutral
// fallback; the error never reaches the caller.
func (a *OpenAIAssessor) Assess(ctx context.Context, lead LeadData) validation.RiskAssessment {
	if a.apiKey == "" {
		log.Printf("Warning: AI assessor skipped: no API key configured")
		return FallbackAssessment()
	}

	reqBody, err := json.Marshal(chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(lead)},
		},
		Temperature: 0,
		ResponseFormat: formatSpec{Type: "json_object"},
	})
	if err != nil {
		log.Printf("Error marshaling assessor request: %v", err)
		return FallbackAssessment()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiBaseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		log.Printf("Error creating assessor request: %v", err)
		return FallbackAssessment()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		log.Printf("Error calling AI assessor: %v", err)
		return FallbackAssessment()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Error reading assessor response: %v", err)
		return FallbackAssessment()
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("AI assessor returned status %d: %s", resp.StatusCode, string(body))
		return FallbackAssessment()
	}

	var completion chatResponse
	if err := json.Unmarshal(body, &completion); err != nil || len(completion.Choices) == 0 {
		log.Printf("Error parsing assessor completion: %v", err)
		return FallbackAssessment()
	}

	var payload assessmentPayload
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &payload); err != nil {
		log.Printf("Error parsing assessor verdict JSON: %v", err)
		return FallbackAssessment()
	}

	assessment := validation.RiskAssessment{
		RiskScore:  clamp(payload.AIAssessment.RiskScore),
		Assessment: payload.AIAssessment.Assessment,
		Confidence: clamp(payload.AIAssessment.Confidence),
		Issues:     payload.AIAssessment.Issues,
		Model:      a.model,
	}
	if assessment.Assessment == "" {
		assessment.Assessment = "medium_risk"
	}
	return assessment
}

// buildPrompt renders the lead's fields, including the insurance-type-specific
// details, followed by the strict JSON response contract
func buildPrompt(lead LeadData) string {
	var b strings.Builder

	b.WriteString("Analyze this lead information for potential fraud or validity issues:\n\n")
	writeField(&b, "Name", lead.Name)
	writeField(&b, "Email", lead.Email)
	writeField(&b, "Phone", lead.Phone)
	writeField(&b, "ZIP Code", lead.ZipCode)
	writeField(&b, "State", lead.State)
	writeField(&b, "Address", lead.Address)
	writeField(&b, "IP Address", lead.IPAddress)
	writeField(&b, "Insurance Type", lead.InsuranceType)
	writeField(&b, "Notes", lead.Notes)

	if len(lead.Details) > 0 {
		fmt.Fprintf(&b, "\n%s Insurance Details:\n", capitalize(lead.InsuranceType))
		for key, value := range lead.Details {
			fmt.Fprintf(&b, "%s: %v\n", key, value)
		}
	}

	b.WriteString(`
Provide a comprehensive assessment in the following JSON format:

{
  "ai_assessment": {
    "risk_score": number from 0-100 (higher = more risky),
    "assessment": "low_risk", "medium_risk", or "high_risk",
    "confidence": number from 0-100,
    "issues": [list of specific issues detected]
  }
}

Be especially vigilant for:
- Disposable emails and keyboard pattern emails (qwerty, asdf, etc.)
- Suspicious naming patterns and fake phone numbers
- Mismatched location info
- Mismatches between fields (e.g., email name vs provided name)
- Inconsistencies in the provided insurance details

Format the response as valid JSON only.`)

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		value = "Not provided"
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
