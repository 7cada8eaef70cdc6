package assessor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLead() LeadData {
	return LeadData{
		Name:          "Maria Gonzalez",
		Email:         "maria.gonzalez@gmail.com",
		Phone:         "2025551234",
		ZipCode:       "90210",
		State:         "CA",
		InsuranceType: "auto",
		Details:       map[string]interface{}{"vehicle_year": 2021, "vehicle_make": "Toyota"},
	}
}

func completionBody(t *testing.T, verdict string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": verdict}},
		},
	})
	require.NoError(t, err)
	return body
}

func TestAssessParsesVerdict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "Maria Gonzalez")
		assert.Contains(t, req.Messages[1].Content, "vehicle_make")

		verdict := `{"ai_assessment":{"risk_score":15,"assessment":"low_risk","confidence":85,"issues":[]}}`
		w.Write(completionBody(t, verdict))
	}))
	defer server.Close()

	a := NewOpenAIAssessor("test-key", server.URL, "gpt-4o", 5*time.Second)
	result := a.Assess(context.Background(), testLead())

	assert.False(t, result.Unavailable)
	assert.Equal(t, 15, result.RiskScore)
	assert.Equal(t, "low_risk", result.Assessment)
	assert.Equal(t, 85, result.Confidence)
	assert.Equal(t, "gpt-4o", result.Model)
}

func TestAssessMissingAPIKey(t *testing.T) {
	a := NewOpenAIAssessor("", "http://localhost:1", "gpt-4o", time.Second)
	result := a.Assess(context.Background(), testLead())

	assert.True(t, result.Unavailable)
	assert.Equal(t, 50, result.RiskScore)
	assert.Equal(t, 0, result.Confidence)
	assert.Contains(t, result.Issues, "AI validation unavailable - using fallback rules")
}

func TestAssessServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusInternalServerError)
	}))
	defer server.Close()

	a := NewOpenAIAssessor("test-key", server.URL, "gpt-4o", 5*time.Second)
	result := a.Assess(context.Background(), testLead())

	assert.True(t, result.Unavailable)
	assert.Equal(t, 50, result.RiskScore)
}

func TestAssessMalformedVerdict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(completionBody(t, "this is not json"))
	}))
	defer server.Close()

	a := NewOpenAIAssessor("test-key", server.URL, "gpt-4o", 5*time.Second)
	result := a.Assess(context.Background(), testLead())

	assert.True(t, result.Unavailable)
	assert.Equal(t, 50, result.RiskScore)
}

func TestAssessTimeout(t *testing.T) {
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-done:
		}
	}))
	defer server.Close()
	defer close(done)

	a := NewOpenAIAssessor("test-key", server.URL, "gpt-4o", 50*time.Millisecond)
	start := time.Now()
	result := a.Assess(context.Background(), testLead())

	assert.True(t, result.Unavailable, "a slow assessor must not hang the request")
	assert.Less(t, time.Since(start), time.Second)
}

func TestAssessClampsOutOfRangeScores(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		verdict := `{"ai_assessment":{"risk_score":250,"assessment":"high_risk","confidence":120,"issues":["fabricated"]}}`
		w.Write(completionBody(t, verdict))
	}))
	defer server.Close()

	a := NewOpenAIAssessor("test-key", server.URL, "gpt-4o", 5*time.Second)
	result := a.Assess(context.Background(), testLead())

	assert.Equal(t, 100, result.RiskScore)
	assert.Equal(t, 100, result.Confidence)
}
