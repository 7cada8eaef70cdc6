package validation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// stubLookup answers duplicate lookups from an in-memory slice
type stubLookup struct {
	leads    []LeadMatch
	emailErr error
	phoneErr error
	nameErr  error
}

func (s *stubLookup) ByEmailCI(ctx context.Context, email string, excludeID uuid.UUID) ([]LeadMatch, error) {
	if s.emailErr != nil {
		return nil, s.emailErr
	}
	var matches []LeadMatch
	for _, l := range s.leads {
		if l.ID != excludeID && strings.EqualFold(l.Email, email) {
			matches = append(matches, l)
		}
	}
	return matches, nil
}

func (s *stubLookup) ByPhoneSuffix(ctx context.Context, last10 string, excludeID uuid.UUID) ([]LeadMatch, error) {
	if s.phoneErr != nil {
		return nil, s.phoneErr
	}
	var matches []LeadMatch
	for _, l := range s.leads {
		if l.ID != excludeID && strings.HasSuffix(stripNonDigits(l.Phone), last10) {
			matches = append(matches, l)
		}
	}
	return matches, nil
}

func (s *stubLookup) ByNameCIAndZip(ctx context.Context, name, zipCode string, excludeID uuid.UUID) ([]LeadMatch, error) {
	if s.nameErr != nil {
		return nil, s.nameErr
	}
	var matches []LeadMatch
	for _, l := range s.leads {
		if l.ID != excludeID && strings.EqualFold(l.Name, name) && l.ZipCode == zipCode {
			matches = append(matches, l)
		}
	}
	return matches, nil
}

func TestDetectDuplicateByEmail(t *testing.T) {
	stored := LeadMatch{ID: uuid.New(), Email: "a@x.com", Phone: "2025551234", Name: "Maria Gonzalez", ZipCode: "90210"}
	detector := NewDuplicateDetector(&stubLookup{leads: []LeadMatch{stored}})

	// Case-insensitive exact email match wins at confidence 95
	result := detector.Detect(context.Background(), "A@X.COM", "3035550000", "Other Person", "10001", uuid.Nil)
	assert.True(t, result.IsDuplicate)
	assert.Equal(t, DuplicateConfidenceEmail, result.Confidence)
	assert.Equal(t, []uuid.UUID{stored.ID}, result.MatchingLeadIDs)
	assert.Equal(t, []string{"email"}, result.MatchingFields)
}

func TestDetectDuplicateByPhone(t *testing.T) {
	stored := LeadMatch{ID: uuid.New(), Email: "a@x.com", Phone: "+1 (202) 555-1234", Name: "Maria Gonzalez", ZipCode: "90210"}
	detector := NewDuplicateDetector(&stubLookup{leads: []LeadMatch{stored}})

	// Different email, same last 10 digits
	result := detector.Detect(context.Background(), "b@y.com", "12025551234", "Other Person", "10001", uuid.Nil)
	assert.True(t, result.IsDuplicate)
	assert.Equal(t, DuplicateConfidencePhone, result.Confidence)
	assert.Equal(t, []string{"phone"}, result.MatchingFields)
}

func TestDetectDuplicateByNameAndZip(t *testing.T) {
	stored := LeadMatch{ID: uuid.New(), Email: "a@x.com", Phone: "2025551234", Name: "Maria Gonzalez", ZipCode: "90210"}
	detector := NewDuplicateDetector(&stubLookup{leads: []LeadMatch{stored}})

	result := detector.Detect(context.Background(), "b@y.com", "3035550000", "maria gonzalez", "90210", uuid.Nil)
	assert.True(t, result.IsDuplicate)
	assert.Equal(t, DuplicateConfidenceNameZip, result.Confidence)
	assert.Equal(t, []string{"name", "zip_code"}, result.MatchingFields)
}

func TestDetectNoDuplicate(t *testing.T) {
	stored := LeadMatch{ID: uuid.New(), Email: "a@x.com", Phone: "2025551234", Name: "Maria Gonzalez", ZipCode: "90210"}
	detector := NewDuplicateDetector(&stubLookup{leads: []LeadMatch{stored}})

	result := detector.Detect(context.Background(), "b@y.com", "3035550000", "Other Person", "10001", uuid.Nil)
	assert.False(t, result.IsDuplicate)
	assert.Equal(t, 0, result.Confidence)
	assert.Empty(t, result.MatchingLeadIDs)
	assert.Empty(t, result.MatchingFields)
}

func TestDetectPriorityOrder(t *testing.T) {
	// The same stored lead matches on every tier; email wins
	stored := LeadMatch{ID: uuid.New(), Email: "a@x.com", Phone: "2025551234", Name: "Maria Gonzalez", ZipCode: "90210"}
	detector := NewDuplicateDetector(&stubLookup{leads: []LeadMatch{stored}})

	result := detector.Detect(context.Background(), "a@x.com", "2025551234", "Maria Gonzalez", "90210", uuid.Nil)
	assert.Equal(t, DuplicateConfidenceEmail, result.Confidence)
	assert.Equal(t, []string{"email"}, result.MatchingFields)
}

func TestDetectExcludesOwnID(t *testing.T) {
	stored := LeadMatch{ID: uuid.New(), Email: "a@x.com", Phone: "2025551234", Name: "Maria Gonzalez", ZipCode: "90210"}
	detector := NewDuplicateDetector(&stubLookup{leads: []LeadMatch{stored}})

	// Re-validating the stored lead itself finds nothing
	result := detector.Detect(context.Background(), "a@x.com", "2025551234", "Maria Gonzalez", "90210", stored.ID)
	assert.False(t, result.IsDuplicate)
}

func TestDetectLookupFailureIsNoMatch(t *testing.T) {
	stored := LeadMatch{ID: uuid.New(), Email: "a@x.com", Phone: "2025551234", Name: "Maria Gonzalez", ZipCode: "90210"}
	lookup := &stubLookup{leads: []LeadMatch{stored}, emailErr: errors.New("connection refused")}
	detector := NewDuplicateDetector(lookup)

	// Email lookup fails, but the phone tier still matches
	result := detector.Detect(context.Background(), "a@x.com", "2025551234", "Other Person", "10001", uuid.Nil)
	assert.True(t, result.IsDuplicate)
	assert.Equal(t, DuplicateConfidencePhone, result.Confidence)

	// All tiers failing degrades to no duplicate rather than an error
	lookup.phoneErr = errors.New("connection refused")
	lookup.nameErr = errors.New("connection refused")
	result = detector.Detect(context.Background(), "a@x.com", "2025551234", "Maria Gonzalez", "90210", uuid.Nil)
	assert.False(t, result.IsDuplicate)
}
