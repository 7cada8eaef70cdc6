package leads

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/insuraloop/backend/internal/models"
	"github.com/insuraloop/backend/internal/validation"
)

// LeadStore wraps lead persistence and provides the indexed duplicate
// lookups the validation package requires
type LeadStore struct {
	db *gorm.DB
}

// NewLeadStore creates a new lead store
func NewLeadStore(db *gorm.DB) *LeadStore {
	return &LeadStore{db: db}
}

// Create persists a new lead
func (s *LeadStore) Create(ctx context.Context, lead *models.Lead) error {
	if err := s.db.WithContext(ctx).Create(lead).Error; err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

// GetByID fetches a lead by id
func (s *LeadStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	if err := s.db.WithContext(ctx).First(&lead, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return &lead, nil
}

// ListByAgent returns an agent's leads, newest first
func (s *LeadStore) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]models.Lead, error) {
	var leads []models.Lead
	if err := s.db.WithContext(ctx).Where("agent_id = ?", agentID).
		Order("created_at DESC").Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// ListAll returns every lead, newest first
func (s *LeadStore) ListAll(ctx context.Context) ([]models.Lead, error) {
	var leads []models.Lead
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// ByEmailCI implements validation.LeadLookup with a case-insensitive exact
// email lookup
func (s *LeadStore) ByEmailCI(ctx context.Context, email string, excludeID uuid.UUID) ([]validation.LeadMatch, error) {
	return s.matches(ctx, excludeID, "LOWER(email) = ?", strings.ToLower(email))
}

// ByPhoneSuffix implements validation.LeadLookup against the normalized
// last-10-digit phone column
func (s *LeadStore) ByPhoneSuffix(ctx context.Context, last10 string, excludeID uuid.UUID) ([]validation.LeadMatch, error) {
	return s.matches(ctx, excludeID, "phone_digits = ?", last10)
}

// ByNameCIAndZip implements validation.LeadLookup with a case-insensitive
// name and exact ZIP lookup
func (s *LeadStore) ByNameCIAndZip(ctx context.Context, name, zipCode string, excludeID uuid.UUID) ([]validation.LeadMatch, error) {
	return s.matches(ctx, excludeID, "LOWER(name) = ? AND zip_code = ?", strings.ToLower(name), zipCode)
}

func (s *LeadStore) matches(ctx context.Context, excludeID uuid.UUID, query string, args ...interface{}) ([]validation.LeadMatch, error) {
	q := s.db.WithContext(ctx).Model(&models.Lead{}).Where(query, args...)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}

	var found []models.Lead
	if err := q.Limit(20).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("duplicate lookup failed: %w", err)
	}

	matches := make([]validation.LeadMatch, 0, len(found))
	for _, lead := range found {
		matches = append(matches, validation.LeadMatch{
			ID:      lead.ID,
			Email:   lead.Email,
			Phone:   lead.Phone,
			Name:    lead.Name,
			ZipCode: lead.ZipCode,
		})
	}
	return matches, nil
}
