package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/insuraloop/backend/internal/queue"
	"github.com/insuraloop/backend/internal/services/reward"
)

// ReferralRewardPayload identifies the converted lead whose reward is due
type ReferralRewardPayload struct {
	LeadID uuid.UUID `json:"lead_id"`
}

// ReferralRewardJob records referral rewards for converted leads
type ReferralRewardJob struct {
	rewardSvc *reward.Service
}

// NewReferralRewardJob creates a new referral reward job handler
func NewReferralRewardJob(rewardSvc *reward.Service) *ReferralRewardJob {
	return &ReferralRewardJob{rewardSvc: rewardSvc}
}

// Handle processes a referral reward job. Accrual is idempotent so a
// retried job for an already-paid lead is a no-op.
func (j *ReferralRewardJob) Handle(ctx context.Context, job queue.Job) (interface{}, error) {
	var payload ReferralRewardPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal referral reward payload: %w", err)
	}

	if err := j.rewardSvc.AccrueForConversion(ctx, payload.LeadID); err != nil {
		return nil, fmt.Errorf("failed to process referral reward: %w", err)
	}

	log.Printf("Processed referral reward for lead %s", payload.LeadID)
	return nil, nil
}
