package jobs

import (
	"gorm.io/gorm"

	"github.com/insuraloop/backend/internal/queue"
	"github.com/insuraloop/backend/internal/services/email"
	"github.com/insuraloop/backend/internal/services/leads"
	"github.com/insuraloop/backend/internal/services/reward"
)

// RegisterAllJobHandlers wires every job handler into the worker manager
func RegisterAllJobHandlers(
	wm *queue.WorkerManager,
	db *gorm.DB,
	emailSvc *email.EmailService,
	rewardSvc *reward.Service,
	validationSvc *leads.ValidationService,
) {
	notificationJob := NewLeadNotificationJob(db, emailSvc)
	wm.RegisterWorker(string(queue.JobTypeLeadNotification), notificationJob.Handle, 2)

	rewardJob := NewReferralRewardJob(rewardSvc)
	wm.RegisterWorker(string(queue.JobTypeReferralReward), rewardJob.Handle, 2)

	revalidationJob := NewRevalidationJob(db, validationSvc)
	wm.RegisterWorker(string(queue.JobTypeLeadRevalidation), revalidationJob.Handle, 1)
}

// ScheduleRecurringJobs installs the recurring revalidation sweep
func ScheduleRecurringJobs(wm *queue.WorkerManager) error {
	return wm.ScheduleRecurringJob(
		"lead-revalidation-sweep",
		string(queue.JobTypeLeadRevalidation),
		map[string]interface{}{},
		"@every 15m",
	)
}
