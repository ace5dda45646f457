// services/scheduler.go
package services

import (
	"log"
	"time"

	"loot-hunt-system/models"

	"github.com/go-co-op/gocron/v2"
)

// CompleteEndedHunts flips active hunts whose window has closed to completed.
// Returns how many hunts were transitioned.
func (s *HuntService) CompleteEndedHunts(now time.Time) (int64, error) {
	res := s.DB.Model(&models.Hunt{}).
		Where("status = ? AND end_at IS NOT NULL AND end_at < ?", models.HuntStatusActive, now).
		Update("status", models.HuntStatusCompleted)
	if res.Error != nil {
		return 0, infraError("completing ended hunts", res.Error)
	}
	return res.RowsAffected, nil
}

// StartLifecycleScheduler keeps the denormalized hunt status in step with the
// activity window. Claims are independently gated by the window check in the
// claim evaluation, so a late tick can never let an expired claim through —
// this only keeps listings and dashboards honest.
func (s *HuntService) StartLifecycleScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: complete active hunts whose window has closed
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			n, err := s.CompleteEndedHunts(time.Now())
			if err != nil {
				log.Printf("[Scheduler] %v", err)
				return
			}
			if n > 0 {
				log.Printf("✅ Auto-completed %d ended hunt(s)", n)
			}
		}),
	)
}
