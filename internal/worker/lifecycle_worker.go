package worker

import (
	"log"
	"time"

	"github.com/bigsteppa/backend/internal/service"
)

// LifecycleWorker drives the time-derived challenge transitions: it
// promotes challenges whose start date has arrived to Ongoing and marks
// challenges whose duration has elapsed as Completed. Paused challenges
// stay where they are.
type LifecycleWorker struct {
	challengeService *service.ChallengeService
	interval         time.Duration
	stopChan         chan struct{}
}

// NewLifecycleWorker creates a new lifecycle sweeper
func NewLifecycleWorker(challengeService *service.ChallengeService, interval time.Duration) *LifecycleWorker {
	if interval <= 0 {
		interval = 1 * time.Minute
	}
	return &LifecycleWorker{
		challengeService: challengeService,
		interval:         interval,
		stopChan:         make(chan struct{}),
	}
}

// Start begins the sweep loop
func (w *LifecycleWorker) Start() {
	log.Printf("Lifecycle worker started with interval: %v", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run once at startup so restarts pick up transitions missed while down
	w.sweep()

	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-w.stopChan:
			log.Println("Lifecycle worker stopped")
			return
		}
	}
}

// Stop stops the sweep loop
func (w *LifecycleWorker) Stop() {
	close(w.stopChan)
}

func (w *LifecycleWorker) sweep() {
	now := time.Now()

	activated, err := w.challengeService.ActivateDue(now)
	if err != nil {
		log.Printf("Lifecycle worker: failed to activate due challenges: %v", err)
	} else if activated > 0 {
		log.Printf("Lifecycle worker: activated %d challenge(s)", activated)
	}

	completed, err := w.challengeService.CompleteElapsed(now)
	if err != nil {
		log.Printf("Lifecycle worker: failed to complete elapsed challenges: %v", err)
	} else if completed > 0 {
		log.Printf("Lifecycle worker: completed %d challenge(s)", completed)
	}
}
