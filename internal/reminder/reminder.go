// Package reminder periodically nudges users who have cards due.
package reminder

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/artem/quizbot/internal/logger"
	"github.com/artem/quizbot/internal/models"
	"github.com/artem/quizbot/internal/repository"
	"github.com/artem/quizbot/internal/services"
)

// Notifier delivers one due-cards nudge. The Telegram bot implements it.
type Notifier interface {
	NotifyDue(ctx context.Context, user models.User, due int) error
}

// Reminder runs an hourly sweep. Inside the configured notification
// window it counts each opted-in user's due cards and notifies those
// with work to do.
type Reminder struct {
	sched     *gocron.Scheduler
	users     repository.UserRepository
	scheduler *services.SchedulerService
	notifier  Notifier
	startHour int
	endHour   int
	log       *logger.Logger
	now       func() time.Time
}

func New(users repository.UserRepository, scheduler *services.SchedulerService, notifier Notifier, startHour, endHour int) *Reminder {
	return &Reminder{
		sched:     gocron.NewScheduler(time.UTC),
		users:     users,
		scheduler: scheduler,
		notifier:  notifier,
		startHour: startHour,
		endHour:   endHour,
		log:       logger.Default().WithPrefix("reminder"),
		now:       time.Now,
	}
}

// Start schedules the hourly sweep and returns immediately.
func (r *Reminder) Start() error {
	if _, err := r.sched.Every(1).Hour().Do(func() {
		r.Sweep(context.Background())
	}); err != nil {
		return err
	}
	r.sched.StartAsync()
	r.log.Info("reminder job scheduled hourly between %02d:00 and %02d:00", r.startHour, r.endHour)
	return nil
}

// Stop halts the schedule and waits for an in-flight sweep.
func (r *Reminder) Stop() {
	r.sched.Stop()
}

// Sweep runs one pass. Exported so a sweep can be triggered directly.
func (r *Reminder) Sweep(ctx context.Context) {
	hour := r.now().Hour()
	if hour < r.startHour || hour >= r.endHour {
		r.log.Debug("outside notification window, skipping sweep")
		return
	}

	users, err := r.users.ListNotifiable(ctx)
	if err != nil {
		r.log.Error("list users for reminders: %v", err)
		return
	}

	notified := 0
	for _, user := range users {
		due, err := r.scheduler.DueCount(ctx, user.ID)
		if err != nil {
			r.log.Warn("due count for user %d: %v", user.ID, err)
			continue
		}
		if due == 0 {
			continue
		}
		if err := r.notifier.NotifyDue(ctx, user, due); err != nil {
			r.log.Warn("notify user %d: %v", user.ID, err)
			continue
		}
		notified++
	}
	r.log.Info("reminder sweep done, %d of %d users notified", notified, len(users))
}
