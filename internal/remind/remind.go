// Package remind schedules reflection reminders for the configured cycle.
package remind

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/proofhq/proof/pkg/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var messages = map[models.Cycle]string{
	models.CycleDaily:    "오늘 하루를 돌아보는 회고를 작성할 시간이에요",
	models.CycleWeekly:   "이번 주 회고를 작성할 시간이에요",
	models.CycleBiweekly: "지난 2주를 돌아보는 회고를 작성할 시간이에요",
	models.CycleMonthly:  "이번 달 회고를 작성할 시간이에요",
}

// Reminder is one fired notification.
type Reminder struct {
	Cycle   models.Cycle
	At      time.Time
	Message string
}

// ParseClock reads "HH:MM".
func ParseClock(s string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}

// Spec returns the cron spec for cycle at clock. Biweekly runs every
// Monday and Due filters out odd ISO weeks.
func Spec(cycle models.Cycle, clock string) (string, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	switch cycle {
	case models.CycleDaily:
		return fmt.Sprintf("%d %d * * *", minute, hour), nil
	case models.CycleWeekly, models.CycleBiweekly:
		return fmt.Sprintf("%d %d * * 1", minute, hour), nil
	case models.CycleMonthly:
		return fmt.Sprintf("%d %d 1 * *", minute, hour), nil
	}
	return "", fmt.Errorf("unknown cycle %q", cycle)
}

// Due reports whether a tick at t should notify.
func Due(cycle models.Cycle, t time.Time) bool {
	if cycle != models.CycleBiweekly {
		return true
	}
	_, week := t.ISOWeek()
	return week%2 == 0
}

// Scheduler fires reminders on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	schedule cron.Schedule
	cycle    models.Cycle
	spec     string
	notify   func(Reminder)
	logger   *zap.Logger
}

// New returns a Scheduler for cycle at clock ("HH:MM", local time).
func New(cycle models.Cycle, clock string, notify func(Reminder), logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	spec, err := Spec(cycle, clock)
	if err != nil {
		return nil, err
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", spec, err)
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cronLogger{logger.Sugar()})),
		schedule: schedule,
		cycle:    cycle,
		spec:     spec,
		notify:   notify,
		logger:   logger,
	}, nil
}

// Spec returns the cron spec in use.
func (s *Scheduler) Spec() string { return s.spec }

// Next returns the next time after t that will notify.
func (s *Scheduler) Next(t time.Time) time.Time {
	next := s.schedule.Next(t)
	for !Due(s.cycle, next) {
		next = s.schedule.Next(next)
	}
	return next
}

// Run schedules reminders and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Schedule(s.schedule, cron.FuncJob(func() { s.fire(time.Now()) }))
	s.cron.Start()
	s.logger.Info("reminders started", zap.String("cycle", string(s.cycle)), zap.String("spec", s.spec))

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("reminders stopped")
	return nil
}

func (s *Scheduler) fire(now time.Time) {
	if !Due(s.cycle, now) {
		s.logger.Debug("skipping off week", zap.Time("at", now))
		return
	}
	s.notify(Reminder{Cycle: s.cycle, At: now, Message: messages[s.cycle]})
}

// cronLogger routes cron's logging through zap.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
