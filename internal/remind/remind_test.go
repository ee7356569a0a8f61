package remind

import (
	"context"
	"testing"
	"time"

	"github.com/proofhq/proof/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSpec(t *testing.T) {
	tests := []struct {
		cycle models.Cycle
		clock string
		want  string
	}{
		{models.CycleDaily, "21:00", "0 21 * * *"},
		{models.CycleWeekly, "09:30", "30 9 * * 1"},
		{models.CycleBiweekly, "7:05", "5 7 * * 1"},
		{models.CycleMonthly, "00:00", "0 0 1 * *"},
	}
	for _, tt := range tests {
		t.Run(string(tt.cycle), func(t *testing.T) {
			got, err := Spec(tt.cycle, tt.clock)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"25:00", "12:60", "noon", "12"} {
		_, err := Spec(models.CycleDaily, bad)
		assert.Error(t, err, bad)
	}
	_, err := Spec("yearly", "12:00")
	assert.Error(t, err)
}

func TestNext(t *testing.T) {
	// Wednesday 2026-10-14 10:00, ISO week 42
	wed := time.Date(2026, 10, 14, 10, 0, 0, 0, time.Local)

	tests := []struct {
		cycle models.Cycle
		want  time.Time
	}{
		{models.CycleDaily, time.Date(2026, 10, 14, 21, 0, 0, 0, time.Local)},
		{models.CycleWeekly, time.Date(2026, 10, 19, 21, 0, 0, 0, time.Local)},
		// 10-19 is ISO week 43, so the next even week starts 10-26
		{models.CycleBiweekly, time.Date(2026, 10, 26, 21, 0, 0, 0, time.Local)},
		{models.CycleMonthly, time.Date(2026, 11, 1, 21, 0, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		t.Run(string(tt.cycle), func(t *testing.T) {
			s, err := New(tt.cycle, "21:00", func(Reminder) {}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Next(wed))
		})
	}
}

func TestFireSkipsOddWeeksForBiweekly(t *testing.T) {
	var got []Reminder
	s, err := New(models.CycleBiweekly, "21:00", func(r Reminder) { got = append(got, r) }, nil)
	require.NoError(t, err)

	s.fire(time.Date(2026, 10, 19, 21, 0, 0, 0, time.Local)) // week 43
	s.fire(time.Date(2026, 10, 26, 21, 0, 0, 0, time.Local)) // week 44

	require.Len(t, got, 1)
	assert.Equal(t, 26, got[0].At.Day())
	assert.Equal(t, "지난 2주를 돌아보는 회고를 작성할 시간이에요", got[0].Message)
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, err := New(models.CycleDaily, "03:00", func(Reminder) {}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
