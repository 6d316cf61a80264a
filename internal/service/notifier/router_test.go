package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
	"github.com/m04kA/SMC-TableBooking/pkg/logger"
)

type recordingSink struct {
	mu      sync.Mutex
	sent    []int64
	failFor map[int64]error
	panicOn int64
}

func (s *recordingSink) Send(_ context.Context, recipientID int64, _ string) error {
	if recipientID == s.panicOn {
		panic("boom")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failFor[recipientID]; err != nil {
		return err
	}
	s.sent = append(s.sent, recipientID)
	return nil
}

type countingMetrics struct {
	results map[string]int
}

func (m *countingMetrics) IncNotification(result string) {
	m.results[result]++
}

func TestRouter_NotifyApproversContinuesAfterFailure(t *testing.T) {
	sink := &recordingSink{
		failFor: map[int64]error{2: errors.New("chat blocked")},
		panicOn: 3,
	}
	m := &countingMetrics{results: map[string]int{}}
	r := NewRouter(domain.NewApproverSet(4, 1, 2, 3), sink, m, logger.Nop())

	r.NotifyApprovers(t.Context(), "hello")

	assert.Equal(t, []int64{1, 4}, sink.sent)
	assert.Equal(t, 2, m.results[resultSent])
	assert.Equal(t, 2, m.results[resultFailed])
}

func TestRouter_NotifyUser(t *testing.T) {
	sink := &recordingSink{}
	r := NewRouter(domain.NewApproverSet(1), sink, nil, logger.Nop())

	r.NotifyUser(t.Context(), 42, "hi")

	assert.Equal(t, []int64{42}, sink.sent)
}

func TestMessages(t *testing.T) {
	start := time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)
	res := &domain.Reservation{
		ID:          7,
		TableNumber: 3,
		UserName:    "Анна",
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
	}

	assert.Contains(t, NewReservationText(res), "Стол: 3")
	assert.Contains(t, NewReservationText(res), "нет телефона")
	assert.Contains(t, ConfirmedText(res), "Дата: 10.06.2025")
	assert.Contains(t, CancelledText(res), "Время: 18:00 - 20:00")
	assert.Contains(t, CancelledByOwnerText(res), "#7")
}
