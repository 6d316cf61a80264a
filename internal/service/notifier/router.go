package notifier

import (
	"context"
	"fmt"
	"slices"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// Результаты доставки для метрик
const (
	resultSent   = "sent"
	resultFailed = "failed"
)

// Router рассылает уведомления о событиях бронирования администраторам и пользователям.
// Каждому получателю делается одна попытка; ошибки логируются и не возвращаются.
type Router struct {
	approvers []int64
	sink      Sink
	metrics   MetricsRecorder
	logger    Logger
}

// NewRouter создает роутер уведомлений
func NewRouter(approvers domain.ApproverSet, sink Sink, metrics MetricsRecorder, logger Logger) *Router {
	ids := approvers.IDs()
	slices.Sort(ids)

	return &Router{
		approvers: ids,
		sink:      sink,
		metrics:   metrics,
		logger:    logger,
	}
}

// NotifyApprovers отправляет текст всем администраторам
func (r *Router) NotifyApprovers(ctx context.Context, text string) {
	for _, id := range r.approvers {
		r.deliver(ctx, id, text)
	}
}

// NotifyUser отправляет текст одному пользователю
func (r *Router) NotifyUser(ctx context.Context, chatID int64, text string) {
	r.deliver(ctx, chatID, text)
}

func (r *Router) deliver(ctx context.Context, recipientID int64, text string) {
	err := r.send(ctx, recipientID, text)
	if err != nil {
		r.logger.Error("Notifier: failed to notify recipient=%d: %v", recipientID, err)
		r.record(resultFailed)
		return
	}
	r.record(resultSent)
}

// send изолирует панику в sink, чтобы она не затронула других получателей
func (r *Router) send(ctx context.Context, recipientID int64, text string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("sink panic: %v", p)
		}
	}()
	return r.sink.Send(ctx, recipientID, text)
}

func (r *Router) record(result string) {
	if r.metrics != nil {
		r.metrics.IncNotification(result)
	}
}

// LogSink пишет уведомления в лог вместо доставки (драйвер "log")
type LogSink struct {
	logger Logger
}

func NewLogSink(logger Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Send(_ context.Context, recipientID int64, text string) error {
	s.logger.Info("Notifier: to=%d text=%q", recipientID, text)
	return nil
}
