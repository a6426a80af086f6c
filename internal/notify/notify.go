// notify реализует диспетчер уведомлений feed-сервиса.
//
// Диспетчер получает производные события от сервисного слоя и передаёт их
// внешнему приёмнику (Sink) fire-and-forget через буферизованную очередь:
// медленный приёмник не может затормозить запись реакции или комментария.
// Гарантий повторной доставки нет — долговечность на стороне приёмника.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/models"
	logctx "github.com/Priyanshukumar2344/mysocial-hub-sub000/pkg/log"
)

var (
	emittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_notifications_emitted_total",
		Help: "Notification events handed off to the sink, by kind.",
	}, []string{"kind"})

	suppressedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_notifications_suppressed_total",
		Help: "Notification events suppressed because actor == recipient.",
	})

	droppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_notifications_dropped_total",
		Help: "Notification events dropped due to a full queue.",
	})
)

// Notifier — то, что нужно сервисному слою от диспетчера: приём события
// без ожидания доставки. Выделен в интерфейс ради подмены в тестах.
type Notifier interface {
	Notify(ctx context.Context, ev models.NotificationEvent)
}

var _ Notifier = (*Dispatcher)(nil)

// Sink — внешний приёмник событий уведомлений.
// Приёмник отвечает за доставку (inbox/push/email); диспетчер не ретраит.
type Sink interface {
	Publish(ctx context.Context, ev models.NotificationEvent) error
	Close() error
}

// Dispatcher — асинхронный диспетчер уведомлений.
type Dispatcher struct {
	log    *slog.Logger
	sink   Sink
	queue  chan models.NotificationEvent
	done   chan struct{}
	closed sync.Once
}

// New запускает диспетчер с очередью заданного размера.
func New(log *slog.Logger, sink Sink, buffer int) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	if buffer <= 0 {
		buffer = 1
	}

	d := &Dispatcher{
		log:   log,
		sink:  sink,
		queue: make(chan models.NotificationEvent, buffer),
		done:  make(chan struct{}),
	}

	go d.run()

	return d
}

// Notify принимает событие от сервисного слоя.
//   - actor == recipient — самоуведомление, подавляется полностью;
//   - очередь полна — событие отбрасывается (warning + счётчик), вызов
//     никогда не блокируется.
func (d *Dispatcher) Notify(ctx context.Context, ev models.NotificationEvent) {
	if ev.ActorID == ev.RecipientID {
		suppressedTotal.Inc()
		return
	}

	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	select {
	case d.queue <- ev:
		emittedTotal.WithLabelValues(string(ev.Kind)).Inc()
	default:
		droppedTotal.Inc()
		logctx.From(ctx).Warn("notification_dropped",
			"kind", string(ev.Kind),
			"recipient_id", ev.RecipientID.String(),
			"post_id", ev.PostID,
		)
	}
}

// run — единственный потребитель очереди: передаёт события приёмнику.
func (d *Dispatcher) run() {
	defer close(d.done)

	for ev := range d.queue {
		// Свой контекст на каждую передачу: запрос-инициатор уже мог завершиться.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.sink.Publish(ctx, ev); err != nil {
			d.log.Error("notification_publish_failed",
				"kind", string(ev.Kind),
				"recipient_id", ev.RecipientID.String(),
				"err", err,
			)
		}
		cancel()
	}
}

// Close останавливает приём, дожидается опустошения очереди и закрывает приёмник.
func (d *Dispatcher) Close() error {
	var err error
	d.closed.Do(func() {
		close(d.queue)
		<-d.done
		err = d.sink.Close()
	})

	return err
}

// LogSink — приёмник-заглушка: пишет события в лог.
// Используется, когда внешний брокер не сконфигурирован (локальная разработка).
type LogSink struct {
	Log *slog.Logger
}

func (s LogSink) Publish(_ context.Context, ev models.NotificationEvent) error {
	l := s.Log
	if l == nil {
		l = slog.Default()
	}

	l.Info("notification",
		"kind", string(ev.Kind),
		"recipient_id", ev.RecipientID.String(),
		"actor_id", ev.ActorID.String(),
		"post_id", ev.PostID,
		"summary", ev.Summary,
	)

	return nil
}

func (s LogSink) Close() error { return nil }
