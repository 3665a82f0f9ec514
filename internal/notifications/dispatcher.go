package notifications

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"viajes/internal/utils"
)

const sendTimeout = 10 * time.Second

// Dispatcher renders receipts and fans them out to senders on a fixed pool of
// workers. Notify never blocks the caller.
type Dispatcher struct {
	renderer    ReceiptRenderer
	senders     []Sender
	dir         string
	workers     int
	maxAttempts int
	backoff     time.Duration

	queue   chan Event
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	started bool
}

type Option func(*Dispatcher)

func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queue = make(chan Event, n)
		}
	}
}

func WithMaxAttempts(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxAttempts = n
		}
	}
}

func WithBackoff(b time.Duration) Option {
	return func(d *Dispatcher) {
		if b >= 0 {
			d.backoff = b
		}
	}
}

// WithReceiptsDir persists every rendered receipt under dir.
func WithReceiptsDir(dir string) Option {
	return func(d *Dispatcher) {
		d.dir = dir
	}
}

func NewDispatcher(renderer ReceiptRenderer, senders []Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		renderer:    renderer,
		senders:     senders,
		workers:     2,
		maxAttempts: 3,
		backoff:     time.Second,
		queue:       make(chan Event, 100),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work(i)
	}
	utils.LogEvent("", "notify", "start", fmt.Sprintf("workers=%d queue=%d senders=%d", d.workers, cap(d.queue), len(d.senders)))
}

// Notify enqueues evt and reports whether it was accepted. A full queue or a
// closed dispatcher drops the event.
func (d *Dispatcher) Notify(evt Event) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		utils.LogEvent("", "notify", "drop", fmt.Sprintf("reason=closed reservation_id=%d", evt.ReservationID))
		return false
	}
	select {
	case d.queue <- evt:
		return true
	default:
		utils.LogEvent("", "notify", "drop", fmt.Sprintf("reason=queue_full reservation_id=%d kind=%s", evt.ReservationID, evt.Kind))
		return false
	}
}

// Close stops accepting events and waits for queued ones until ctx expires.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("notification drain: %w", ctx.Err())
	}
}

func (d *Dispatcher) work(id int) {
	defer d.wg.Done()
	for evt := range d.queue {
		d.handle(evt)
	}
	utils.LogEvent("", "notify", "worker_stop", fmt.Sprintf("worker=%d", id))
}

func (d *Dispatcher) handle(evt Event) {
	pdf, filename, err := d.renderer.Render(evt)
	if err != nil {
		utils.LogEvent("", "notify", "render_failed", fmt.Sprintf("reservation_id=%d err=%v", evt.ReservationID, err))
		return
	}
	receipt := Receipt{Filename: filename, PDF: pdf}

	if d.dir != "" {
		path, err := writeReceipt(d.dir, filename, pdf)
		if err != nil {
			utils.LogEvent("", "notify", "write_failed", fmt.Sprintf("reservation_id=%d err=%v", evt.ReservationID, err))
		} else {
			receipt.Path = path
		}
	}

	for _, s := range d.senders {
		d.sendWithRetry(s, evt, receipt)
	}
}

func (d *Dispatcher) sendWithRetry(s Sender, evt Event, receipt Receipt) {
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := s.Send(ctx, evt, receipt)
		cancel()
		if err == nil {
			utils.LogEvent("", "notify", "sent", fmt.Sprintf("sender=%s reservation_id=%d kind=%s attempt=%d", s.Name(), evt.ReservationID, evt.Kind, attempt))
			return
		}
		utils.LogEvent("", "notify", "send_failed", fmt.Sprintf("sender=%s reservation_id=%d attempt=%d err=%v", s.Name(), evt.ReservationID, attempt, err))
		if attempt < d.maxAttempts {
			time.Sleep(d.backoff * time.Duration(attempt))
		}
	}
	utils.LogEvent("", "notify", "gave_up", fmt.Sprintf("sender=%s reservation_id=%d attempts=%d", s.Name(), evt.ReservationID, d.maxAttempts))
}

func writeReceipt(dir, filename string, pdf []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create receipts dir: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, nil
}
