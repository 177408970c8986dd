package livefeed

import (
	"encoding/json"
	"log/slog"
	"slices"
	"sync"
)

// queueSize is how many undelivered changes a page may fall behind by before
// further changes are dropped for it.
const queueSize = 16

type subscriber struct {
	// month is the YYYY-MM the page shows. Empty subscribes to everything.
	month string
	queue chan []byte
}

func (s *subscriber) wants(c Change) bool {
	return s.month == "" || slices.Contains(c.Months, s.month)
}

// Feed fans published changes out to subscribed pages.
type Feed struct {
	mu     sync.Mutex
	seq    uint64
	subs   map[*subscriber]struct{}
	logger *slog.Logger
}

func New(logger *slog.Logger) *Feed {
	return &Feed{subs: make(map[*subscriber]struct{}), logger: logger}
}

func (f *Feed) subscribe(month string) *subscriber {
	s := &subscriber{month: month, queue: make(chan []byte, queueSize)}
	f.mu.Lock()
	f.subs[s] = struct{}{}
	n := len(f.subs)
	f.mu.Unlock()
	f.logger.Debug("page subscribed", "month", month, "subscribers", n)
	return s
}

func (f *Feed) unsubscribe(s *subscriber) {
	f.mu.Lock()
	delete(f.subs, s)
	f.mu.Unlock()
}

// Publish stamps c with the next sequence number and queues it for every
// interested page. Pages with a full queue miss it and will see a gap.
func (f *Feed) Publish(c Change) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	c.Seq = f.seq
	data, err := json.Marshal(c)
	if err != nil {
		f.logger.Error("encode change", "type", c.Type, "error", err)
		return
	}

	var delivered, dropped int
	for s := range f.subs {
		if !s.wants(c) {
			continue
		}
		select {
		case s.queue <- data:
			delivered++
		default:
			dropped++
		}
	}
	if dropped > 0 {
		f.logger.Warn("pages fell behind", "type", c.Type, "seq", c.Seq, "dropped", dropped)
	}
	f.logger.Debug("change published", "type", c.Type, "seq", c.Seq, "months", c.Months, "delivered", delivered)
}

// Subscribers is the number of connected pages.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
