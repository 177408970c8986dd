package livefeed

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/dukerupert/interviews/internal/schedule"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler upgrades /ws?month=YYYY-MM and streams the changes for that month.
// Without a month the page receives every change.
func (f *Feed) Handler(originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var month string
		if v := r.URL.Query().Get("month"); v != "" {
			c, err := schedule.ParseCursor(v)
			if err != nil {
				http.Error(w, "invalid month", http.StatusBadRequest)
				return
			}
			month = c.String()
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: originPatterns})
		if err != nil {
			f.logger.Warn("feed upgrade", "error", err)
			return
		}

		s := f.subscribe(month)
		defer f.unsubscribe(s)
		// Pages never send; CloseRead handles their close frame.
		ctx := conn.CloseRead(r.Context())
		f.stream(ctx, conn, s)
		conn.Close(websocket.StatusNormalClosure, "")
	}
}

func (f *Feed) stream(ctx context.Context, conn *websocket.Conn, s *subscriber) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-s.queue:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				f.logger.Debug("page write failed", "month", s.month, "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
