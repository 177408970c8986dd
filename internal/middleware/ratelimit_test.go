package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestLimiter(limit int, period time.Duration) (*Limiter, *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)}
	l := NewLimiter(limit, period)
	l.now = clk.now
	return l, clk
}

func TestLimiterAllow(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)
	for i := range 3 {
		if !l.Allow("a") {
			t.Fatalf("hit %d denied", i+1)
		}
	}
	if l.Allow("a") {
		t.Error("4th hit allowed")
	}
	if !l.Allow("b") {
		t.Error("other key should have its own bucket")
	}
}

func TestLimiterRefill(t *testing.T) {
	l, clk := newTestLimiter(1, time.Minute)
	l.Allow("a")
	if l.Allow("a") {
		t.Fatal("second hit before refill allowed")
	}
	clk.t = clk.t.Add(time.Minute)
	if !l.Allow("a") {
		t.Error("hit after refill denied")
	}
}

func TestLimiterPrune(t *testing.T) {
	l, clk := newTestLimiter(5, time.Minute)
	l.Allow("old")
	clk.t = clk.t.Add(45 * time.Second)
	l.Allow("new")
	clk.t = clk.t.Add(30 * time.Second)

	if n := l.Prune(); n != 1 {
		t.Errorf("Prune() = %d, want 1", n)
	}
	if _, ok := l.visitors["new"]; !ok || len(l.visitors) != 1 {
		t.Errorf("visitors after prune = %v, want only new", l.visitors)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remote     string
		trustProxy bool
		want       string
	}{
		{"remote addr", nil, "10.0.0.1:5555", true, "10.0.0.1"},
		{"cloudflare", map[string]string{"CF-Connecting-IP": "1.2.3.4", "X-Forwarded-For": "5.6.7.8"}, "10.0.0.1:5555", true, "1.2.3.4"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "5.6.7.8, 10.0.0.2"}, "10.0.0.1:5555", true, "5.6.7.8"},
		{"no port", nil, "10.0.0.1", true, "10.0.0.1"},
		{"forwarded untrusted", map[string]string{"X-Forwarded-For": "5.6.7.8"}, "10.0.0.1:5555", false, "10.0.0.1"},
		{"cloudflare untrusted", map[string]string{"CF-Connecting-IP": "1.2.3.4"}, "10.0.0.1:5555", false, "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ClientIP(req, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPerClient(t *testing.T) {
	l, _ := newTestLimiter(2, time.Minute)
	h := PerClient(l, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := range 2 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/upload_cv", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/upload_cv", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
	}

	req := httptest.NewRequest(http.MethodPost, "/upload_cv", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected JSON error body")
	}
}

func TestPerClientIgnoresSpoofedForwardedFor(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	h := PerClient(l, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i, xff := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		req := httptest.NewRequest(http.MethodPost, "/upload_cv", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		want := http.StatusTooManyRequests
		if i == 0 {
			want = http.StatusOK
		}
		if rec.Code != want {
			t.Errorf("request %d (X-Forwarded-For %s): status = %d, want %d", i+1, xff, rec.Code, want)
		}
	}
}
