// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter counts hits per key in fixed windows. It is safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	now      func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit hits per duration and starts a
// sweeper that drops expired windows. Call Stop when done.
func New(limit int, duration time.Duration) *Limiter {
	l := newLimiter(limit, duration, time.Now)
	go l.sweepLoop(duration * 2)
	return l
}

func newLimiter(limit int, duration time.Duration, now func() time.Time) *Limiter {
	return &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		now:      now,
		stopCh:   make(chan struct{}),
	}
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Remaining returns how many hits key has left in its current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || l.now().After(w.expiresAt) {
		return l.limit
	}
	return max(l.limit-w.count, 0)
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Stop ends the sweeper goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// sweep removes expired windows and returns how many were dropped.
func (l *Limiter) sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	n := 0
	for key, w := range l.windows {
		if now.After(w.expiresAt) {
			delete(l.windows, key)
			n++
		}
	}
	return n
}

func (l *Limiter) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

// ClientIP returns the host part of RemoteAddr. With trustProxy set, the
// first X-Forwarded-For entry and then X-Real-IP take precedence; only set
// it behind a proxy that overwrites those headers.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

/*─────────────────────────────────────────────────────────────────────────────*
| Admin login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// Messages shown on the login form when an attempt is throttled.
const (
	MsgTooManyFromIP   = "Too many login attempts. Please wait a minute before trying again."
	MsgTooManyForEmail = "Too many login attempts for this account. Please wait a few minutes."
)

const (
	defaultIPLimit     = 10
	defaultIPWindow    = time.Minute
	defaultEmailLimit  = 5
	defaultEmailWindow = 5 * time.Minute
)

// LoginLimiter throttles POST /admin per client IP and per submitted email
// from that IP. Guessing at one email from many addresses is bounded by the
// IP limit of each address, and never locks the real admin out.
type LoginLimiter struct {
	ip    *Limiter
	email *Limiter

	// TrustProxy makes ClientIP honour X-Forwarded-For and X-Real-IP.
	TrustProxy bool
}

// NewLoginLimiter allows 10 attempts per IP per minute and 5 per email per
// five minutes.
func NewLoginLimiter() *LoginLimiter {
	return NewLoginLimiterWithConfig(defaultIPLimit, defaultIPWindow, defaultEmailLimit, defaultEmailWindow)
}

// NewLoginLimiterWithConfig builds a login limiter with custom limits.
func NewLoginLimiterWithConfig(ipLimit int, ipWindow time.Duration, emailLimit int, emailWindow time.Duration) *LoginLimiter {
	return &LoginLimiter{
		ip:    New(ipLimit, ipWindow),
		email: New(emailLimit, emailWindow),
	}
}

// ClientIP is the address attempts from r are counted against.
func (ll *LoginLimiter) ClientIP(r *http.Request) string {
	return ClientIP(r, ll.TrustProxy)
}

// Check records an attempt and returns a user-facing reason when it is
// refused.
func (ll *LoginLimiter) Check(r *http.Request, email string) (bool, string) {
	ip := ll.ClientIP(r)
	if !ll.ip.Allow(ip) {
		return false, MsgTooManyFromIP
	}
	if key := emailKey(ip, email); key != "" && !ll.email.Allow(key) {
		return false, MsgTooManyForEmail
	}
	return true, ""
}

// ResetEmail clears the per-email counter for r's address after a
// successful sign-in.
func (ll *LoginLimiter) ResetEmail(r *http.Request, email string) {
	if key := emailKey(ll.ClientIP(r), email); key != "" {
		ll.email.Reset(key)
	}
}

// Stop ends both sweepers.
func (ll *LoginLimiter) Stop() {
	ll.ip.Stop()
	ll.email.Stop()
}

func emailKey(ip, email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}
	return ip + "|" + email
}
