package middlewares

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// General API traffic: a tournament tap-through is bursty, so allow a
	// generous burst on a slow refill.
	generalBurst = 60
	generalEvery = time.Second / 5

	// Login and password reset.
	loginBurst = 5
	loginEvery = 10 * time.Second

	// visitorTTL is how long an idle IP keeps its limiter.
	visitorTTL = 10 * time.Minute
)

// visitor holds the rate limiter and the last time we saw this IP.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorSet is one family of per-IP limiters sharing a refill rate.
type visitorSet struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	every    time.Duration
	burst    int
}

func newVisitorSet(every time.Duration, burst int) *visitorSet {
	return &visitorSet{visitors: make(map[string]*visitor), every: every, burst: burst}
}

var (
	generalVisitors = newVisitorSet(generalEvery, generalBurst)
	loginVisitors   = newVisitorSet(loginEvery, loginBurst)
)

func (s *visitorSet) limiter(ip string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, exists := s.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(s.every), s.burst)}
		s.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (s *visitorSet) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for ip, v := range s.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(s.visitors, ip)
			removed++
		}
	}
	return removed
}

func (s *visitorSet) reset() {
	s.mu.Lock()
	s.visitors = make(map[string]*visitor)
	s.mu.Unlock()
}

// middleware rejects a request with 429 once the caller's limiter is empty.
// Retry-After tells the client when the next token arrives.
func (s *visitorSet) middleware(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		reservation := s.limiter(c.ClientIP(), now).ReserveN(now, 1)
		if delay := reservation.DelayFrom(now); delay > 0 {
			reservation.CancelAt(now)
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": message})
			return
		}
		c.Next()
	}
}

// CleanupVisitors drops limiters for IPs idle longer than visitorTTL.
func CleanupVisitors(now time.Time) int {
	return generalVisitors.sweep(now) + loginVisitors.sweep(now)
}

// RateLimitMiddleware applies a simple per-IP rate limit for all routes.
func RateLimitMiddleware() gin.HandlerFunc {
	return generalVisitors.middleware("Too many requests. Please slow down.")
}

// LoginRateLimitMiddleware applies a stricter per-IP rate limit for auth routes.
func LoginRateLimitMiddleware() gin.HandlerFunc {
	return loginVisitors.middleware("Too many authentication attempts. Please wait and try again.")
}
