package middleware

import (
	"net/http"
	"sync"
	"time"

	"kidsevents/internal/app/dto"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов по ключу (IP клиента)
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow сообщает можно ли пропустить ещё один запрос с этим ключом
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = rl.now()
	rl.mu.Unlock()

	return v.limiter.Allow()
}

// Handler middleware с ключом по IP клиента
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(gCtx *gin.Context) {
		key := gCtx.ClientIP()
		if !rl.Allow(key) {
			log.WithFields(log.Fields{
				"ip":   key,
				"path": gCtx.FullPath(),
			}).Warn("rate limit exceeded")
			gCtx.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Status:  "fail",
				Message: "слишком много запросов, попробуйте позже",
			})
			return
		}
		gCtx.Next()
	}
}

// Cleanup удаляет ключи, не появлявшиеся дольше maxIdle
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	cutoff := rl.now().Add(-maxIdle)
	for key, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
			removed++
		}
	}
	return removed
}

// Limiters несколько лимитеров с общей очисткой
type Limiters []*RateLimiter

// Cleanup очищает каждый лимитер, возвращает общее число удалённых ключей
func (ls Limiters) Cleanup(maxIdle time.Duration) int {
	removed := 0
	for _, rl := range ls {
		removed += rl.Cleanup(maxIdle)
	}
	return removed
}

// Len количество отслеживаемых ключей
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}
