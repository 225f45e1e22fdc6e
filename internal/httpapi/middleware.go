package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	rateLimiterIdleTTL        = 10 * time.Minute
	rateLimiterSweepThreshold = 5000
)

// RequestLogger records one structured log line per request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(context *gin.Context) {
		start := time.Now()
		context.Next()
		logger.Info("http",
			zap.String("method", context.Request.Method),
			zap.String("path", context.Request.URL.Path),
			zap.Int("status", context.Writer.Status()),
			zap.Duration("dur", time.Since(start)),
			zap.String("ip", context.ClientIP()),
			zap.String("ua", context.Request.UserAgent()),
		)
	}
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// SubmissionRateLimiter enforces per-IP token buckets on public write
// endpoints. Idle buckets are evicted opportunistically during lookups so the
// map stays bounded in a single-process deployment.
type SubmissionRateLimiter struct {
	requestsPerSecond rate.Limit
	burst             int
	mutex             sync.Mutex
	bucketsByClient   map[string]*clientBucket
	lookupsSinceSweep int
}

// NewSubmissionRateLimiter constructs a limiter with the given refill rate and
// burst size.
func NewSubmissionRateLimiter(requestsPerSecond float64, burst int) *SubmissionRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &SubmissionRateLimiter{
		requestsPerSecond: rate.Limit(requestsPerSecond),
		burst:             burst,
		bucketsByClient:   make(map[string]*clientBucket),
	}
}

// Middleware returns the gin handler enforcing the limit; rejected requests
// receive 429 with a JSON error body.
func (rateLimiter *SubmissionRateLimiter) Middleware() gin.HandlerFunc {
	return func(context *gin.Context) {
		if !rateLimiter.allow(context.ClientIP()) {
			context.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{jsonKeyError: "rate_limited"})
			return
		}
		context.Next()
	}
}

func (rateLimiter *SubmissionRateLimiter) allow(clientIP string) bool {
	now := time.Now()

	rateLimiter.mutex.Lock()
	rateLimiter.lookupsSinceSweep++
	if rateLimiter.lookupsSinceSweep >= rateLimiterSweepThreshold {
		for clientKey, bucket := range rateLimiter.bucketsByClient {
			if now.Sub(bucket.lastSeen) >= rateLimiterIdleTTL {
				delete(rateLimiter.bucketsByClient, clientKey)
			}
		}
		rateLimiter.lookupsSinceSweep = 0
	}

	bucket, bucketExists := rateLimiter.bucketsByClient[clientIP]
	if !bucketExists {
		bucket = &clientBucket{limiter: rate.NewLimiter(rateLimiter.requestsPerSecond, rateLimiter.burst)}
		rateLimiter.bucketsByClient[clientIP] = bucket
	}
	bucket.lastSeen = now
	limiter := bucket.limiter
	rateLimiter.mutex.Unlock()

	return limiter.Allow()
}
