package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

const (
	// IdempotencyKeyHeader is the header for idempotency key.
	IdempotencyKeyHeader = "Idempotency-Key"

	idempotencyKeyPrefix  = "idempotency:"
	defaultIdempotencyTTL = 24 * time.Hour
	idempotencyLockTTL    = 30 * time.Second
)

// idempotencyResponse stores a replayable response.
type idempotencyResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency returns a middleware that replays the stored response for
// repeated requests carrying the same Idempotency-Key header. A request
// without the header passes through untouched. Concurrent requests with
// the same key are rejected with 409 while the first is in flight.
func Idempotency(redis goredis.UniversalClient, ttl time.Duration) gin.HandlerFunc {
	if ttl == 0 {
		ttl = defaultIdempotencyTTL
	}

	return func(c *gin.Context) {
		if redis == nil || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := idempotencyCacheKey(c, key)

		if cached, err := loadIdempotentResponse(ctx, redis, cacheKey); err == nil {
			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		lockKey := cacheKey + ":lock"
		locked, err := redis.SetNX(ctx, lockKey, "1", idempotencyLockTTL).Result()
		if err != nil {
			c.Next()
			return
		}
		if !locked {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error": gin.H{
					"code":    "DUPLICATE_SUBMISSION",
					"message": "A request with this idempotency key is already being processed",
				},
			})
			return
		}
		defer redis.Del(ctx, lockKey)

		writer := &captureWriter{ResponseWriter: c.Writer, body: bytes.NewBuffer(nil)}
		c.Writer = writer

		c.Next()

		// 5xx responses are not replayed; the client may retry.
		if status := c.Writer.Status(); status >= 200 && status < 500 {
			resp := &idempotencyResponse{
				StatusCode:  status,
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        writer.body.Bytes(),
			}
			storeIdempotentResponse(ctx, redis, cacheKey, resp, ttl)
		}
	}
}

func idempotencyCacheKey(c *gin.Context, key string) string {
	hash := sha256.Sum256([]byte(c.Request.Method + ":" + c.FullPath() + ":" + key))
	return idempotencyKeyPrefix + hex.EncodeToString(hash[:])
}

func loadIdempotentResponse(ctx context.Context, redis goredis.UniversalClient, key string) (*idempotencyResponse, error) {
	data, err := redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var resp idempotencyResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func storeIdempotentResponse(ctx context.Context, redis goredis.UniversalClient, key string, resp *idempotencyResponse, ttl time.Duration) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	redis.Set(ctx, key, data, ttl)
}
