package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
)

// Sliding-window limiter as an atomic Lua script.
// KEYS[1]=limiter key, ARGV: now, window start, window seconds, member, limit.
// Returns the count inside the window, or -1 when over the limit.
const luaRateLimit = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local windowStart = tonumber(ARGV[2])
local windowSec = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '0', windowStart)

local count = redis.call('ZCARD', key)

if count < tonumber(ARGV[5]) then
  redis.call('ZADD', key, now, member)
  redis.call('EXPIRE', key, windowSec)
  return count + 1
else
  return -1
end
`

// RateLimit throttles payment pushes per phone number, falling back to
// the client IP when the body carries no phone. Redis errors let the
// request through rather than blocking payments on a cache outage.
func RateLimit(rdb *rd.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rate:push:ip:" + c.ClientIP()
		if phone := extractPhone(c); phone != "" {
			key = "rate:push:phone:" + phone
		}

		now := time.Now().Unix()
		windowSec := int64(window.Seconds())
		member := fmt.Sprintf("%d-%d", now, time.Now().UnixNano())

		res, err := rdb.Eval(c.Request.Context(), luaRateLimit, []string{key},
			now, now-windowSec, windowSec, member, limit).Int()
		if err != nil {
			c.Next()
			return
		}

		if res < 0 {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many payment requests, try again shortly",
			})
			return
		}
		c.Next()
	}
}

// extractPhone peeks at the JSON body without consuming it.
func extractPhone(c *gin.Context) string {
	bodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	var req struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := json.Unmarshal(bodyBytes, &req); err != nil {
		return ""
	}
	return req.PhoneNumber
}
