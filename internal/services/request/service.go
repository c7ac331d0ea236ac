// Package request carries the per-request ID used to correlate log lines.
package request

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	localKey  = "request_id"
	maxLength = 64
)

// ID returns the request ID for this request, reading X-Request-ID when
// the caller supplied one and generating a fresh one otherwise. The
// result is cached in locals so every call within a request agrees.
func ID(c *fiber.Ctx) string {
	if cached, ok := c.Locals(localKey).(string); ok && cached != "" {
		return cached
	}

	id := sanitize(c.Get("X-Request-ID"))
	if id == "" {
		id = generate()
	}

	c.Locals(localKey, id)
	return id
}

// Meta extracts the caller's network identity for query logging.
func Meta(c *fiber.Ctx) (ip, userAgent string) {
	return c.IP(), c.Get(fiber.HeaderUserAgent)
}

func sanitize(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > maxLength {
		id = id[:maxLength]
	}
	return id
}

func generate() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "req_unknown"
	}
	return "req_" + hex.EncodeToString(bytes)
}
