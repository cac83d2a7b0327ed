package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

type cachedPage struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Page caches successful GET responses wholesale, keyed by path+query, for
// the given TTL. Entries expire rather than being invalidated, so a write is
// not guaranteed to be visible in a cached list before the TTL runs out.
func Page(ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet {
			return c.Next()
		}

		// Visibility-filtered lists differ per actor, so the actor id is
		// part of the key (0 for anonymous callers).
		actorID := uint(0)
		if id, ok := c.Locals("userId").(uint); ok {
			actorID = id
		}
		key := fmt.Sprintf("views:%d:%s?%s", actorID, c.Path(), c.Request().URI().QueryString())

		if raw, ok := Client.Get(c.UserContext(), key); ok {
			var page cachedPage
			if err := json.Unmarshal([]byte(raw), &page); err == nil {
				c.Set(fiber.HeaderContentType, page.ContentType)
				return c.Status(page.Status).Send(page.Body)
			}
		}

		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status != fiber.StatusOK {
			return nil
		}

		page := cachedPage{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if raw, err := json.Marshal(page); err == nil {
			Client.Set(c.UserContext(), key, string(raw), ttl)
		}
		return nil
	}
}
