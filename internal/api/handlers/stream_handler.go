package handlers

import (
	"FoodShare/domain"
	"FoodShare/internal/api/presenters"
	"FoodShare/pkg/campus"
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/valyala/fasthttp"
)

const keepAliveInterval = 20 * time.Second

type (
	// SnapshotHub is the subset of realtime.Hub the stream endpoints use.
	SnapshotHub interface {
		Subscribe(ctx context.Context, campusID string) (<-chan domain.EventSet, error)
		SubscribeBookmarks(ctx context.Context, userID string) (<-chan []string, error)
	}

	StreamHandler interface {
		StreamPins(c *fiber.Ctx) error
		StreamBookmarks(c *fiber.Ctx) error
	}

	streamHandler struct {
		base context.Context
		hub  SnapshotHub
	}
)

// NewStreamHandler returns SSE endpoints whose streams end when base is
// cancelled or the client goes away.
func NewStreamHandler(base context.Context, hub SnapshotHub) StreamHandler {
	return &streamHandler{base: base, hub: hub}
}

func (h *streamHandler) StreamPins(c *fiber.Ctx) error {
	campusID := c.Query("campus")
	if _, err := campus.Resolve(campusID); err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedStream, err)
	}

	ctx, cancel := context.WithCancel(h.base)
	sets, err := h.hub.Subscribe(ctx, campusID)
	if err != nil {
		cancel()
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedStream, err)
	}
	return stream(c, cancel, sets, "snapshot")
}

func (h *streamHandler) StreamBookmarks(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	ctx, cancel := context.WithCancel(h.base)
	ids, err := h.hub.SubscribeBookmarks(ctx, userID)
	if err != nil {
		cancel()
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedStream, err)
	}
	return stream(c, cancel, ids, "bookmarks")
}

// stream writes every value received on ch as an SSE event until ch closes
// or a write fails, then cancels the subscription.
func stream[T any](c *fiber.Ctx, cancel context.CancelFunc, ch <-chan T, event string) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		for {
			select {
			case v, ok := <-ch:
				if !ok {
					return
				}
				if err := writeEvent(w, event, v); err != nil {
					log.Debugf("sse %s: client gone: %v", event, err)
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": keepalive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}
