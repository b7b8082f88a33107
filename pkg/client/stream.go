package client

import (
	"FoodShare/domain"
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

const maxEventSize = 4 << 20

// Subscribe opens the snapshot stream of campusID. Every value is a full
// replacement of the campus's pins. The channel is closed when ctx is done
// or the server ends the stream.
func (c *Client) Subscribe(ctx context.Context, campusID string) (<-chan domain.EventSet, error) {
	return subscribe[domain.EventSet](ctx, c, apiPrefix+"/pins/stream", url.Values{"campus": {campusID}}, "snapshot")
}

// SubscribeBookmarks streams the ids bookmarked by the signed-in user.
// userID is not sent; the server derives it from the token.
func (c *Client) SubscribeBookmarks(ctx context.Context, _ string) (<-chan []string, error) {
	return subscribe[[]string](ctx, c, apiPrefix+"/bookmarks/stream", nil, "bookmarks")
}

func subscribe[T any](ctx context.Context, c *Client, path string, query url.Values, event string) (<-chan T, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decode(resp, nil)
	}

	out := make(chan T, 1)
	go func() {
		defer close(out)
		defer resp.Body.Close()

		err := readEvents(resp.Body, func(name string, data []byte) bool {
			if name != event {
				return true
			}
			var v T
			if err := json.Unmarshal(data, &v); err != nil {
				log.Warnf("client: drop malformed %s event: %v", event, err)
				return true
			}
			select {
			case out <- v:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil && ctx.Err() == nil {
			log.Warnf("client: %s stream ended: %v", event, err)
		}
	}()
	return out, nil
}

// readEvents parses a text/event-stream body and calls fn for every
// dispatched event until fn returns false or the body ends.
func readEvents(r io.Reader, fn func(event string, data []byte) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxEventSize)

	var (
		name string
		data strings.Builder
	)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if data.Len() > 0 {
				if name == "" {
					name = "message"
				}
				if !fn(name, []byte(data.String())) {
					return nil
				}
			}
			name = ""
			data.Reset()
		case strings.HasPrefix(line, ":"):
			// comment / keepalive
		default:
			field, value, _ := strings.Cut(line, ":")
			value = strings.TrimPrefix(value, " ")
			switch field {
			case "event":
				name = value
			case "data":
				if data.Len() > 0 {
					data.WriteByte('\n')
				}
				data.WriteString(value)
			}
		}
	}
	return scanner.Err()
}
