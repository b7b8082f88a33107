package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"FoodShare/domain"
	"FoodShare/pkg/campus"
	"FoodShare/pkg/projection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPinRequest(title string) domain.CreatePinRequest {
	return domain.CreatePinRequest{
		Title:       title,
		Description: "leftover catering",
		Host:        "CS Club",
		Location:    domain.LatLng{Lat: 36.001, Lng: -78.94},
		Date:        "2099-06-01",
		StartTime:   "12:00",
		EndTime:     "14:00",
		IsFree:      true,
		Category:    []string{"mains", "drinks"},
		CampusID:    "duke",
	}
}

func register(t *testing.T, url, email string) *Client {
	t.Helper()
	c := New(url)
	res, err := c.Register(context.Background(), domain.RegisterRequest{
		Email:       email,
		Password:    "secret123",
		DisplayName: strings.Split(email, "@")[0],
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, res.Token, c.Token())
	return c
}

func TestAPIErrorUnwrapsDomainErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"status":false,"message":"failed to delete pin","error":"permission denied"}`)
	}))
	defer srv.Close()

	err := New(srv.URL).DeletePin(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "failed to delete pin", apiErr.Message)
}

func TestTokenIsSent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"status":true,"message":"ok","data":{"pin_ids":["a","b"]}}`)
	}))
	defer srv.Close()

	ids, err := New(srv.URL, WithToken("abc")).Bookmarks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", got)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestReadEvents(t *testing.T) {
	body := ": keepalive\n\n" +
		"event: snapshot\ndata: [1,\ndata: 2]\n\n" +
		"data: plain\n\n" +
		"event: other\ndata: {}\n\n"

	type ev struct{ name, data string }
	var got []ev
	err := readEvents(strings.NewReader(body), func(name string, data []byte) bool {
		got = append(got, ev{name, string(data)})
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []ev{
		{"snapshot", "[1,\n2]"},
		{"message", "plain"},
		{"other", "{}"},
	}, got)
}

func TestSubscribeDecodesSnapshots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "duke", r.URL.Query().Get("campus"))
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		fmt.Fprint(w, "event: snapshot\ndata: []\n\n")
		flusher.Flush()
		fmt.Fprint(w, "event: snapshot\ndata: not-json\n\n")
		fmt.Fprint(w, `event: snapshot`+"\n"+`data: [{"id":"p1","campus_id":"duke"}]`+"\n\n")
		flusher.Flush()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sets, err := New(srv.URL).Subscribe(ctx, "duke")
	require.NoError(t, err)

	first := <-sets
	assert.Empty(t, first)
	second := <-sets
	require.Len(t, second, 1)
	assert.Equal(t, "p1", second[0].ID)

	_, open := <-sets
	assert.False(t, open, "stream closes when the server ends it")
}

func TestEndToEnd(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alice := register(t, srv.URL, "alice@duke.edu")
	bob := register(t, srv.URL, "bob@duke.edu")

	profile, err := alice.SelectCampus(ctx, "duke")
	require.NoError(t, err)
	assert.Equal(t, "duke", profile.SelectedCampus)

	sets, err := alice.Subscribe(ctx, "duke")
	require.NoError(t, err)
	initial := <-sets
	assert.Empty(t, initial)

	created, err := alice.CreatePin(ctx, newPinRequest("Pizza"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	var latest domain.EventSet
	require.Eventually(t, func() bool {
		srv.Hub.Refresh(ctx)
		select {
		case latest = <-sets:
		case <-time.After(50 * time.Millisecond):
		}
		_, ok := latest.Find(created.ID)
		return ok
	}, 3*time.Second, 20*time.Millisecond)

	t.Run("non-owner cannot delete", func(t *testing.T) {
		err := bob.DeletePin(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)

		p, err := bob.GetPin(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Pizza", p.Title)
	})

	t.Run("bookmark toggled twice", func(t *testing.T) {
		first, err := bob.ToggleBookmark(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, first.Bookmarked)

		ids, err := bob.Bookmarks(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{created.ID}, ids)

		second, err := bob.ToggleBookmark(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, second.Bookmarked)

		ids, err = bob.Bookmarks(ctx)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("owner updates", func(t *testing.T) {
		title := "Pizza & Wings"
		p, err := alice.UpdatePin(ctx, created.ID, domain.UpdatePinRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, title, p.Title)

		mine, err := alice.MyPins(ctx)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, title, mine[0].Title)
	})

	t.Run("projected view", func(t *testing.T) {
		view, err := alice.View(ctx, "duke", projection.TabUpcoming)
		require.NoError(t, err)
		require.Len(t, view.MapPins, 1)
		require.Len(t, view.Sidebar, 1)
		assert.False(t, view.Sidebar[0].Live)

		past, err := alice.View(ctx, "duke", projection.TabPast)
		require.NoError(t, err)
		assert.Empty(t, past.Sidebar)
	})

	t.Run("navigation", func(t *testing.T) {
		view, ws, err := New(srv.URL).Workspace(ctx, "duke", "")
		require.NoError(t, err)
		assert.Equal(t, campus.ViewLanding, view)
		assert.Nil(t, ws)

		view, _, err = alice.Workspace(ctx, "nowhere", "")
		require.NoError(t, err)
		assert.Equal(t, campus.ViewCampusPicker, view)

		view, ws, err = alice.Workspace(ctx, "duke", projection.TabUpcoming)
		require.NoError(t, err)
		assert.Equal(t, campus.ViewMap, view)
		require.NotNil(t, ws)
		assert.Equal(t, "duke", ws.Campus.ID)
		assert.Len(t, ws.View.MapPins, 1)
	})

	t.Run("redirect targets exist", func(t *testing.T) {
		landing, err := New(srv.URL).Page(ctx, campus.ViewLanding)
		require.NoError(t, err)
		assert.Equal(t, "landing", landing.View)
		assert.False(t, landing.Authenticated)

		picker, err := alice.Page(ctx, campus.ViewCampusPicker)
		require.NoError(t, err)
		assert.Equal(t, "campus_picker", picker.View)
		assert.True(t, picker.Authenticated)
		assert.Equal(t, campus.All(), picker.Campuses)

		resp, err := http.Get(srv.URL + campus.PathMap)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, campus.PathLanding, resp.Request.URL.Path)
	})

	t.Run("map png", func(t *testing.T) {
		png, err := alice.MapPNG(ctx, "duke", MapOptions{Width: 200, Height: 150, SelectedID: created.ID})
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
	})

	t.Run("unknown campus", func(t *testing.T) {
		_, err := alice.ListPins(ctx, "nowhere")
		assert.ErrorIs(t, err, domain.ErrUnknownCampus)
	})

	t.Run("create while signed out", func(t *testing.T) {
		_, err := New(srv.URL).CreatePin(ctx, newPinRequest("Nope"))
		assert.ErrorIs(t, err, domain.ErrNotSignedIn)
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, alice.DeletePin(ctx, created.ID))
		_, err := alice.GetPin(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrPinNotFound)
	})
}
