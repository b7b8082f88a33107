package client

import (
	"FoodShare/domain"
	"FoodShare/pkg/campus"
	"FoodShare/pkg/projection"
	"FoodShare/pkg/workspace"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
)

const apiPrefix = "/api/v1"

type (
	// Client talks to the FoodShare HTTP API. It remembers the token of the
	// last successful sign-in and sends it with every request.
	Client struct {
		baseURL string
		http    *http.Client

		mu    sync.RWMutex
		token string
	}

	Option func(*Client)

	envelope struct {
		Status  bool            `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do sends a JSON request and decodes the data field of the response into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func decode(resp *http.Response, out any) error {
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return newAPIError(resp.StatusCode, http.StatusText(resp.StatusCode), "")
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode >= 300 || !env.Status {
		return newAPIError(resp.StatusCode, env.Message, env.Error)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}
	return nil
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*domain.AuthResponse, error) {
	res := new(domain.AuthResponse)
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/users"+path, nil, body, res); err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return res, nil
}

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	return c.authenticate(ctx, "/register", req)
}

func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	return c.authenticate(ctx, "/login", req)
}

func (c *Client) OAuthLogin(ctx context.Context, req domain.OAuthLoginRequest) (*domain.AuthResponse, error) {
	return c.authenticate(ctx, "/oauth", req)
}

// Logout forgets the token even when the server cannot be reached.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, apiPrefix+"/users/logout", nil, nil, nil)
	c.SetToken("")
	return err
}

func (c *Client) Me(ctx context.Context) (*domain.UserProfile, error) {
	res := new(domain.UserProfile)
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/users/me", nil, nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) SelectCampus(ctx context.Context, campusID string) (*domain.UserProfile, error) {
	res := new(domain.UserProfile)
	body := domain.SelectCampusRequest{CampusID: campusID}
	if err := c.do(ctx, http.MethodPut, apiPrefix+"/users/me/campus", nil, body, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) GetFilters(ctx context.Context) (*domain.FilterSettings, error) {
	res := new(domain.FilterSettings)
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/users/me/filters", nil, nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) SaveFilters(ctx context.Context, filters domain.FilterSettings) (*domain.FilterSettings, error) {
	res := new(domain.FilterSettings)
	if err := c.do(ctx, http.MethodPut, apiPrefix+"/users/me/filters", nil, filters, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) Campuses(ctx context.Context) ([]domain.Campus, error) {
	var res []domain.Campus
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/campuses", nil, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) Campus(ctx context.Context, id string) (*domain.Campus, error) {
	res := new(domain.Campus)
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/campuses/"+url.PathEscape(id), nil, nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

type MapOptions struct {
	Width      int
	Height     int
	SelectedID string
	EditingID  string
}

// MapPNG downloads the rendered campus map.
func (c *Client) MapPNG(ctx context.Context, campusID string, opts MapOptions) ([]byte, error) {
	query := url.Values{}
	if opts.Width > 0 {
		query.Set("width", strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		query.Set("height", strconv.Itoa(opts.Height))
	}
	if opts.SelectedID != "" {
		query.Set("selected", opts.SelectedID)
	}
	if opts.EditingID != "" {
		query.Set("editing", opts.EditingID)
	}
	req, err := c.newRequest(ctx, http.MethodGet, apiPrefix+"/campuses/"+url.PathEscape(campusID)+"/map.png", query, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/png")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decode(resp, nil)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) MapClick(ctx context.Context, campusID string, click domain.MapClickRequest) (*domain.MapClickResponse, error) {
	res := new(domain.MapClickResponse)
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/campuses/"+url.PathEscape(campusID)+"/map/click", nil, click, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) PublishSnapshot(ctx context.Context, campusID string) (*domain.MapSnapshotResponse, error) {
	res := new(domain.MapSnapshotResponse)
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/campuses/"+url.PathEscape(campusID)+"/map/snapshot", nil, nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ListPins returns the snapshot of one campus, or of all campuses when
// campusID is empty.
func (c *Client) ListPins(ctx context.Context, campusID string) (domain.EventSet, error) {
	query := url.Values{}
	if campusID != "" {
		query.Set("campus", campusID)
	}
	res := domain.EventSet{}
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/pins", query, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) MyPins(ctx context.Context) (domain.EventSet, error) {
	res := domain.EventSet{}
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/pins/mine", nil, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// View returns the server-side projection using the caller's saved filters.
func (c *Client) View(ctx context.Context, campusID string, tab projection.Tab) (*projection.View, error) {
	query := url.Values{"campus": {campusID}, "tab": {string(tab)}}
	res := new(projection.View)
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/pins/view", query, nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) CreatePin(ctx context.Context, req domain.CreatePinRequest) (*domain.CreatePinResponse, error) {
	res := new(domain.CreatePinResponse)
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/pins", nil, req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) GetPin(ctx context.Context, id string) (*domain.Pin, error) {
	res := new(domain.Pin)
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/pins/"+url.PathEscape(id), nil, nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) UpdatePin(ctx context.Context, id string, req domain.UpdatePinRequest) (*domain.Pin, error) {
	res := new(domain.Pin)
	if err := c.do(ctx, http.MethodPatch, apiPrefix+"/pins/"+url.PathEscape(id), nil, req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) DeletePin(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, apiPrefix+"/pins/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ToggleBookmark(ctx context.Context, id string) (*domain.ToggleBookmarkResponse, error) {
	res := new(domain.ToggleBookmarkResponse)
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/pins/"+url.PathEscape(id)+"/bookmark", nil, nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) Bookmarks(ctx context.Context) ([]string, error) {
	res := new(domain.BookmarksResponse)
	if err := c.do(ctx, http.MethodGet, apiPrefix+"/bookmarks", nil, nil, res); err != nil {
		return nil, err
	}
	return res.PinIDs, nil
}

// Page fetches the landing or campus picker page that Workspace redirects to.
func (c *Client) Page(ctx context.Context, view campus.View) (*domain.PageResponse, error) {
	res := new(domain.PageResponse)
	if err := c.do(ctx, http.MethodGet, view.Path(), nil, nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Workspace opens /map for campusID. When the server redirects, the view it
// redirected to is returned with a nil workspace.
func (c *Client) Workspace(ctx context.Context, campusID string, tab projection.Tab) (campus.View, *workspace.Workspace, error) {
	query := url.Values{}
	if campusID != "" {
		query.Set("campus", campusID)
	}
	if tab != "" {
		query.Set("tab", string(tab))
	}
	req, err := c.newRequest(ctx, http.MethodGet, campus.PathMap, query, nil)
	if err != nil {
		return campus.ViewLanding, nil, err
	}

	noFollow := *c.http
	noFollow.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	resp, err := noFollow.Do(req)
	if err != nil {
		return campus.ViewLanding, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		switch loc := resp.Header.Get("Location"); {
		case strings.HasSuffix(loc, campus.PathCampusPicker):
			return campus.ViewCampusPicker, nil, nil
		default:
			return campus.ViewLanding, nil, nil
		}
	}
	res := new(workspace.Workspace)
	if err := decode(resp, res); err != nil {
		return campus.ViewLanding, nil, err
	}
	return campus.ViewMap, res, nil
}
