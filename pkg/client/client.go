package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/familyfit/familyfit/pkg/domain"
	"github.com/familyfit/familyfit/pkg/session"
)

const (
	// BasePath prefixes every API path.
	BasePath = "/api"
	// DefaultTimeout bounds how long a call may stay pending.
	DefaultTimeout = 30 * time.Second

	fallbackMessage = "request failed"
	maxErrorBody    = 1 << 20 // 1 MB
)

// Client is the FamilyFit API client. It is the single point of HTTP egress:
// it injects the session token, unwraps the server envelope, and normalizes
// failures into *Error.
type Client struct {
	baseURL    string
	store      session.Store
	httpClient *http.Client
	log        *zap.SugaredLogger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport. hc is copied, so forcing
// an unset Timeout to DefaultTimeout leaves the caller's client untouched.
// A nil hc is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		cp := *hc
		c.httpClient = &cp
	}
}

// WithLogger sets the logger used for failed calls.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a new API client. baseURL is the server origin; BasePath is
// appended to it.
func New(baseURL string, store session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		log: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Timeout == 0 {
		c.httpClient.Timeout = DefaultTimeout
	}
	if c.store == nil {
		c.store = session.NewMemoryStore("")
	}
	return c
}

// Session returns the session store the client reads its token from.
func (c *Client) Session() session.Store {
	return c.store
}

// --- Exercise ---

// ParseExerciseReport uploads a workout screenshot for recognition and scoring.
func (c *Client) ParseExerciseReport(ctx context.Context, filename string, r io.Reader, userID int64) (*domain.ExerciseReport, error) {
	form := &Form{
		Files:  []FormFile{{Field: "file", Filename: filename, Content: r}},
		Fields: []FormField{{Name: "user_id", Value: formatID(userID)}},
	}
	var report domain.ExerciseReport
	if err := c.Request(ctx, http.MethodPost, "/parse_report", nil, form, &report); err != nil {
		return nil, fmt.Errorf("client.ParseExerciseReport: %w", err)
	}
	return &report, nil
}

// --- Tasks ---

// TodayTasks fetches today's scheduled tasks for a user.
func (c *Client) TodayTasks(ctx context.Context, userID int64) (*domain.TodayTasks, error) {
	params := url.Values{}
	params.Set("user_id", formatID(userID))

	var tasks domain.TodayTasks
	if err := c.get(ctx, "/tasks/today", params, &tasks); err != nil {
		return nil, fmt.Errorf("client.TodayTasks: %w", err)
	}
	return &tasks, nil
}

// MarkTaskDone marks a task complete. Repeat calls are forwarded as-is.
func (c *Client) MarkTaskDone(ctx context.Context, taskID, userID int64) (*domain.TaskDoneResult, error) {
	body := map[string]int64{"task_id": taskID, "user_id": userID}

	var res domain.TaskDoneResult
	if err := c.post(ctx, "/tasks/done", body, &res); err != nil {
		return nil, fmt.Errorf("client.MarkTaskDone: %w", err)
	}
	return &res, nil
}

// --- Meals ---

// AddMeal submits a meal record for analysis.
func (c *Client) AddMeal(ctx context.Context, meal domain.AddMealRequest) (*domain.MealResult, error) {
	var res domain.MealResult
	if err := c.post(ctx, "/meals/add", meal, &res); err != nil {
		return nil, fmt.Errorf("client.AddMeal: %w", err)
	}
	return &res, nil
}

// TodayMeals fetches today's meal records for a user.
func (c *Client) TodayMeals(ctx context.Context, userID int64) (*domain.TodayMeals, error) {
	params := url.Values{}
	params.Set("user_id", formatID(userID))

	var meals domain.TodayMeals
	if err := c.get(ctx, "/meals/today", params, &meals); err != nil {
		return nil, fmt.Errorf("client.TodayMeals: %w", err)
	}
	return &meals, nil
}

// --- Trends ---

// Trends fetches the health trend series for the last days days.
// days <= 0 selects domain.DefaultTrendDays.
func (c *Client) Trends(ctx context.Context, userID int64, days int) (*domain.Trends, error) {
	if days <= 0 {
		days = domain.DefaultTrendDays
	}
	params := url.Values{}
	params.Set("user_id", formatID(userID))
	params.Set("days", strconv.Itoa(days))

	var trends domain.Trends
	if err := c.get(ctx, "/trends", params, &trends); err != nil {
		return nil, fmt.Errorf("client.Trends: %w", err)
	}
	return &trends, nil
}

// --- Auth ---

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
}

// Login exchanges credentials for a session and stores it.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.User, error) {
	body := map[string]string{"username": username, "password": password}

	var resp domain.AuthResponse
	if err := c.post(ctx, "/auth/login", body, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	if err := c.saveSession(resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp.User, nil
}

// Register creates an account and stores the returned session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	var resp domain.AuthResponse
	if err := c.post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	if err := c.saveSession(resp); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &resp.User, nil
}

// Me returns the authenticated user's profile and refreshes the cached copy.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var resp domain.AuthResponse
	if err := c.get(ctx, "/auth/me", nil, &resp); err != nil {
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	u := resp.User
	if err := c.store.SetProfile(&u); err != nil {
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	return &u, nil
}

// Logout ends the session on the server and clears it locally. The local
// session is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doRequest(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	if !IsAuthExpired(err) {
		// A 401 already cleared the store.
		if clearErr := c.store.Clear(); clearErr != nil && err == nil {
			err = clearErr
		}
	}
	if err != nil {
		return fmt.Errorf("client.Logout: %w", err)
	}
	return nil
}

func (c *Client) saveSession(resp domain.AuthResponse) error {
	if resp.Token == "" {
		return &Error{Message: "server returned no token"}
	}
	if err := c.store.SetToken(resp.Token); err != nil {
		return err
	}
	u := resp.User
	return c.store.SetProfile(&u)
}

// Request issues a call against BasePath+path. query is appended as the URL
// query string. payload is sent as multipart when it is a *Form and as JSON
// otherwise (nil sends no body). On success the envelope's data field is
// decoded into out (nil discards it).
func (c *Client) Request(ctx context.Context, method, path string, query url.Values, payload any, out any) error {
	return c.doRequest(ctx, method, path, query, payload, out)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, nil, body, out)
}

// envelope is the server's response wrapper.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload any, out any) error {
	var (
		reqBody     io.Reader
		contentType string
	)
	switch p := payload.(type) {
	case nil:
	case *Form:
		body, ct, err := p.encode()
		if err != nil {
			return c.fail(method, path, "", &Error{Message: "encode form: " + err.Error(), Err: err})
		}
		reqBody, contentType = body, ct
	default:
		data, err := json.Marshal(p)
		if err != nil {
			return c.fail(method, path, "", &Error{Message: "marshal body: " + err.Error(), Err: err})
		}
		reqBody, contentType = bytes.NewReader(data), "application/json"
	}

	target := c.baseURL + BasePath + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return c.fail(method, path, "", &Error{Message: "create request: " + err.Error(), Err: err})
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.store.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(method, path, requestID, &Error{Message: c.transportMessage(err), Err: err})
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // best-effort read for error message
		apiErr := &Error{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, respBody)}
		if resp.StatusCode == http.StatusUnauthorized {
			apiErr.Err = ErrAuthExpired
			if clearErr := c.store.Clear(); clearErr != nil {
				c.log.Warnw("clear session", "error", clearErr)
			}
		}
		return c.fail(method, path, requestID, apiErr)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(method, path, requestID, &Error{StatusCode: resp.StatusCode, Message: c.transportMessage(err), Err: err})
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	var env envelope
	if json.Unmarshal(respBody, &env) == nil && env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = fallbackMessage
		}
		return c.fail(method, path, requestID, &Error{StatusCode: resp.StatusCode, Message: msg})
	}
	if out == nil {
		return nil
	}
	data := respBody
	if len(env.Data) > 0 {
		data = env.Data
	}
	if err := json.Unmarshal(data, out); err != nil {
		return c.fail(method, path, requestID, &Error{StatusCode: resp.StatusCode, Message: "decode response: " + err.Error(), Err: err})
	}
	return nil
}

func (c *Client) fail(method, path, requestID string, err *Error) error {
	c.log.Errorw("api error",
		"method", method,
		"path", BasePath+path,
		"status", err.StatusCode,
		"message", err.Message,
		"request_id", requestID,
	)
	return err
}

// errorMessage picks the server detail field, then a status-derived
// transport message.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if msg := detailMessage(payload.Detail); msg != "" {
			return msg
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fmt.Sprintf("request failed with status code %d", status)
}

// detailMessage accepts both a plain string and a validation error list
// ([{"msg": "..."}]).
func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(raw, &items) == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func (c *Client) transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Sprintf("timeout of %s exceeded", c.httpClient.Timeout)
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackMessage
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
