// Package api is the REST client for the document-intelligence backend. All
// endpoints live under /api/v1 and expect a bearer token except the auth
// pair. Methods take a context and return typed results; server-side error
// details surface as *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const basePath = "/api/v1"

const (
	statsCacheKey = "users/stats"
	listCacheKey  = "documents/all"
	cacheTTL      = 30 * time.Second
)

// Error carries the HTTP status and the server-provided detail message.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Status == http.StatusUnauthorized
}

// Config wires runtime options into the client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  float64
	Burst      int
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the backend. Token mutation is synchronous: once SetToken
// returns, every subsequent request carries the header. Safe for concurrent
// use; fetches still in flight when the token changes read whichever value
// they observe.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
	cache   *gocache.Cache

	mu    sync.RWMutex
	token string
}

// New builds a client from cfg, filling in defaults for anything unset.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	limit := cfg.RateLimit
	if limit == 0 {
		limit = 5.0
	}
	burst := cfg.Burst
	if burst == 0 {
		burst = 10
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/") + basePath,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(limit), burst),
		logger:  logger,
		cache:   gocache.New(cacheTTL, time.Minute),
	}
}

// SetToken attaches token to all subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer token and drops cached responses, which may
// belong to the previous account.
func (c *Client) ClearToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
	c.cache.Flush()
}

// Token reports the currently attached bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges credentials for a bearer token using a form-encoded body.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.send(req, &payload); err != nil {
		return "", err
	}
	return payload.AccessToken, nil
}

// Register creates a new account. The caller still needs to log in.
func (c *Client) Register(ctx context.Context, email, password string) error {
	body := map[string]any{
		"email":        email,
		"password":     password,
		"is_superuser": false,
	}
	return c.doJSON(ctx, http.MethodPost, "/auth/register", body, nil)
}

// Me resolves the account behind the attached token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListDocuments retrieves documents. A zero filter returns everything and is
// served from a short-lived cache; any filter field forces a server query
// whose result is authoritative.
func (c *Client) ListDocuments(ctx context.Context, filter Filter) ([]Document, error) {
	unfiltered := filter == (Filter{})
	if unfiltered {
		if cached, ok := c.cache.Get(listCacheKey); ok {
			return cached.([]Document), nil
		}
	}

	path := "/documents"
	if query := filter.values().Encode(); query != "" {
		path += "?" + query
	}
	var docs []Document
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &docs); err != nil {
		return nil, err
	}
	if unfiltered {
		c.cache.SetDefault(listCacheKey, docs)
	}
	return docs, nil
}

func (f Filter) values() url.Values {
	values := url.Values{}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	if f.Status != "" {
		values.Set("status", string(f.Status))
	}
	if f.SortBy != "" {
		values.Set("sort_by", string(f.SortBy))
	}
	if f.Order != "" {
		values.Set("order", f.Order)
	}
	return values
}

// GetDocument fetches one document. Never cached: the detail view polls this
// while the pipeline runs and must observe backend truth.
func (c *Client) GetDocument(ctx context.Context, id int64) (*Document, error) {
	var doc Document
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/documents/%d", id), nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument removes a document server-side.
func (c *Client) DeleteDocument(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/documents/%d", id), nil, nil); err != nil {
		return err
	}
	c.cache.Delete(listCacheKey)
	c.cache.Delete(statsCacheKey)
	return nil
}

// Upload sends the file at path as a multipart request and returns the
// created document record.
func (c *Client) Upload(ctx context.Context, path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var doc Document
	if err := c.send(req, &doc); err != nil {
		return nil, err
	}
	c.cache.Delete(listCacheKey)
	c.cache.Delete(statsCacheKey)
	return &doc, nil
}

// ChatHistory returns the stored message sequence for a document.
func (c *Client) ChatHistory(ctx context.Context, documentID int64) ([]ChatMessage, error) {
	var history []ChatMessage
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/documents/%d/history", documentID), nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// SendMessage posts a chat message and returns the assistant reply.
func (c *Client) SendMessage(ctx context.Context, documentID int64, message string) (*ChatReply, error) {
	body := map[string]string{"message": message}
	var reply ChatReply
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/documents/%d/chat", documentID), body, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// ExportChat downloads the formatted history as a binary blob.
func (c *Client) ExportChat(ctx context.Context, documentID int64, format ExportFormat) ([]byte, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	path := fmt.Sprintf("/documents/%d/export-chat?format=%s", documentID, format)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, decodeError(resp)
	}
	return io.ReadAll(resp.Body)
}

// GenerateGlossary asks the backend for fresh term/definition pairs.
func (c *Client) GenerateGlossary(ctx context.Context, documentID int64) ([]GlossaryTerm, error) {
	var terms []GlossaryTerm
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/documents/%d/glossary", documentID), nil, &terms); err != nil {
		return nil, err
	}
	return terms, nil
}

// GenerateQuiz asks the backend for a fresh question set.
func (c *Client) GenerateQuiz(ctx context.Context, documentID int64) ([]QuizQuestion, error) {
	var questions []QuizQuestion
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/documents/%d/quiz", documentID), nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Stats returns account usage numbers, served from a short-lived cache.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	if cached, ok := c.cache.Get(statsCacheKey); ok {
		stats := cached.(Stats)
		return &stats, nil
	}
	var stats Stats
	if err := c.doJSON(ctx, http.MethodGet, "/users/stats", nil, &stats); err != nil {
		return nil, err
	}
	c.cache.SetDefault(statsCacheKey, stats)
	return &stats, nil
}

// FilterByTitle returns the documents whose title contains term,
// case-insensitively. The library and favorites views filter client-side;
// server-side filtering goes through Filter instead.
func FilterByTitle(docs []Document, term string) []Document {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return docs
	}
	matched := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if strings.Contains(strings.ToLower(doc.Title), term) {
			matched = append(matched, doc)
		}
	}
	return matched
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, err
	}
	c.logger.Info("request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(started)))
	return resp, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Detail = payload.Detail
	}
	return apiErr
}
