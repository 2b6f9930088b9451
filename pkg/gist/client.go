package gist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tripspend/tripspend/internal/config"
	"github.com/tripspend/tripspend/pkg/expense"
	"golang.org/x/oauth2"
)

const (
	acceptHeader = "application/vnd.github+json"
	apiVersion   = "2022-11-28"
)

// Client reads and writes the expense file of one gist on behalf of an authenticated user.
type Client interface {
	expense.Store
	Login() string
}

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Client, error)
}

type AuthenticatorImpl struct {
	cfg       config.Gist
	transport http.RoundTripper
	metrics   *Metrics
}

func NewAuthenticator(cfg config.Gist, metrics *Metrics) *AuthenticatorImpl {
	return &AuthenticatorImpl{cfg: cfg, transport: http.DefaultTransport, metrics: metrics}
}

type ClientImpl struct {
	httpClient *http.Client
	cfg        config.Gist
	login      string
	metrics    *Metrics

	mu sync.Mutex
	// Stored text of the last fetch, reused for records written back unchanged.
	snapshot *expense.Snapshot
}

type gistFile struct {
	Content   string `json:"content"`
	Truncated bool   `json:"truncated"`
	RawUrl    string `json:"raw_url"`
}

type gistResponse struct {
	Files map[string]*gistFile `json:"files"`
}

type gistPatch struct {
	Files map[string]gistPatchFile `json:"files"`
}

type gistPatchFile struct {
	Content string `json:"content"`
}

// Authenticate verifies token against the GitHub user endpoint and returns a client bound to it.
// Every failure is reported as *AuthError.
func (a *AuthenticatorImpl) Authenticate(ctx context.Context, token string) (client Client, err error) {
	start := time.Now()
	defer func() { a.metrics.observe(opAuthenticate, start, err) }()

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, &AuthError{Reason: "the GitHub token was not provided"}
	}

	log.Debug("Verifying GitHub authentication")
	c := &ClientImpl{
		httpClient: &http.Client{
			Timeout: a.cfg.Timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
				Base:   a.transport,
			},
		},
		cfg:     a.cfg,
		metrics: a.metrics,
	}

	resp, err := c.do(ctx, http.MethodGet, c.url("/user"), nil)
	if err != nil {
		return nil, &AuthError{Reason: "unable to reach the GitHub API", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &AuthError{StatusCode: resp.StatusCode, Reason: "the provided token is invalid or has expired"}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &AuthError{StatusCode: resp.StatusCode, Reason: fmt.Sprintf("authentication failed with status %d", resp.StatusCode)}
	}

	var user struct {
		Login string `json:"login"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, &AuthError{StatusCode: resp.StatusCode, Reason: "unable to decode the GitHub user", Err: err}
	}
	c.login = user.Login
	log.Infof("Authenticated with GitHub as '%s'", user.Login)

	return c, nil
}

func (c *ClientImpl) Login() string {
	return c.login
}

// FetchRecords reads the expense file of the gist and decodes its records.
func (c *ClientImpl) FetchRecords(ctx context.Context) (records []expense.Record, err error) {
	start := time.Now()
	defer func() { c.metrics.observe(opFetch, start, err) }()

	log.Debugf("Fetching records from gist '%s'", c.cfg.Id)
	content, err := c.fetchContent(ctx)
	if err != nil {
		log.Errorf("Failed to read gist '%s': %v", c.cfg.Id, err)
		return nil, err
	}

	records, snapshot, err := expense.DecodeSnapshot([]byte(content))
	if err != nil {
		log.Errorf("Failed to decode gist file '%s': %v", c.cfg.Filename, err)
		return nil, err
	}
	if skipped := snapshot.Skipped(); skipped > 0 {
		log.Warnf("Skipped %d invalid rows of gist file '%s'", skipped, c.cfg.Filename)
	}
	c.mu.Lock()
	c.snapshot = snapshot
	c.mu.Unlock()
	log.Debugf("Read %d records from gist '%s'", len(records), c.cfg.Id)
	return records, nil
}

// ReplaceRecords overwrites the expense file with records in a single request.
func (c *ClientImpl) ReplaceRecords(ctx context.Context, records []expense.Record) (err error) {
	start := time.Now()
	defer func() { c.metrics.observe(opReplace, start, err) }()

	c.mu.Lock()
	snapshot := c.snapshot
	c.mu.Unlock()
	content, err := snapshot.Encode(records)
	if err != nil {
		return err
	}
	body, err := json.Marshal(gistPatch{Files: map[string]gistPatchFile{
		c.cfg.Filename: {Content: string(content)},
	}})
	if err != nil {
		return fmt.Errorf("failed to encode gist update: %w", err)
	}

	log.Debugf("Updating gist '%s' with %d records", c.cfg.Id, len(records))
	resp, err := c.do(ctx, http.MethodPatch, c.url("/gists/"+c.cfg.Id), body)
	if err != nil {
		log.Errorf("Failed to update gist '%s': %v", c.cfg.Id, err)
		return fmt.Errorf("failed to update gist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		log.Errorf("Failed to update gist '%s': %v", c.cfg.Id, err)
		return err
	}
	if _, written, err := expense.DecodeSnapshot(content); err == nil {
		c.mu.Lock()
		c.snapshot = written
		c.mu.Unlock()
	}
	log.Infof("Gist '%s' updated", c.cfg.Id)
	return nil
}

func (c *ClientImpl) fetchContent(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, c.url("/gists/"+c.cfg.Id), nil)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var gist gistResponse
	if err := json.NewDecoder(resp.Body).Decode(&gist); err != nil {
		return "", fmt.Errorf("failed to decode gist: %w", err)
	}
	file, ok := gist.Files[c.cfg.Filename]
	if !ok || file == nil {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, c.cfg.Filename)
	}
	if !file.Truncated {
		return file.Content, nil
	}

	// Files above the API size limit are truncated, the full content is at raw_url.
	return c.fetchRaw(ctx, file.RawUrl)
}

func (c *ClientImpl) fetchRaw(ctx context.Context, rawUrl string) (string, error) {
	if rawUrl == "" {
		return "", fmt.Errorf("%w: %s is truncated and has no raw url", ErrFileNotFound, c.cfg.Filename)
	}
	resp, err := c.do(ctx, http.MethodGet, rawUrl, nil)
	if err != nil {
		return "", fmt.Errorf("failed to execute raw request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read raw content: %w", err)
	}
	return string(content), nil
}

func (c *ClientImpl) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

func (c *ClientImpl) url(path string) string {
	return strings.TrimRight(c.cfg.ApiUrl, "/") + path
}
