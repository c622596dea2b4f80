// Package push delivers remote notifications through the Expo push service.
package push

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// MaxBatchSize is the largest message list the Expo API accepts per request
const MaxBatchSize = 100

// ErrBatchRejected is returned when the provider refuses a request
var ErrBatchRejected = errors.New("push batch rejected by provider")

// Payload keys every notification carries
const (
	DataNavigationTarget = "navigationTarget"
	DataCourseID         = "courseId"
	DataCourseName       = "courseName"
	DataType             = "type"
)

// Sender is implemented by Client and by test doubles
type Sender interface {
	SendPushNotifications(ctx context.Context, tokens []string, title, body string, data map[string]string) (bool, error)
}

// Config holds the Expo endpoint settings
type Config struct {
	URL         string
	AccessToken string
	Timeout     time.Duration
	BatchSize   int
}

// Client posts message batches to the Expo push API
type Client struct {
	http      *resty.Client
	url       string
	batchSize int
	logger    zerolog.Logger
}

// NewClient creates a push client
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	batchSize := cfg.BatchSize
	if batchSize <= 0 || batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Accept-Encoding", "gzip, deflate").
		SetHeader("Content-Type", "application/json")
	if cfg.AccessToken != "" {
		httpClient.SetAuthToken(cfg.AccessToken)
	}

	return &Client{
		http:      httpClient,
		url:       cfg.URL,
		batchSize: batchSize,
		logger:    logger.With().Str("component", "push").Logger(),
	}
}

// IsValidPushToken accepts Expo tokens and the long opaque tokens of native providers
func IsValidPushToken(token string) bool {
	if token == "" {
		return false
	}
	if (strings.HasPrefix(token, "ExponentPushToken[") || strings.HasPrefix(token, "ExpoPushToken[")) &&
		strings.HasSuffix(token, "]") {
		return true
	}
	return len(token) >= 100 && !strings.ContainsAny(token, " \t\r\n")
}

type message struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound,omitempty"`
}

type ticket struct {
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

type providerError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type sendResponse struct {
	Data   []ticket        `json:"data"`
	Errors []providerError `json:"errors"`
}

// SendPushNotifications sends title/body/data to every valid token.
// It reports true only when every batch was accepted. Per-device ticket errors are
// logged and do not fail the batch, since re-sending it would duplicate delivered messages.
func (c *Client) SendPushNotifications(ctx context.Context, tokens []string, title, body string, data map[string]string) (bool, error) {
	valid := FilterValidTokens(tokens)
	if skipped := len(tokens) - len(valid); skipped > 0 {
		c.logger.Debug().Int("skipped", skipped).Msg("Dropping malformed push tokens")
	}
	if len(valid) == 0 {
		return true, nil
	}

	var firstErr error
	for _, batch := range Chunk(valid, c.batchSize) {
		if err := c.sendBatch(ctx, batch, title, body, data); err != nil {
			c.logger.Warn().Err(err).Int("batchSize", len(batch)).Msg("Push batch failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr == nil, firstErr
}

func (c *Client) sendBatch(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	messages := make([]message, 0, len(tokens))
	for _, token := range tokens {
		messages = append(messages, message{To: token, Title: title, Body: body, Data: data, Sound: "default"})
	}

	var result sendResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(messages).
		SetResult(&result).
		SetError(&result).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("%w: %s: %s", ErrBatchRejected, result.Errors[0].Code, result.Errors[0].Message)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: status %d", ErrBatchRejected, resp.StatusCode())
	}

	failed := 0
	for _, t := range result.Data {
		if t.Status != "ok" {
			failed++
		}
	}
	if failed > 0 {
		c.logger.Warn().Int("failed", failed).Int("total", len(tokens)).Msg("Some push tickets were not accepted")
	}

	return nil
}

// FilterValidTokens drops malformed tokens and duplicates, keeping order
func FilterValidTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if !IsValidPushToken(t) {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Chunk splits tokens into slices of at most size elements
func Chunk(tokens []string, size int) [][]string {
	if size <= 0 {
		size = MaxBatchSize
	}
	var chunks [][]string
	for start := 0; start < len(tokens); start += size {
		end := start + size
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, tokens[start:end])
	}
	return chunks
}
