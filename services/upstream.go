package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"mealplanner/metrics"
	"mealplanner/utils"
	"mealplanner/utils/apperr"
)

// maxErrorBody bounds how much of a failing response ends up in an error.
const maxErrorBody = 512

// withRetryHooks returns cfg with logging and metrics attached for upstream.
func withRetryHooks(cfg utils.RetryConfig, upstream string) utils.RetryConfig {
	prev := cfg.OnRetry
	cfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		metrics.RecordRetry(upstream)
		log.WithFields(log.Fields{
			"upstream": upstream,
			"attempt":  attempt,
			"delay":    delay.String(),
		}).WithError(err).Warn("retrying upstream call")
		if prev != nil {
			prev(attempt, delay, err)
		}
	}
	return cfg
}

// callUpstream runs op under cfg and counts a failure once retries are spent.
func callUpstream[T any](ctx context.Context, cfg utils.RetryConfig, upstream string, op func() (T, error)) (T, error) {
	out, err := utils.Retry(ctx, withRetryHooks(cfg, upstream), op)
	if err != nil {
		metrics.RecordFailure(upstream)
	}
	return out, err
}

// readResponse drains resp and tags non-2xx statuses. A 401/403 is reported
// as Unauthorized only when authRejects is set, i.e. when the caller's own
// token was forwarded.
func readResponse(op string, resp *http.Response, authRejects bool) ([]byte, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Upstream(op, 0, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, statusError(op, resp.StatusCode, body, authRejects)
}

func statusError(op string, status int, body []byte, authRejects bool) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	switch {
	case status == http.StatusNotFound:
		return &apperr.Error{Kind: apperr.KindNotFound, Op: op, Msg: "not found"}
	case authRejects && (status == http.StatusUnauthorized || status == http.StatusForbidden):
		return apperr.Unauthorized(fmt.Sprintf("%s rejected credentials", op))
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return apperr.Validation(op, "rejected: %s", msg)
	default:
		return apperr.Upstream(op, status, fmt.Errorf("status %d: %s", status, msg))
	}
}

func bytesReader(b []byte) *bytes.Reader {
	if b == nil {
		return nil
	}
	return bytes.NewReader(b)
}

// newRequest avoids handing http.NewRequest a typed-nil reader.
func newRequest(ctx context.Context, method, url string, body *bytes.Reader) (*http.Request, error) {
	if body == nil {
		return http.NewRequestWithContext(ctx, method, url, nil)
	}
	return http.NewRequestWithContext(ctx, method, url, body)
}
