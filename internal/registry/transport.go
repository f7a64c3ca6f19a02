package registry

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/agentx-labs/agent-skills/internal/logger"
)

// DefaultTimeout bounds every single HTTP request.
const DefaultTimeout = 15 * time.Second

// newHTTPClient returns a retrying client driven by policy.
func newHTTPClient(policy RetryPolicy, timeout time.Duration) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = timeout
	rc.RetryMax = policy.Retries()
	rc.RetryWaitMin = policy.BaseDelay
	rc.RetryWaitMax = policy.MaxDelay
	rc.Logger = leveledLogger{}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	rc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return policy.ShouldRetry(resp, err), nil
	}
	rc.Backoff = func(_, _ time.Duration, attemptNum int, _ *http.Response) time.Duration {
		return policy.Backoff(attemptNum + 1)
	}
	return rc
}

// leveledLogger routes retryablehttp logs to the zap logger.
type leveledLogger struct{}

func (leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	logger.Debugw(msg, keysAndValues...)
}

func (leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debugw(msg, keysAndValues...)
}

func (leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	logger.Debugw(msg, keysAndValues...)
}

func (leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	logger.Debugw(msg, keysAndValues...)
}
