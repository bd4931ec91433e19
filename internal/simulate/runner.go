package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/glowup/beacon/pkg/logger"
)

// Run executes the complete browsing simulation.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting browsing simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("actions", config.Actions),
		logger.Int("searches", config.Searches),
		logger.String("timeout", config.Timeout.String()),
		logger.Bool("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate the browsing session
	actions := generateActions(ctx, config, stats)

	// Step 3: Submit actions in session order
	if err := submitActions(ctx, config, actions, stats); err != nil {
		return fmt.Errorf("action submission failed: %w", err)
	}

	// Step 4: Force a flush so the queue drains before verification
	if err := flush(ctx, config, stats); err != nil {
		return fmt.Errorf("flush failed: %w", err)
	}

	// Step 5: Retrieve and verify the accumulated profile
	profile, err := getProfile(ctx, config)
	if err != nil {
		return fmt.Errorf("profile retrieval failed: %w", err)
	}
	if err := verifyProfile(ctx, config, profile); err != nil {
		return fmt.Errorf("profile verification failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// submitActions posts the session actions sequentially. A browsing session
// is ordered; concurrent submission would scramble the queue order the
// engine guarantees.
func submitActions(ctx context.Context, config *Config, actions []Action, stats *Stats) error {
	client := newHTTPClient(config.Timeout)

	for i, action := range actions {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during submission: %w", ctx.Err())
		default:
		}

		resp, err := client.Post(ctx, config.BaseURL+action.Endpoint, action.Body)
		stats.ActionsSubmitted++
		if err != nil {
			stats.ActionsFailed++
			logger.Get().Warn(ctx, "action submission failed",
				logger.Int("index", i),
				logger.String("endpoint", action.Endpoint),
				logger.Error(err))
			continue
		}

		body, err := readResponseBody(resp)
		if err != nil {
			stats.ActionsFailed++
			continue
		}

		switch resp.StatusCode {
		case StatusOK, StatusAccepted:
			stats.ActionsSuccessful++
		default:
			stats.ActionsFailed++
			if config.Verbose {
				logger.Get().Warn(ctx, "action rejected",
					logger.String("endpoint", action.Endpoint),
					logger.Int("status", resp.StatusCode),
					logger.String("body", string(body)))
			}
		}
	}

	logger.Get().Info(ctx, "action submission completed",
		logger.Int("successful", stats.ActionsSuccessful),
		logger.Int("failed", stats.ActionsFailed))
	return nil
}

// flush forces an immediate queue dispatch and records the outcome.
func flush(ctx context.Context, config *Config, stats *Stats) error {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Post(ctx, config.BaseURL+"/flush", struct{}{})
	if err != nil {
		return fmt.Errorf("flush request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read flush response: %w", err)
	}

	var fr FlushResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		return fmt.Errorf("failed to parse flush response: %w", err)
	}
	stats.EventsDelivered = fr.Delivered
	stats.EventsDropped = fr.Dropped

	logger.Get().Info(ctx, "queue flushed",
		logger.Int("delivered", fr.Delivered),
		logger.Int("dropped", fr.Dropped))
	return nil
}

// getProfile fetches the accumulated profile read model.
func getProfile(ctx context.Context, config *Config) (*ProfileView, error) {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/profile")
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("profile request failed with status: %d", resp.StatusCode)
	}

	var view ProfileView
	if err := json.Unmarshal(body, &view); err != nil {
		return nil, fmt.Errorf("failed to parse profile response: %w", err)
	}
	return &view, nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var successRate, actionsPerSecond float64

	if stats.ActionsSubmitted > 0 {
		successRate = float64(stats.ActionsSuccessful) / float64(stats.ActionsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		actionsPerSecond = float64(stats.ActionsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("actionsGenerated", stats.ActionsGenerated),
		logger.Int("actionsSubmitted", stats.ActionsSubmitted),
		logger.Int("actionsSuccessful", stats.ActionsSuccessful),
		logger.Int("actionsFailed", stats.ActionsFailed),
		logger.Int("eventsDelivered", stats.EventsDelivered),
		logger.Int("eventsDropped", stats.EventsDropped),
		logger.String("duration", stats.Duration.String()),
		logger.Any("successRate", successRate),
		logger.Any("actionsPerSecond", actionsPerSecond))
}
