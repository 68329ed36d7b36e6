// Package handler implements the Lambda entry point for a shutdown run.
package handler

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"

	"github.com/autostop/autostop/internal/config"
	"github.com/autostop/autostop/pkg/awsx"
	"github.com/autostop/autostop/pkg/discovery"
	"github.com/autostop/autostop/pkg/metrics"
	"github.com/autostop/autostop/pkg/retry"
	"github.com/autostop/autostop/pkg/shutdown"
)

// Response is the Lambda invocation result.
type Response struct {
	StatusCode int  `json:"statusCode"`
	Body       Body `json:"body"`
}

// Body carries the outcome of one run.
type Body struct {
	Message string     `json:"message"`
	Result  *RunResult `json:"result,omitempty"`
	Error   *RunError  `json:"error,omitempty"`
}

// RunResult is the stop statistics reported on success.
type RunResult struct {
	TotalInstances  int `json:"total_instances"`
	SuccessfulStops int `json:"successful_stops"`
	FailedStops     int `json:"failed_stops"`
}

// RunError describes why a run failed.
type RunError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Handler wires configuration, discovery and shutdown into one invocation.
type Handler struct {
	logger zerolog.Logger
	ec2API awsx.EC2API
	cwAPI  metrics.CloudWatchAPI
}

// New creates a handler that builds its AWS clients from the environment.
func New(logger zerolog.Logger) *Handler {
	return &Handler{logger: logger}
}

// NewWithClients creates a handler using pre-built AWS clients.
func NewWithClients(logger zerolog.Logger, ec2API awsx.EC2API, cwAPI metrics.CloudWatchAPI) *Handler {
	return &Handler{
		logger: logger,
		ec2API: ec2API,
		cwAPI:  cwAPI,
	}
}

// Handle runs one shutdown pass. Failures are reported in the response
// body rather than returned, so Lambda never sees an invocation error.
func (h *Handler) Handle(ctx context.Context, _ json.RawMessage) (Response, error) {
	cfg, err := config.Load()
	if err != nil {
		return h.failure(err), nil
	}

	h.logger.Info().
		Str("region", cfg.Region).
		Str("tag_key", cfg.TagKey).
		Str("tag_value", cfg.TagValue).
		Msg("starting EC2 auto-shutdown run")

	retryCfg := retry.Config{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   cfg.RetryBaseDelay,
	}

	client, err := h.newEC2Client(ctx, cfg, retryCfg)
	if err != nil {
		return h.failure(err), nil
	}
	client.SetHibernate(cfg.Hibernate)

	instances, err := discovery.NewService(client, h.logger).FindInstancesToStop(ctx, cfg.TagKey, cfg.TagValue)
	if err != nil {
		return h.failure(err), nil
	}

	orchestrator := shutdown.NewOrchestrator(client, h.logger)
	if cfg.MetricsEnabled {
		if publisher := h.newPublisher(ctx, cfg); publisher != nil {
			orchestrator.SetMetrics(publisher)
		}
	}

	result := orchestrator.ShutdownInstances(ctx, instances)

	h.logger.Info().
		Int("total_instances", result.TotalInstances).
		Int("successful_stops", result.SuccessfulStops).
		Int("failed_stops", result.FailedStops).
		Msg("EC2 auto-shutdown run completed")

	return Response{
		StatusCode: 200,
		Body: Body{
			Message: "Shutdown operation completed",
			Result: &RunResult{
				TotalInstances:  result.TotalInstances,
				SuccessfulStops: result.SuccessfulStops,
				FailedStops:     result.FailedStops,
			},
		},
	}, nil
}

func (h *Handler) newEC2Client(ctx context.Context, cfg config.Config, retryCfg retry.Config) (*awsx.EC2Client, error) {
	if h.ec2API != nil {
		return awsx.NewEC2ClientWithAPI(h.ec2API, cfg.Region, retryCfg, h.logger), nil
	}
	return awsx.NewEC2Client(ctx, cfg.Region, retryCfg, h.logger)
}

func (h *Handler) newPublisher(ctx context.Context, cfg config.Config) *metrics.Publisher {
	if h.cwAPI != nil {
		return metrics.NewPublisherWithAPI(h.cwAPI, cfg.Region, cfg.MetricsNamespace, h.logger)
	}
	publisher, err := metrics.NewPublisher(ctx, cfg.Region, cfg.MetricsNamespace, h.logger)
	if err != nil {
		h.logger.Warn().Err(err).Msg("metrics publisher unavailable, continuing without metrics")
		return nil
	}
	return publisher
}

func (h *Handler) failure(err error) Response {
	errType := errorType(err)
	h.logger.Error().
		Str("error_type", errType).
		Err(err).
		Msg("EC2 auto-shutdown run failed")

	return Response{
		StatusCode: 500,
		Body: Body{
			Message: "Shutdown operation failed",
			Error: &RunError{
				Type:    errType,
				Message: err.Error(),
			},
		},
	}
}

// errorType names an error for the response body. API errors keep their
// service error code; everything else collapses to a generic bucket.
func errorType(err error) string {
	var vErr *config.ValidationError
	if errors.As(err, &vErr) {
		return "ConfigurationError"
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return "InternalError"
}
