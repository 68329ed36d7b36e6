// Package shutdown stops discovered instances one at a time and tallies the outcome.
package shutdown

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/autostop/autostop/internal/models"
)

// InstanceStopper issues the stop call for a single instance.
type InstanceStopper interface {
	StopInstance(ctx context.Context, instanceID string) bool
}

// MetricsPublisher receives the run counters after a shutdown pass.
type MetricsPublisher interface {
	PublishRunMetrics(ctx context.Context, result models.ShutdownResult)
}

// Orchestrator coordinates stopping a set of instances.
type Orchestrator struct {
	stopper InstanceStopper
	metrics MetricsPublisher
	logger  zerolog.Logger
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(stopper InstanceStopper, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		stopper: stopper,
		logger:  logger,
	}
}

// SetMetrics attaches a publisher for run counters.
func (o *Orchestrator) SetMetrics(m MetricsPublisher) {
	o.metrics = m
}

// ShutdownInstances stops the given instances sequentially, in input order.
// A failed stop is recorded and the pass moves on; one refusing instance
// never blocks the rest.
func (o *Orchestrator) ShutdownInstances(ctx context.Context, instances []models.InstanceInfo) models.ShutdownResult {
	result := models.ShutdownResult{
		TotalInstances: len(instances),
		Errors:         []string{},
	}

	for _, instance := range instances {
		if o.stopper.StopInstance(ctx, instance.InstanceID) {
			result.SuccessfulStops++
			o.logger.Info().
				Str("instance_id", instance.InstanceID).
				Str("instance_name", instance.Name).
				Msg("successfully stopped instance")
			continue
		}

		result.FailedStops++
		errMsg := fmt.Sprintf("Failed to stop instance %s", instance.InstanceID)
		if instance.Name != "" {
			errMsg += fmt.Sprintf(" (%s)", instance.Name)
		}
		result.Errors = append(result.Errors, errMsg)
		o.logger.Error().
			Str("instance_id", instance.InstanceID).
			Str("instance_name", instance.Name).
			Msg("failed to stop instance")
	}

	if o.metrics != nil {
		o.metrics.PublishRunMetrics(ctx, result)
	}

	return result
}
