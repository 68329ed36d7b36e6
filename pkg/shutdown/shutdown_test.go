package shutdown

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/autostop/autostop/internal/models"
)

type mockStopper struct {
	outcomes map[string]bool
	calls    []string
}

func (m *mockStopper) StopInstance(_ context.Context, instanceID string) bool {
	m.calls = append(m.calls, instanceID)
	return m.outcomes[instanceID]
}

type mockPublisher struct {
	published []models.ShutdownResult
}

func (m *mockPublisher) PublishRunMetrics(_ context.Context, result models.ShutdownResult) {
	m.published = append(m.published, result)
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func instanceInfo(id, name string) models.InstanceInfo {
	return models.InstanceInfo{
		InstanceID: id,
		Name:       name,
		State:      "running",
	}
}

func TestShutdownInstances_AllSucceed(t *testing.T) {
	stopper := &mockStopper{outcomes: map[string]bool{
		"i-1": true,
		"i-2": true,
	}}
	o := NewOrchestrator(stopper, testLogger())

	result := o.ShutdownInstances(context.Background(), []models.InstanceInfo{
		instanceInfo("i-1", "web-1"),
		instanceInfo("i-2", "web-2"),
	})

	assert.Equal(t, 2, result.TotalInstances)
	assert.Equal(t, 2, result.SuccessfulStops)
	assert.Equal(t, 0, result.FailedStops)
	assert.Empty(t, result.Errors)
}

func TestShutdownInstances_FailureDoesNotStopPass(t *testing.T) {
	stopper := &mockStopper{outcomes: map[string]bool{
		"i-1": true,
		"i-2": false,
		"i-3": true,
	}}
	o := NewOrchestrator(stopper, testLogger())

	result := o.ShutdownInstances(context.Background(), []models.InstanceInfo{
		instanceInfo("i-1", "a"),
		instanceInfo("i-2", "b"),
		instanceInfo("i-3", "c"),
	})

	assert.Equal(t, []string{"i-1", "i-2", "i-3"}, stopper.calls)
	assert.Equal(t, 3, result.TotalInstances)
	assert.Equal(t, 2, result.SuccessfulStops)
	assert.Equal(t, 1, result.FailedStops)
}

func TestShutdownInstances_ErrorMessageIncludesName(t *testing.T) {
	stopper := &mockStopper{outcomes: map[string]bool{
		"i-111": true,
		"i-222": false,
	}}
	o := NewOrchestrator(stopper, testLogger())

	result := o.ShutdownInstances(context.Background(), []models.InstanceInfo{
		instanceInfo("i-111", "web-1"),
		instanceInfo("i-222", "db-1"),
	})

	assert.Equal(t, []string{"Failed to stop instance i-222 (db-1)"}, result.Errors)
}

func TestShutdownInstances_ErrorMessageWithoutName(t *testing.T) {
	stopper := &mockStopper{outcomes: map[string]bool{"i-9": false}}
	o := NewOrchestrator(stopper, testLogger())

	result := o.ShutdownInstances(context.Background(), []models.InstanceInfo{
		instanceInfo("i-9", ""),
	})

	assert.Equal(t, []string{"Failed to stop instance i-9"}, result.Errors)
}

func TestShutdownInstances_EmptyInput(t *testing.T) {
	stopper := &mockStopper{outcomes: map[string]bool{}}
	o := NewOrchestrator(stopper, testLogger())

	result := o.ShutdownInstances(context.Background(), nil)

	assert.Equal(t, 0, result.TotalInstances)
	assert.Equal(t, 0, result.SuccessfulStops)
	assert.Equal(t, 0, result.FailedStops)
	assert.Equal(t, []string{}, result.Errors)
	assert.Empty(t, stopper.calls)
}

func TestShutdownInstances_PublishesMetrics(t *testing.T) {
	stopper := &mockStopper{outcomes: map[string]bool{
		"i-1": true,
		"i-2": false,
	}}
	publisher := &mockPublisher{}
	o := NewOrchestrator(stopper, testLogger())
	o.SetMetrics(publisher)

	result := o.ShutdownInstances(context.Background(), []models.InstanceInfo{
		instanceInfo("i-1", "a"),
		instanceInfo("i-2", "b"),
	})

	assert.Len(t, publisher.published, 1)
	assert.Equal(t, result, publisher.published[0])
}

func TestShutdownInstances_NoMetricsPublisherIsFine(t *testing.T) {
	stopper := &mockStopper{outcomes: map[string]bool{"i-1": true}}
	o := NewOrchestrator(stopper, testLogger())

	assert.NotPanics(t, func() {
		o.ShutdownInstances(context.Background(), []models.InstanceInfo{
			instanceInfo("i-1", "a"),
		})
	})
}
