// Package metrics publishes shutdown run counters to CloudWatch.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/rs/zerolog"

	"github.com/autostop/autostop/internal/models"
)

// CloudWatchAPI defines the CloudWatch operations used by the publisher.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Publisher emits run counters to a CloudWatch namespace.
type Publisher struct {
	client    CloudWatchAPI
	region    string
	namespace string
	logger    zerolog.Logger
}

// NewPublisher creates a new CloudWatch metrics publisher for the given region.
func NewPublisher(ctx context.Context, region, namespace string, logger zerolog.Logger) (*Publisher, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithEC2IMDSClientEnableState(imds.ClientEnabled),
	)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	return NewPublisherWithAPI(cloudwatch.NewFromConfig(cfg), region, namespace, logger), nil
}

// NewPublisherWithAPI creates a publisher backed by an existing CloudWatch client.
func NewPublisherWithAPI(client CloudWatchAPI, region, namespace string, logger zerolog.Logger) *Publisher {
	return &Publisher{
		client:    client,
		region:    region,
		namespace: namespace,
		logger:    logger,
	}
}

// PublishRunMetrics sends the counters of one shutdown pass to CloudWatch.
// Publishing is best effort; a failed put is logged and otherwise ignored.
func (p *Publisher) PublishRunMetrics(ctx context.Context, result models.ShutdownResult) {
	now := aws.Time(time.Now())
	dimensions := []types.Dimension{
		{
			Name:  aws.String("Region"),
			Value: aws.String(p.region),
		},
	}

	data := []types.MetricDatum{
		{
			MetricName: aws.String("InstancesDiscovered"),
			Value:      aws.Float64(float64(result.TotalInstances)),
			Unit:       types.StandardUnitCount,
			Dimensions: dimensions,
			Timestamp:  now,
		},
		{
			MetricName: aws.String("InstancesStopped"),
			Value:      aws.Float64(float64(result.SuccessfulStops)),
			Unit:       types.StandardUnitCount,
			Dimensions: dimensions,
			Timestamp:  now,
		},
		{
			MetricName: aws.String("StopFailures"),
			Value:      aws.Float64(float64(result.FailedStops)),
			Unit:       types.StandardUnitCount,
			Dimensions: dimensions,
			Timestamp:  now,
		},
	}

	_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(p.namespace),
		MetricData: data,
	})
	if err != nil {
		p.logger.Warn().
			Err(err).
			Str("namespace", p.namespace).
			Msg("failed to publish run metrics")
		return
	}

	p.logger.Debug().
		Str("namespace", p.namespace).
		Int("metrics", len(data)).
		Msg("published run metrics")
}
