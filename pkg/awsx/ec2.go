package awsx

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/rs/zerolog"

	"github.com/autostop/autostop/pkg/retry"
)

// EC2API is the subset of the EC2 API the client depends on.
type EC2API interface {
	ec2.DescribeInstancesAPIClient
	StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
}

// EC2Client wraps the EC2 API with throttle-aware retry behavior.
type EC2Client struct {
	client    EC2API
	region    string
	retryCfg  retry.Config
	hibernate bool
	logger    zerolog.Logger
}

// NewEC2Client creates a new EC2Client for the given region.
func NewEC2Client(ctx context.Context, region string, retryCfg retry.Config, logger zerolog.Logger) (*EC2Client, error) {
	// Use LoadDefaultConfig with explicit options. The SDK's own retryer is
	// disabled so the backoff policy here is the only one in effect.
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
		config.WithEC2IMDSClientEnableState(imds.ClientEnabled),
	)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	return NewEC2ClientWithAPI(ec2.NewFromConfig(cfg), region, retryCfg, logger), nil
}

// NewEC2ClientWithAPI creates a new EC2Client with a custom API implementation (for testing).
func NewEC2ClientWithAPI(api EC2API, region string, retryCfg retry.Config, logger zerolog.Logger) *EC2Client {
	if retryCfg.OnRetry == nil {
		retryCfg.OnRetry = func(attempt int, delay time.Duration, err error) {
			logger.Warn().
				Int("attempt", attempt).
				Dur("delay", delay).
				Err(err).
				Msg("EC2 API throttled, backing off")
		}
	}

	return &EC2Client{
		client:   api,
		region:   region,
		retryCfg: retryCfg,
		logger:   logger,
	}
}

// Region returns the region the client operates in.
func (c *EC2Client) Region() string {
	return c.region
}

// SetHibernate makes StopInstance request hibernation instead of a plain stop.
func (c *EC2Client) SetHibernate(enabled bool) {
	c.hibernate = enabled
}

// DescribeInstancesByTag returns all instances carrying the given tag,
// following pagination. The whole paginated fetch is one retry unit: a
// throttled page restarts the listing from the first page.
func (c *EC2Client) DescribeInstancesByTag(ctx context.Context, tagKey, tagValue string) ([]types.Instance, error) {
	filter := types.Filter{
		Name:   aws.String(fmt.Sprintf("tag:%s", tagKey)),
		Values: []string{tagValue},
	}

	input := &ec2.DescribeInstancesInput{
		Filters: []types.Filter{filter},
	}

	return retry.Do(ctx, c.retryCfg, IsThrottleError, func(ctx context.Context) ([]types.Instance, error) {
		var instances []types.Instance

		paginator := ec2.NewDescribeInstancesPaginator(c.client, input)
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("error describing instances tagged %s=%s: %w", tagKey, tagValue, err)
			}

			for _, reservation := range page.Reservations {
				instances = append(instances, reservation.Instances...)
			}
		}

		return instances, nil
	})
}

// StopInstance stops a single instance under the retry policy. It reports the
// outcome as a bool so one refused stop never aborts a whole shutdown pass.
func (c *EC2Client) StopInstance(ctx context.Context, instanceID string) bool {
	input := &ec2.StopInstancesInput{
		InstanceIds: []string{instanceID},
	}
	if c.hibernate {
		input.Hibernate = aws.Bool(true)
	}

	output, err := retry.Do(ctx, c.retryCfg, IsThrottleError, func(ctx context.Context) (*ec2.StopInstancesOutput, error) {
		return c.client.StopInstances(ctx, input)
	})
	if err != nil {
		c.logger.Warn().
			Str("instance_id", instanceID).
			Err(err).
			Msg("stop request failed")
		return false
	}

	for _, change := range output.StoppingInstances {
		c.logger.Info().
			Str("instance_id", aws.ToString(change.InstanceId)).
			Str("previous_state", stateName(change.PreviousState)).
			Str("current_state", stateName(change.CurrentState)).
			Msg("stop request accepted")
	}

	return true
}

func stateName(state *types.InstanceState) string {
	if state == nil {
		return ""
	}
	return string(state.Name)
}
