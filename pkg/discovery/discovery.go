// Package discovery selects the tagged EC2 instances a shutdown pass should act on.
package discovery

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/rs/zerolog"

	"github.com/autostop/autostop/internal/models"
	"github.com/autostop/autostop/pkg/utils"
)

// InstanceLister is the tagged-instance lookup the discovery service runs on.
type InstanceLister interface {
	DescribeInstancesByTag(ctx context.Context, tagKey, tagValue string) ([]types.Instance, error)
	Region() string
}

// Service filters tagged instances down to the ones worth stopping.
type Service struct {
	lister InstanceLister
	logger zerolog.Logger
}

// NewService creates a new discovery Service.
func NewService(lister InstanceLister, logger zerolog.Logger) *Service {
	return &Service{
		lister: lister,
		logger: logger,
	}
}

// FindInstancesToStop returns the running instances carrying the given tag, in
// the order the API returned them. Instances in any other state (stopped,
// stopping, terminated, ...) are skipped.
func (s *Service) FindInstancesToStop(ctx context.Context, tagKey, tagValue string) ([]models.InstanceInfo, error) {
	instances, err := s.lister.DescribeInstancesByTag(ctx, tagKey, tagValue)
	if err != nil {
		return nil, err
	}

	candidates := []models.InstanceInfo{}

	for _, instance := range instances {
		state := ""
		if instance.State != nil {
			state = string(instance.State.Name)
		}

		if state != string(types.InstanceStateNameRunning) {
			s.logger.Debug().
				Str("instance_id", aws.ToString(instance.InstanceId)).
				Str("state", state).
				Msg("skipping instance, not running")
			continue
		}

		az := ""
		if instance.Placement != nil {
			az = aws.ToString(instance.Placement.AvailabilityZone)
		}

		candidates = append(candidates, models.InstanceInfo{
			InstanceID:       aws.ToString(instance.InstanceId),
			Name:             utils.GetName(instance.Tags),
			State:            state,
			InstanceType:     string(instance.InstanceType),
			Region:           s.lister.Region(),
			AvailabilityZone: az,
			LaunchTime:       aws.ToTime(instance.LaunchTime),
		})
	}

	s.logger.Info().
		Str("tag_key", tagKey).
		Str("tag_value", tagValue).
		Int("tagged", len(instances)).
		Int("running", len(candidates)).
		Msg("instance discovery completed")

	return candidates, nil
}
