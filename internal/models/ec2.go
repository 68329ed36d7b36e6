package models

import "time"

// InstanceInfo represents EC2 instance information
type InstanceInfo struct {
	InstanceID       string
	Name             string
	State            string
	InstanceType     string
	Region           string
	AvailabilityZone string
	LaunchTime       time.Time
}
