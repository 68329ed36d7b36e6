package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRegion(t *testing.T) {
	assert.True(t, IsValidRegion("us-east-1"))
	assert.True(t, IsValidRegion("ap-northeast-2"))
	assert.False(t, IsValidRegion("moon-base-1"))
	assert.False(t, IsValidRegion(""))
}

func TestGetDefaultRegion(t *testing.T) {
	assert.Equal(t, "us-east-1", GetDefaultRegion())
}

func TestGetRegionDescriptiveName(t *testing.T) {
	assert.Equal(t, "EU (Frankfurt)", GetRegionDescriptiveName("eu-central-1"))
	assert.Equal(t, "US East (N. Virginia)", GetRegionDescriptiveName("unknown-region"))
}
