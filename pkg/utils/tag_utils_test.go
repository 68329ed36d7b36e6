package utils

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
)

func TestGetTagValue(t *testing.T) {
	tags := []types.Tag{
		{Key: aws.String("Team"), Value: aws.String("platform")},
		{Key: aws.String("Name"), Value: aws.String("web-1")},
	}

	assert.Equal(t, "platform", GetTagValue(tags, "Team"))
	assert.Equal(t, "web-1", GetTagValue(tags, "Name"))
	assert.Equal(t, "", GetTagValue(tags, "Missing"))
}

func TestGetTagValue_NilValue(t *testing.T) {
	tags := []types.Tag{{Key: aws.String("Name")}}

	assert.Equal(t, "", GetTagValue(tags, "Name"))
}

func TestGetName(t *testing.T) {
	tags := []types.Tag{
		{Key: aws.String("Name"), Value: aws.String("db-1")},
	}

	assert.Equal(t, "db-1", GetName(tags))
	assert.Equal(t, "", GetName(nil))
}
