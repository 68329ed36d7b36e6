package awsx

import (
	"errors"

	"github.com/aws/smithy-go"
)

// throttleErrorCode is the EC2 API error code returned when request rate
// limits are exceeded.
const throttleErrorCode = "RequestLimitExceeded"

// IsThrottleError reports whether err is an EC2 request throttling error.
func IsThrottleError(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == throttleErrorCode
	}
	return false
}
