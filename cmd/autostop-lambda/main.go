package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/autostop/autostop/internal/handler"
	"github.com/autostop/autostop/internal/logging"
)

func main() {
	logger := logging.Setup(true, false, false)
	lambda.Start(handler.New(logger).Handle)
}
