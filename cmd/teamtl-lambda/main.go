// Command teamtl-lambda serves GET /teams/{teamId}/translation?language= from
// AWS Lambda behind an API Gateway HTTP API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/ZaguanLabs/teamtl/config"
	"github.com/ZaguanLabs/teamtl/internal/app"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := app.NewLogger(os.Stdout, cfg)

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	h := &handler{service: a.Service, logger: logger}
	lambda.Start(h.Handle)
}
