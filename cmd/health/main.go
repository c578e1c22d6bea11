package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"financebackend/internal/config"
	"financebackend/internal/handlers"
)

func main() {
	cfg := config.Load()
	lambda.Start(handlers.Health(cfg.ServiceName))
}
