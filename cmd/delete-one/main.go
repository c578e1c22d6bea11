package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"financebackend/internal/app"
	"financebackend/internal/config"
)

func main() {
	ctx := context.Background()

	h, err := app.NewRecords(ctx, config.Load())
	if err != nil {
		log.Fatalf("init delete-one: %v", err)
	}

	lambda.Start(h.DeleteOne)
}
