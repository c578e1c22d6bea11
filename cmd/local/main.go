package main

// Serves every handler on one HTTP port, e.g. against DynamoDB Local:
//
//	DYNAMODB_ENDPOINT=http://localhost:8000 TABLE_NAME=items PRIMARY_KEY=id go run ./cmd/local
//	curl -X DELETE localhost:3000/items/42

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"financebackend/internal/app"
	"financebackend/internal/config"
	"financebackend/internal/handlers"
	"financebackend/internal/local"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, proceeding with environment variables")
	}

	ctx := context.Background()
	cfg := config.Load()

	h, err := app.NewRecords(ctx, cfg)
	if err != nil {
		log.Fatalf("init records: %v", err)
	}

	router := local.NewRouter(cfg.LocalResource, local.Routes{
		GetAll:    h.GetAll,
		Create:    h.Create,
		GetOne:    h.GetOne,
		UpdateOne: h.UpdateOne,
		DeleteOne: h.DeleteOne,
		Health:    handlers.Health(cfg.ServiceName),
	})

	log.Printf("serving /%s on %s", cfg.LocalResource, cfg.LocalAddr)
	if err := http.ListenAndServe(cfg.LocalAddr, router); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
