package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	defaultLogLevel    = "INFO"
	defaultServiceName = "crud-backend"
	defaultLocalAddr   = ":3000"
	defaultResource    = "items"
)

// Config is built once per cold start and handed to every handler.
type Config struct {
	// TableName and PrimaryKey are wired by the deployment stack.
	TableName  string
	PrimaryKey string

	// ScanAllPages makes get-all follow LastEvaluatedKey until the table is
	// exhausted. Off means a single scan page.
	ScanAllPages bool
	// RedactErrors replaces store error detail in 500 bodies.
	RedactErrors bool

	LogLevel    string
	ServiceName string

	// DynamoEndpoint overrides the resolved DynamoDB endpoint (DynamoDB Local).
	DynamoEndpoint string

	// Local dev server only.
	LocalAddr     string
	LocalResource string
}

// Load reads the process environment.
func Load() Config {
	return FromLookup(os.Getenv)
}

// FromLookup builds a Config from any env-style lookup func.
func FromLookup(getenv func(string) string) Config {
	get := func(k string) string { return strings.TrimSpace(getenv(k)) }

	return Config{
		TableName:      get("TABLE_NAME"),
		PrimaryKey:     get("PRIMARY_KEY"),
		ScanAllPages:   parseBool(get("SCAN_ALL_PAGES")),
		RedactErrors:   parseBool(get("REDACT_ERRORS")),
		LogLevel:       orDefault(get("LOG_LEVEL"), defaultLogLevel),
		ServiceName:    orDefault(get("SERVICE_NAME"), defaultServiceName),
		DynamoEndpoint: get("DYNAMODB_ENDPOINT"),
		LocalAddr:      orDefault(get("LOCAL_ADDR"), defaultLocalAddr),
		LocalResource:  strings.Trim(orDefault(get("LOCAL_RESOURCE"), defaultResource), "/"),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// unparseable values count as false
func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
