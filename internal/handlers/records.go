package handlers

//go:generate mockgen -source=records.go -destination=mock_store_test.go -package=handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"financebackend/internal/config"
	"financebackend/internal/db"

	"github.com/asecurityteam/logevent/v2"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
)

// Store is the table the record handlers talk to. *db.Table satisfies it.
type Store interface {
	Delete(ctx context.Context, id string) error
	Scan(ctx context.Context) ([]db.Record, error)
	Get(ctx context.Context, id string) (db.Record, error)
	Put(ctx context.Context, rec db.Record) error
	Update(ctx context.Context, id string, attrs db.Record) error
}

// Records serves the CRUD routes of one table. Each method is a complete
// Lambda handler and makes at most one store call.
type Records struct {
	Store        Store
	PrimaryKey   string
	RedactErrors bool
	Logger       logevent.Logger

	// NewID generates primary keys for created records.
	NewID func() string
}

func NewRecords(store Store, cfg config.Config, logger logevent.Logger) *Records {
	return &Records{
		Store:        store,
		PrimaryKey:   cfg.PrimaryKey,
		RedactErrors: cfg.RedactErrors,
		Logger:       logger,
		NewID:        uuid.NewString,
	}
}

type rejected struct {
	Reason  string `logevent:"reason"`
	Message string `logevent:"message,default=request-rejected"`
}

type storeFailed struct {
	Operation string `logevent:"operation"`
	Reason    string `logevent:"reason"`
	Message   string `logevent:"message,default=store-call-failed"`
}

type recordsCounted struct {
	Count   int    `logevent:"count"`
	Message string `logevent:"message,default=records-scanned"`
}

func (h *Records) logger(ctx context.Context, handler string, req events.APIGatewayProxyRequest) logevent.Logger {
	l := h.Logger.Copy()
	l.SetField("handler", handler)
	if req.RequestContext.RequestID != "" {
		l.SetField("requestId", req.RequestContext.RequestID)
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		l.SetField("awsRequestId", lc.AwsRequestID)
	}
	return l
}

func (h *Records) badRequest(l logevent.Logger, msg string) (events.APIGatewayProxyResponse, error) {
	l.Info(rejected{Reason: msg})
	return plain(http.StatusBadRequest, msg), nil
}

func (h *Records) storeError(l logevent.Logger, op string, err error) (events.APIGatewayProxyResponse, error) {
	l.Error(storeFailed{Operation: op, Reason: err.Error()})
	if h.RedactErrors {
		return plain(http.StatusInternalServerError, errorJSON(errorBody{Message: msgRedacted})), nil
	}
	return plain(http.StatusInternalServerError, errorJSON(describeError(err))), nil
}

// writeError is storeError plus the friendlier reserved-keyword message
// for put and update.
func (h *Records) writeError(l logevent.Logger, op string, err error) (events.APIGatewayProxyResponse, error) {
	if isReservedKeyword(err) {
		l.Error(storeFailed{Operation: op, Reason: err.Error()})
		return plain(http.StatusInternalServerError, msgReservedKeyword), nil
	}
	return h.storeError(l, op, err)
}

// DeleteOne deletes the record named by pathParameters.id. Deleting a
// missing record succeeds.
func (h *Records) DeleteOne(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	l := h.logger(ctx, "delete-one", req)

	id := req.PathParameters["id"]
	if id == "" {
		return h.badRequest(l, msgMissingID)
	}

	if err := h.Store.Delete(ctx, id); err != nil {
		return h.storeError(l, "delete", err)
	}
	return success(http.StatusOK, ""), nil
}

// GetAll returns every scanned record as a JSON array.
func (h *Records) GetAll(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	l := h.logger(ctx, "get-all", req)

	recs, err := h.Store.Scan(ctx)
	if err != nil {
		return h.storeError(l, "scan", err)
	}
	if recs == nil {
		recs = []db.Record{}
	}
	l.Debug(recordsCounted{Count: len(recs)})
	return successJSON(recs)
}

func (h *Records) GetOne(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	l := h.logger(ctx, "get-one", req)

	id := req.PathParameters["id"]
	if id == "" {
		return h.badRequest(l, msgMissingID)
	}

	rec, err := h.Store.Get(ctx, id)
	if err != nil {
		return h.storeError(l, "get", err)
	}
	if rec == nil {
		return plain(http.StatusNotFound, ""), nil
	}
	return successJSON(rec)
}

// Create stores the body as a new record under a generated primary key.
func (h *Records) Create(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	l := h.logger(ctx, "create", req)

	body, err := requestBody(req)
	if err != nil || strings.TrimSpace(body) == "" {
		return h.badRequest(l, msgMissingBody)
	}

	rec, ok := decodeObject(body)
	if !ok {
		return h.badRequest(l, msgBodyNotObject)
	}
	rec[h.PrimaryKey] = h.NewID()

	if err := h.Store.Put(ctx, rec); err != nil {
		return h.writeError(l, "put", err)
	}
	return success(http.StatusCreated, ""), nil
}

// UpdateOne sets every attribute of the body on the record named by
// pathParameters.id.
func (h *Records) UpdateOne(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	l := h.logger(ctx, "update-one", req)

	body, err := requestBody(req)
	if err != nil || strings.TrimSpace(body) == "" {
		return h.badRequest(l, msgMissingBody)
	}

	id := req.PathParameters["id"]
	if id == "" {
		return h.badRequest(l, msgUpdateMissingID)
	}

	attrs, ok := decodeObject(body)
	if !ok || len(attrs) == 0 {
		return h.badRequest(l, msgNoArguments)
	}
	if _, ok := attrs[h.PrimaryKey]; ok {
		return h.badRequest(l, msgPrimaryKeyChanged)
	}

	if err := h.Store.Update(ctx, id, attrs); err != nil {
		return h.writeError(l, "update", err)
	}
	return success(http.StatusNoContent, ""), nil
}

func requestBody(req events.APIGatewayProxyRequest) (string, error) {
	if !req.IsBase64Encoded {
		return req.Body, nil
	}
	b, err := base64.StdEncoding.DecodeString(req.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeObject accepts exactly one JSON object.
func decodeObject(body string) (db.Record, bool) {
	dec := json.NewDecoder(strings.NewReader(body))
	var rec db.Record
	if err := dec.Decode(&rec); err != nil || rec == nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	return rec, true
}
