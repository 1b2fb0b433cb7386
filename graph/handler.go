package graph

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"cookbook/utils"

	"github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// envelope is the response body. Data is left nil to drop the member and
// set to the literal null to send "data": null.
type envelope struct {
	Data       json.RawMessage         `json:"data,omitempty"`
	Errors     []*gqlerrors.QueryError `json:"errors,omitempty"`
	Extensions map[string]interface{}  `json:"extensions,omitempty"`
}

var jsonNull = json.RawMessage("null")

// Handler serves GraphQL over POST. Every executed request answers 200;
// failures are reported only through the errors member.
type Handler struct {
	schema *graphql.Schema
	log    *zap.Logger
}

func NewHandler(schema *graphql.Schema, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{schema: schema, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := utils.LoggerFromContext(r.Context(), h.log)

	req, err := decodeRequest(w, r)
	if err != nil {
		log.Debug("rejected graphql request", zap.Error(err))
		if err := utils.RespondWithJSON(w, http.StatusBadRequest, envelope{
			Errors: []*gqlerrors.QueryError{gqlerrors.Errorf("%s", err)},
		}); err != nil {
			log.Error("failed to write graphql response", zap.Error(err))
		}
		return
	}

	resp := h.schema.Exec(r.Context(), req.Query, req.OperationName, req.Variables)
	if len(resp.Errors) > 0 {
		log.Debug("graphql request finished with errors",
			zap.String("operation", req.OperationName),
			zap.Int("errors", len(resp.Errors)))
	}

	if err := utils.RespondWithJSON(w, http.StatusOK, shape(resp)); err != nil {
		log.Error("failed to write graphql response",
			zap.String("operation", req.OperationName),
			zap.Error(err))
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (*request, error) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, errors.Wrap(err, "unable to parse media type")
		}
		if mediaType != "application/json" {
			return nil, errors.New("Unrecognised Content-Type. Please use application/json for GraphQL requests")
		}
	}

	req := &request{}
	d := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := d.Decode(req); err != nil {
		return nil, errors.Wrap(err, "Not a valid GraphQL request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, errors.New("GraphQL request body has no query")
	}
	return req, nil
}

// shape applies the envelope rules to an executed response:
//   - a failed non-null root field nulls the whole result; data is dropped
//   - errors on a single null root field report "data": null
//   - anything else passes through unchanged
func shape(resp *graphql.Response) envelope {
	env := envelope{
		Data:       resp.Data,
		Errors:     resp.Errors,
		Extensions: resp.Extensions,
	}
	if len(resp.Errors) == 0 {
		return env
	}

	data := bytes.TrimSpace(resp.Data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		env.Data = nil
		return env
	}

	// With several root fields a null one may be a legitimate result, so
	// the object is kept as is.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || len(fields) != 1 {
		return env
	}
	for _, v := range fields {
		if bytes.Equal(bytes.TrimSpace(v), jsonNull) {
			env.Data = jsonNull
		}
	}
	return env
}
