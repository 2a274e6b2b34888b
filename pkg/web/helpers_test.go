package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRespondHelpers(t *testing.T) {
	tests := []struct {
		name     string
		respond  func(w http.ResponseWriter)
		wantCode int
		wantBody string
	}{
		{
			name:     "data keeps empty list",
			respond:  func(w http.ResponseWriter) { RespondData(w, discard, http.StatusOK, []string{}) },
			wantCode: http.StatusOK,
			wantBody: `{"success":true,"data":[]}`,
		},
		{
			name:     "message",
			respond:  func(w http.ResponseWriter) { RespondMessage(w, discard, http.StatusOK, "done") },
			wantCode: http.StatusOK,
			wantBody: `{"success":true,"message":"done"}`,
		},
		{
			name:     "error",
			respond:  func(w http.ResponseWriter) { RespondError(w, discard, http.StatusNotFound, "Product not found") },
			wantCode: http.StatusNotFound,
			wantBody: `{"success":false,"message":"Product not found"}`,
		},
		{
			name: "field errors",
			respond: func(w http.ResponseWriter) {
				RespondFieldErrors(w, discard, "Please fill all fields", map[string]string{"name": "required"})
			},
			wantCode: http.StatusBadRequest,
			wantBody: `{"success":false,"message":"Please fill all fields","errors":{"name":"required"}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.respond(rr)
			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"name":"Lamp"}`},
		{name: "empty body", body: ``, wantErr: true},
		{name: "unknown field", body: `{"name":"Lamp","color":"red"}`, wantErr: true},
		{name: "trailing object", body: `{"name":"Lamp"}{"name":"Desk"}`, wantErr: true},
		{name: "malformed", body: `{"name":`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload
			err := DecodeJSON(httptest.NewRecorder(), req, &dst)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Lamp", dst.Name)
		})
	}
}

func TestMapGrpcToHttpStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"not found", status.Error(codes.NotFound, "Product not found"), http.StatusNotFound, "Product not found"},
		{"invalid argument", status.Error(codes.InvalidArgument, "Invalid product ID"), http.StatusBadRequest, "Invalid product ID"},
		{"deadline", status.Error(codes.DeadlineExceeded, "slow"), http.StatusGatewayTimeout, "The request timed out"},
		{"unavailable", status.Error(codes.Unavailable, "down"), http.StatusServiceUnavailable, "Service is temporarily unavailable"},
		{"internal", status.Error(codes.Internal, "boom"), http.StatusInternalServerError, "An unexpected error occurred"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := MapGrpcToHttpStatus(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestEnvelope_OmitsEmptyFields(t *testing.T) {
	b, err := json.Marshal(Envelope{Success: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(b))
}
