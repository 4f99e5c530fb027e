package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/seatwise/cinegate/api"
	"github.com/seatwise/cinegate/internal/booking"
	"github.com/seatwise/cinegate/internal/cinema"
	"github.com/seatwise/cinegate/internal/validator"
)

func newTestApplication(opts ...func(*application)) *application {
	app := &application{
		validator:      validator.NewValidator(),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		sessionManager: scs.New(),
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// setupTestSession loads a session context carrying an authenticated
// upstream session. scs reuses the loaded context on dispatch, so state put
// here is visible to handlers and state put by handlers is visible to the
// test afterwards.
func setupTestSession(t *testing.T, app *application, r *http.Request) *http.Request {
	t.Helper()

	ctx, err := app.sessionManager.Load(r.Context(), "session")
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}

	session := cinema.NewSession()
	session.Cookies["sessionid"] = "sess-test"
	session.Cookies["csrftoken"] = "tok-test"

	data, err := json.Marshal(session)
	if err != nil {
		t.Fatal(err)
	}

	app.sessionManager.Put(ctx, sessionKeyUpstream, data)

	return r.WithContext(ctx)
}

func putTestFlow(t *testing.T, app *application, r *http.Request, flow *booking.Flow) {
	t.Helper()

	data, err := json.Marshal(flow)
	if err != nil {
		t.Fatal(err)
	}

	app.sessionManager.Put(r.Context(), sessionKeyFlow, data)
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	var r *http.Request
	if body == nil {
		r = httptest.NewRequest(method, url, nil)
	} else {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}

		r = httptest.NewRequest(method, url, bytes.NewReader(jsonData))
	}

	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func decodeFlowResponse(t *testing.T, w *httptest.ResponseRecorder) api.BookingFlowResponse {
	t.Helper()

	var resp api.BookingFlowResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode flow response: %v", err)
	}

	return resp
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantErrMessage string) {
	t.Helper()

	if wantStatus >= 200 && wantStatus < 300 {
		return
	}

	switch wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		if validationResp.Message == wantErrMessage {
			return
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[wantErrMessage] {
			t.Errorf("Expected error message '%s' not found in response", wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if wantErrMessage != "" && errorResp.Message != wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, wantErrMessage)
		}
	}
}

func jsonDecode(w *httptest.ResponseRecorder, dst any) error {
	return json.NewDecoder(w.Body).Decode(dst)
}

func ptr[T any](v T) *T {
	return &v
}
