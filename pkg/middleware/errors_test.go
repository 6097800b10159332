package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"spacehub/pkg/logger"
)

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not a JSON error envelope: %q", rr.Body.String())
	}
	return body.Error, body.Code
}

func TestRejections_UseErrorEnvelope(t *testing.T) {
	log := logger.Discard()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name       string
		handler    http.Handler
		req        func() *http.Request
		wantStatus int
		wantCode   string
	}{
		{
			name: "panic",
			handler: Recovery(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				panic("boom")
			})),
			req:        func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/resources", nil) },
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
		{
			name:    "wrong content type",
			handler: ContentTypeValidation(log)(ok),
			req: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader("x=1"))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return r
			},
			wantStatus: http.StatusUnsupportedMediaType,
			wantCode:   "INVALID_INPUT",
		},
		{
			name: "deadline exceeded",
			handler: RequestTimeout(20*time.Millisecond, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				<-r.Context().Done()
				w.WriteHeader(http.StatusOK)
			})),
			req:        func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/bookings", nil) },
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   "TIMEOUT",
		},
		{
			name:    "body too large",
			handler: MaxRequestSize(4)(ok),
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(`{"resource_id":"r-1"}`))
			},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.handler.ServeHTTP(rr, tt.req())

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			msg, code := decodeEnvelope(t, rr)
			if code != tt.wantCode || msg == "" {
				t.Errorf("envelope = (%q, %q), want code %q", msg, code, tt.wantCode)
			}
		})
	}
}

func TestRequestTimeout_PanicReachesRecovery(t *testing.T) {
	log := logger.Discard()
	h := Recovery(log)(RequestTimeout(time.Second, log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/bookings", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if _, code := decodeEnvelope(t, rr); code != "INTERNAL_ERROR" {
		t.Errorf("code = %q", code)
	}
}

func TestRequestTimeout_FastHandlerUntouched(t *testing.T) {
	h := RequestTimeout(time.Second, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/resources", nil))

	if rr.Code != http.StatusCreated || rr.Body.String() != `{"data":{}}` {
		t.Errorf("got %d %q", rr.Code, rr.Body.String())
	}
}
