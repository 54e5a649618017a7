package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/bill-notifier/internal/auth"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("io.ReadAll() error = %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("json.Unmarshal(%s) error = %v", raw, err)
	}
	return body
}

func TestErrorHandlerShapes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantKey    string
		wantValue  any
	}{
		{name: "client error", err: fiber.NewError(fiber.StatusBadRequest, "billId is required"), wantStatus: 400, wantKey: "error", wantValue: "billId is required"},
		{name: "not found", err: fiber.NewError(fiber.StatusNotFound, "bill not found"), wantStatus: 404, wantKey: "error", wantValue: "bill not found"},
		{name: "plain error renders message", err: errors.New("pq: connection refused"), wantStatus: 500, wantKey: "message", wantValue: "pq: connection refused"},
		{name: "wrapped error renders chain", err: fmt.Errorf("failed to update shipment: %w", errors.New("deadlock detected")), wantStatus: 500, wantKey: "message", wantValue: "failed to update shipment: deadlock detected"},
		{name: "server fiber error", err: fiber.NewError(fiber.StatusServiceUnavailable, "not ready"), wantStatus: 503, wantKey: "success", wantValue: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			core, recorded := observer.New(zapcore.DebugLevel)
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.New(core))})
			app.Get("/x", func(c *fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}

			body := decodeBody(t, resp)
			if body[tc.wantKey] != tc.wantValue {
				t.Fatalf("body[%q] = %v, want %v", tc.wantKey, body[tc.wantKey], tc.wantValue)
			}
			if recorded.Len() != 1 {
				t.Fatalf("log entries = %d, want 1", recorded.Len())
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	t.Parallel()

	sessions, err := auth.NewSessionManager("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionManager() error = %v", err)
	}
	token, err := sessions.Issue(9, "user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	foreignSessions, err := auth.NewSessionManager("other", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionManager() error = %v", err)
	}
	foreign, err := foreignSessions.Issue(9, "user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	testCases := []struct {
		name       string
		cookie     string
		header     string
		wantStatus int
	}{
		{name: "cookie", cookie: token, wantStatus: 200},
		{name: "bearer header", header: "Bearer " + token, wantStatus: 200},
		{name: "missing", wantStatus: 401},
		{name: "wrong scheme", header: "Basic " + token, wantStatus: 401},
		{name: "malformed", cookie: "garbage", wantStatus: 401},
		{name: "foreign signature", cookie: foreign, wantStatus: 401},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(nil)})
			app.Get("/me", RequireSession(sessions, "session"), func(c *fiber.Ctx) error {
				orgID, ok := OrganisationID(c)
				if !ok {
					return fiber.NewError(fiber.StatusInternalServerError, "missing organisation")
				}
				return c.JSON(fiber.Map{"org": orgID, "user": UserID(c)})
			})

			req := httptest.NewRequest("GET", "/me", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "session", Value: tc.cookie})
			}
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}

			body := decodeBody(t, resp)
			if tc.wantStatus == 200 {
				if body["org"] != float64(9) || body["user"] != "user-1" {
					t.Fatalf("body = %v", body)
				}
				return
			}
			if _, ok := body["error"]; !ok {
				t.Fatalf("body = %v, want error key", body)
			}
		})
	}
}
