package sync

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"backend-motormates/internal/route"
)

func passthrough(c *fiber.Ctx) error {
	c.Locals("user_id", "user-1")
	return c.Next()
}

func TestSyncRunHandler(t *testing.T) {
	local := &fakeLocal{routes: []route.Route{dirtyRoute("Run")}, confirmOK: true}
	syncer := NewSyncer(local, &fakeRemote{}, nil, 10)

	app := fiber.New()
	RegisterRoutes(app.Group("/sync"), syncer, passthrough)

	req := httptest.NewRequest(http.MethodPost, "/sync/run", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("run status: %v", err)
	}

	var report Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Uploaded != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestSyncStatusHandler(t *testing.T) {
	local := &fakeLocal{counts: [3]int{1, 2, 3}}
	syncer := NewSyncer(local, &fakeRemote{}, nil, 10)

	app := fiber.New()
	RegisterRoutes(app.Group("/sync"), syncer, passthrough)

	req := httptest.NewRequest(http.MethodGet, "/sync/status", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %v", err)
	}

	var status map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status["dirty_landmarks"] != 3 {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestSyncStatusHandlerError(t *testing.T) {
	local := &fakeLocal{countsErr: errors.New("db down")}
	syncer := NewSyncer(local, &fakeRemote{}, nil, 10)

	app := fiber.New()
	RegisterRoutes(app.Group("/sync"), syncer, passthrough)

	req := httptest.NewRequest(http.MethodGet, "/sync/status", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected error status")
	}
}
