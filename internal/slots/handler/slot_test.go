package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "rezerveo/pkg/errors"
	"rezerveo/pkg/logger"
	"rezerveo/pkg/middleware"
	"rezerveo/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockSlotService struct {
	CreateFn           func(ctx context.Context, actor *model.Actor, req *model.CreateSlotRequest) (*model.Slot, error)
	GetMechanicSlotsFn func(ctx context.Context, actor *model.Actor, limit int, offset int64) ([]*model.Slot, int64, error)
	CancelFn           func(ctx context.Context, actor *model.Actor, slotUUID string) (bool, error)
}

func (m *mockSlotService) Create(ctx context.Context, actor *model.Actor, req *model.CreateSlotRequest) (*model.Slot, error) {
	return m.CreateFn(ctx, actor, req)
}

func (m *mockSlotService) GetMechanicSlots(ctx context.Context, actor *model.Actor, limit int, offset int64) ([]*model.Slot, int64, error) {
	return m.GetMechanicSlotsFn(ctx, actor, limit, offset)
}

func (m *mockSlotService) Cancel(ctx context.Context, actor *model.Actor, slotUUID string) (bool, error) {
	return m.CancelFn(ctx, actor, slotUUID)
}

type mockCanceller struct {
	CancelByMechanicFn func(ctx context.Context, actor *model.Actor, slotUUID, bookingUUID string) error
}

func (m *mockCanceller) CancelByMechanic(ctx context.Context, actor *model.Actor, slotUUID, bookingUUID string) error {
	return m.CancelByMechanicFn(ctx, actor, slotUUID, bookingUUID)
}

const (
	testSlotID    = "0b4ee04b-4802-45a4-a0c8-07b3e34b7c36"
	testBookingID = "f2a4cbb4-9c1f-4cce-b867-0a6421cb6e3a"
	mechanicID    = "8aa988bb-24b5-4171-9006-3a3d0552db75"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
}

func newRouter(svc *mockSlotService, canceller *mockCanceller) *httprouter.Router {
	router := httprouter.New()
	NewSlotHandler(svc, canceller, testLogger()).RegisterRoutes(router)
	return router
}

func withActor(r *http.Request) *http.Request {
	actor := &model.Actor{UUID: mechanicID, Name: "Adam Nowak", Email: "adam@example.com"}
	return r.WithContext(context.WithValue(r.Context(), middleware.ActorKey, actor))
}

func TestCreateHandler(t *testing.T) {
	t.Run("creates a slot", func(t *testing.T) {
		svc := &mockSlotService{
			CreateFn: func(_ context.Context, actor *model.Actor, req *model.CreateSlotRequest) (*model.Slot, error) {
				if actor.UUID != mechanicID {
					t.Errorf("actor UUID = %s, want %s", actor.UUID, mechanicID)
				}
				return &model.Slot{UUID: testSlotID, Date: req.Date, Status: model.SlotStatusAvailable}, nil
			},
		}

		body := `{"date":"2026-09-15","start_time":"09:00","end_time":"10:00","service_type":"oil_change"}`
		req := withActor(httptest.NewRequest(http.MethodPost, "/slots", strings.NewReader(body)))
		rec := httptest.NewRecorder()
		newRouter(svc, &mockCanceller{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body)
		}
		var resp struct {
			Data model.Slot `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Data.UUID != testSlotID {
			t.Errorf("slot id = %s, want %s", resp.Data.UUID, testSlotID)
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		req := withActor(httptest.NewRequest(http.MethodPost, "/slots", strings.NewReader("{")))
		rec := httptest.NewRecorder()
		newRouter(&mockSlotService{}, &mockCanceller{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("maps overlap to 409 with code", func(t *testing.T) {
		svc := &mockSlotService{
			CreateFn: func(_ context.Context, _ *model.Actor, _ *model.CreateSlotRequest) (*model.Slot, error) {
				return nil, apperrors.SlotOverlap("Slot overlaps an existing slot")
			},
		}
		req := withActor(httptest.NewRequest(http.MethodPost, "/slots", strings.NewReader(`{}`)))
		rec := httptest.NewRecorder()
		newRouter(svc, &mockCanceller{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
		var resp apperrors.ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Code != apperrors.CodeSlotOverlap {
			t.Errorf("error code = %s, want %s", resp.Code, apperrors.CodeSlotOverlap)
		}
	})

	t.Run("missing identity is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/slots", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		newRouter(&mockSlotService{}, &mockCanceller{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestGetMechanicSlotsHandler(t *testing.T) {
	svc := &mockSlotService{
		GetMechanicSlotsFn: func(_ context.Context, _ *model.Actor, limit int, offset int64) ([]*model.Slot, int64, error) {
			if limit != 5 || offset != 10 {
				t.Errorf("pagination = (%d, %d), want (5, 10)", limit, offset)
			}
			return []*model.Slot{{UUID: testSlotID}}, 11, nil
		},
	}

	req := withActor(httptest.NewRequest(http.MethodGet, "/slots?limit=5&offset=10", nil))
	rec := httptest.NewRecorder()
	newRouter(svc, &mockCanceller{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		TotalCount int64 `json:"total_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalCount != 11 {
		t.Errorf("total_count = %d, want 11", resp.TotalCount)
	}
}

func TestCancelHandler(t *testing.T) {
	t.Run("cancellation returns no content", func(t *testing.T) {
		svc := &mockSlotService{
			CancelFn: func(_ context.Context, _ *model.Actor, slotUUID string) (bool, error) {
				if slotUUID != testSlotID {
					t.Errorf("slot id = %s, want %s", slotUUID, testSlotID)
				}
				return true, nil
			},
		}
		req := withActor(httptest.NewRequest(http.MethodDelete, "/slots/"+testSlotID, nil))
		rec := httptest.NewRecorder()
		newRouter(svc, &mockCanceller{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
	})

	t.Run("repeated cancellation returns message", func(t *testing.T) {
		svc := &mockSlotService{
			CancelFn: func(_ context.Context, _ *model.Actor, _ string) (bool, error) {
				return false, nil
			},
		}
		req := withActor(httptest.NewRequest(http.MethodDelete, "/slots/"+testSlotID, nil))
		rec := httptest.NewRecorder()
		newRouter(svc, &mockCanceller{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "already cancelled") {
			t.Errorf("body %s does not mention the no-op", rec.Body)
		}
	})

	t.Run("foreign slot returns 403", func(t *testing.T) {
		svc := &mockSlotService{
			CancelFn: func(_ context.Context, _ *model.Actor, _ string) (bool, error) {
				return false, apperrors.Forbidden("Slot belongs to another mechanic")
			},
		}
		req := withActor(httptest.NewRequest(http.MethodDelete, "/slots/"+testSlotID, nil))
		rec := httptest.NewRecorder()
		newRouter(svc, &mockCanceller{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})
}

func TestCancelBookingHandler(t *testing.T) {
	canceller := &mockCanceller{
		CancelByMechanicFn: func(_ context.Context, actor *model.Actor, slotUUID, bookingUUID string) error {
			if actor.UUID != mechanicID || slotUUID != testSlotID || bookingUUID != testBookingID {
				t.Errorf("unexpected args: actor=%s slot=%s booking=%s", actor.UUID, slotUUID, bookingUUID)
			}
			return nil
		},
	}

	req := withActor(httptest.NewRequest(http.MethodDelete, "/slots/"+testSlotID+"/bookings/"+testBookingID, nil))
	rec := httptest.NewRecorder()
	newRouter(&mockSlotService{}, canceller).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}
