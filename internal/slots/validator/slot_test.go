package validator

import (
	"errors"
	"io"
	"testing"
	"time"

	"rezerveo/pkg/logger"
	"rezerveo/pkg/model"
)

func newTestValidator(t *testing.T) *SlotValidator {
	t.Helper()
	v := NewSlotValidator(logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}))
	v.now = func() time.Time {
		return time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	}
	return v
}

func validRequest() *model.CreateSlotRequest {
	return &model.CreateSlotRequest{
		Date:        "2026-09-15",
		StartTime:   "09:00",
		EndTime:     "10:30",
		ServiceType: model.ServiceOilChange,
	}
}

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*model.CreateSlotRequest)
		wantField string
	}{
		{
			name:   "valid request",
			mutate: func(r *model.CreateSlotRequest) {},
		},
		{
			name:      "missing date",
			mutate:    func(r *model.CreateSlotRequest) { r.Date = "" },
			wantField: "date",
		},
		{
			name:      "malformed date",
			mutate:    func(r *model.CreateSlotRequest) { r.Date = "15-09-2026" },
			wantField: "date",
		},
		{
			name:      "malformed start time",
			mutate:    func(r *model.CreateSlotRequest) { r.StartTime = "9am" },
			wantField: "start_time",
		},
		{
			name:      "malformed end time",
			mutate:    func(r *model.CreateSlotRequest) { r.EndTime = "25:00" },
			wantField: "end_time",
		},
		{
			name:      "end before start",
			mutate:    func(r *model.CreateSlotRequest) { r.StartTime = "14:00"; r.EndTime = "13:00" },
			wantField: "end_time",
		},
		{
			name:      "end equals start",
			mutate:    func(r *model.CreateSlotRequest) { r.StartTime = "14:00"; r.EndTime = "14:00" },
			wantField: "end_time",
		},
		{
			name:      "past date",
			mutate:    func(r *model.CreateSlotRequest) { r.Date = "2026-08-31" },
			wantField: "date",
		},
		{
			name:      "past start time today",
			mutate:    func(r *model.CreateSlotRequest) { r.Date = "2026-09-01"; r.StartTime = "10:29"; r.EndTime = "11:00" },
			wantField: "start_time",
		},
		{
			name:   "start at the current minute is allowed",
			mutate: func(r *model.CreateSlotRequest) { r.Date = "2026-09-01"; r.StartTime = "10:30"; r.EndTime = "11:00" },
		},
		{
			name:   "later today is allowed",
			mutate: func(r *model.CreateSlotRequest) { r.Date = "2026-09-01"; r.StartTime = "15:00"; r.EndTime = "16:00" },
		},
		{
			name:      "unknown service type",
			mutate:    func(r *model.CreateSlotRequest) { r.ServiceType = "time_travel" },
			wantField: "service_type",
		},
		{
			name:      "missing service type",
			mutate:    func(r *model.CreateSlotRequest) { r.ServiceType = "" },
			wantField: "service_type",
		},
	}

	v := newTestValidator(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := v.ValidateCreate(req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateCreate() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Fatal("ValidateCreate() error = nil, want validation error")
			}
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("error type = %T, want ValidationErrors", err)
			}
			if !hasFieldError(verrs, tt.wantField) {
				t.Errorf("errors %v do not mention field %q", verrs, tt.wantField)
			}
		})
	}
}

func TestValidateCreateAllServiceTypes(t *testing.T) {
	v := newTestValidator(t)

	for serviceType := range serviceTypes {
		req := validRequest()
		req.ServiceType = serviceType
		if err := v.ValidateCreate(req); err != nil {
			t.Errorf("ValidateCreate() with %q returned %v, want nil", serviceType, err)
		}
	}
}
