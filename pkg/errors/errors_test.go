package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestConstructorsCarryStatusAndCode(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"validation", Validation("name is required", nil), CodeValidation, http.StatusBadRequest},
		{"not found", NotFound("plan"), CodeNotFound, http.StatusNotFound},
		{"unprocessable", Unprocessable("end_datetime must be later than start_datetime", nil), CodeUnprocessable, http.StatusUnprocessableEntity},
		{"overlap", Overlap("time range overlaps existing reservation", nil), CodeOverlap, http.StatusConflict},
		{"duplicate", Duplicate("plan name duplicated in the spot"), CodeDuplicate, http.StatusConflict},
		{"timeout", Timeout("store unavailable"), CodeTimeout, http.StatusGatewayTimeout},
		{"internal", Internal("boom", errors.New("cause")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestToJSONEnvelope(t *testing.T) {
	appErr := NotFoundWithID("reservation", "64f0c1a2b3d4e5f601234567")

	var envelope Envelope
	if err := json.Unmarshal(appErr.ToJSON(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if envelope.Error.Code != CodeNotFound {
		t.Errorf("envelope code = %s, want %s", envelope.Error.Code, CodeNotFound)
	}
	if envelope.Error.Details["id"] != "64f0c1a2b3d4e5f601234567" {
		t.Errorf("envelope details id = %v", envelope.Error.Details["id"])
	}
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	appErr := Internal("store write failed", cause)

	if !errors.Is(appErr, cause) {
		t.Error("expected errors.Is to reach the wrapped cause")
	}
}

func TestAsAppErrorWrapsUnknown(t *testing.T) {
	plain := errors.New("driver exploded")

	appErr := AsAppError(plain)
	if appErr.Code != CodeInternal {
		t.Errorf("code = %s, want %s", appErr.Code, CodeInternal)
	}

	same := Duplicate("email already registered")
	if AsAppError(same) != same {
		t.Error("expected AsAppError to pass AppError through unchanged")
	}
}
