package database

import (
	"errors"
	"net/http"
	"testing"

	"gorm.io/gorm"

	apperrors "github.com/busline/gateway/errors"
)

func TestFromDatabase(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   apperrors.ErrorCode
		wantStatus int
	}{
		{"record not found", gorm.ErrRecordNotFound, apperrors.ErrCodeNotFound, http.StatusNotFound},
		{"duplicate key", gorm.ErrDuplicatedKey, apperrors.ErrCodeAlreadyExists, http.StatusConflict},
		{"connection refused", errors.New("dial tcp: connection refused"), apperrors.ErrCodeDatabaseError, http.StatusServiceUnavailable},
		{"generic", errors.New("syntax error"), apperrors.ErrCodeDatabaseError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromDatabase(tt.err, "seat")
			if appErr.Code != tt.wantCode {
				t.Errorf("code: got %s, want %s", appErr.Code, tt.wantCode)
			}
			if appErr.HTTPStatus != tt.wantStatus {
				t.Errorf("status: got %d, want %d", appErr.HTTPStatus, tt.wantStatus)
			}
		})
	}

	if FromDatabase(nil, "seat") != nil {
		t.Error("expected nil for nil error")
	}
}

func TestIsConnectionError(t *testing.T) {
	if !IsConnectionError(errors.New("read: connection reset by peer")) {
		t.Error("expected connection reset to be a connection error")
	}
	if IsConnectionError(errors.New("duplicate key value")) {
		t.Error("duplicate key is not a connection error")
	}
	if IsConnectionError(nil) {
		t.Error("nil is not a connection error")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{DSN: "postgres://localhost/busline"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := Config{}
	bad.ApplyDefaults()
	if err := bad.Validate(); err == nil {
		t.Error("expected error for missing DSN")
	}

	cfg.ConnMaxLifetime = "not-a-duration"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for bad duration")
	}
}
