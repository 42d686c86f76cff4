package services

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/on-their-footsteps/footsteps_api/shared"
)

func TestHandleError_MapsToApplicationErrors(t *testing.T) {
	sqlSvc := &PostgresService{}

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"record not found", gorm.ErrRecordNotFound, 404},
		{"duplicated key", gorm.ErrDuplicatedKey, 409},
		{"foreign key violated", gorm.ErrForeignKeyViolated, 400},
		{"wrapped not found", fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound), 404},
		{"postgres unique violation", errors.New(`duplicate key value violates unique constraint "idx_users_email"`), 409},
		{"sqlite unique violation", errors.New("UNIQUE constraint failed: users.email"), 409},
		{"unknown failure", errors.New("connection reset"), 500},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mapped := sqlSvc.HandleError(tc.err)
			appErr, ok := shared.GetAppError(mapped)
			if !ok {
				t.Fatalf("expected an application error, got %T", mapped)
			}
			if appErr.StatusCode != tc.wantStatus {
				t.Errorf("status %d, want %d", appErr.StatusCode, tc.wantStatus)
			}
			if !errors.Is(mapped, tc.err) {
				t.Error("mapped error must wrap the cause")
			}
		})
	}
}

func TestHandleError_NilPassesThrough(t *testing.T) {
	sqlSvc := &PostgresService{}
	if err := sqlSvc.HandleError(nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestHandleError_UnknownDetailNeverReachesClientMessage(t *testing.T) {
	sqlSvc := &PostgresService{}

	mapped := sqlSvc.HandleError(errors.New("dial tcp 10.0.0.5:5432: connection refused"))
	appErr, ok := shared.GetAppError(mapped)
	if !ok {
		t.Fatalf("expected an application error, got %T", mapped)
	}
	if appErr.Message != "An internal server error occurred" {
		t.Errorf("client message %q leaks detail", appErr.Message)
	}
}
