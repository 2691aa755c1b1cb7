package verifyemail

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vrxmike/biodata/internal/storage/repository"
)

type RegistrationServiceMock struct {
	mock.Mock
}

func (m *RegistrationServiceMock) VerifyEmail(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestVerifyEmailHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		mockErr        error
		mockCalled     bool
		wantStatusCode int
		wantError      string
		wantMessage    string
	}{
		{
			name:           "valid token",
			target:         "/registration/verify-email?token=good-token",
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
			wantMessage:    "email verified successfully",
		},
		{
			name:           "consumed token is rejected on replay",
			target:         "/registration/verify-email?token=used-token",
			mockErr:        repository.ErrTokenNotFound,
			mockCalled:     true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid or expired token",
		},
		{
			name:           "missing token parameter",
			target:         "/registration/verify-email",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid or expired token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock := new(RegistrationServiceMock)
			handler := New(newNoopLogger(), svcMock)

			if tt.mockCalled {
				svcMock.On("VerifyEmail", mock.Anything, mock.AnythingOfType("string")).
					Return(tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, got["message"])
			}

			svcMock.AssertExpectations(t)
		})
	}
}
