package getuser

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vrxmike/biodata/internal/models"
	"github.com/vrxmike/biodata/internal/services/registration"
	"github.com/vrxmike/biodata/internal/storage/repository"
)

type RegistrationServiceMock struct {
	mock.Mock
}

func (m *RegistrationServiceMock) GetUserAndProfile(ctx context.Context, userUID string) (*registration.UserWithProfile, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registration.UserWithProfile), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newRequestWithUserID(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/registration/user/"+userID, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userId", userID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
	return req.WithContext(ctx)
}

func TestGetUserHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		mockResult     *registration.UserWithProfile
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:   "user with profile found",
			userID: "user-uid",
			mockResult: &registration.UserWithProfile{
				Email:   "user@example.com",
				Profile: models.Profile{UID: "profile-uid", UserUID: "user-uid"},
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "user not found",
			userID:         "missing",
			mockErr:        repository.ErrUserNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "user not found",
		},
		{
			name:           "profile not found",
			userID:         "orphan",
			mockErr:        repository.ErrProfileNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "profile not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock := new(RegistrationServiceMock)
			handler := New(newNoopLogger(), svcMock)

			svcMock.On("GetUserAndProfile", mock.Anything, tt.userID).
				Return(tt.mockResult, tt.mockErr).Once()

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newRequestWithUserID(tt.userID))

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "user@example.com", data["email"])
			}

			svcMock.AssertExpectations(t)
		})
	}
}
