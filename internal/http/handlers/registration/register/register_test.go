package register

import (
	"bytes"
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

	"github.com/vrxmike/biodata/internal/models"
	"github.com/vrxmike/biodata/internal/services/registration"
	"github.com/vrxmike/biodata/internal/storage/repository"
)

type RegistrationServiceMock struct {
	mock.Mock
}

func (m *RegistrationServiceMock) Register(ctx context.Context, email, password, role string, profile models.Profile) (*registration.RegisterResult, error) {
	args := m.Called(ctx, email, password, role, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registration.RegisterResult), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		mockResult     *registration.RegisterResult
		mockErr        error
		mockCalled     bool
		wantStatusCode int
		wantError      string
		wantData       map[string]any
	}{
		{
			name:        "valid registration with profile sections",
			requestBody: `{"email":"new@example.com","password":"password123","personal_info":{"first_name":"Jane"}}`,
			mockResult:  &registration.RegisterResult{UserUID: "user-uid", ProfileUID: "profile-uid"},
			mockCalled:  true,
			wantStatusCode: http.StatusCreated,
			wantData: map[string]any{
				"userUid":    "user-uid",
				"profileUid": "profile-uid",
				"message":    "registration successful",
			},
		},
		{
			name:        "mail failure surfaces as a warning, not an error",
			requestBody: `{"email":"new@example.com","password":"password123"}`,
			mockResult: &registration.RegisterResult{
				UserUID:     "user-uid",
				ProfileUID:  "profile-uid",
				MailWarning: "verification email could not be sent",
			},
			mockCalled:     true,
			wantStatusCode: http.StatusCreated,
			wantData: map[string]any{
				"userUid": "user-uid",
				"warning": "verification email could not be sent",
			},
		},
		{
			name:           "invalid role",
			requestBody:    `{"email":"new@example.com","password":"password123","role":"superuser"}`,
			mockErr:        registration.ErrInvalidRole,
			mockCalled:     true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid role",
		},
		{
			name:           "duplicate email",
			requestBody:    `{"email":"taken@example.com","password":"password123"}`,
			mockErr:        repository.ErrEmailExists,
			mockCalled:     true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "email already exists",
		},
		{
			name:           "missing email",
			requestBody:    `{"password":"password123"}`,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Email is a required field",
		},
		{
			name:           "invalid json",
			requestBody:    `not a json`,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock := new(RegistrationServiceMock)
			handler := New(newNoopLogger(), svcMock)

			if tt.mockCalled {
				svcMock.On("Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(tt.mockResult, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/registration/register", bytes.NewReader([]byte(tt.requestBody)))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}
			if tt.wantData != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				for k, v := range tt.wantData {
					assert.Equal(t, v, data[k])
				}
			}

			svcMock.AssertExpectations(t)
		})
	}
}
