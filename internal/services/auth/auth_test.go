package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	customjwt "github.com/vrxmike/biodata/internal/lib/jwt"
	"github.com/vrxmike/biodata/internal/lib/password"
	"github.com/vrxmike/biodata/internal/models"
	"github.com/vrxmike/biodata/internal/services/auth"
	"github.com/vrxmike/biodata/internal/storage/repository"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateRefreshToken(ctx context.Context, userUID string, refreshToken *string) error {
	args := m.Called(ctx, userUID, refreshToken)
	return args.Error(0)
}

// Мок для jwt.Maker
type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateAccessToken(userUID, role string) (string, error) {
	args := m.Called(userUID, role)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) GenerateRefreshToken(userUID, role string) (string, error) {
	args := m.Called(userUID, role)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseAccessToken(tokenStr string) (*customjwt.CustomClaims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

func (m *JwtMakerMock) ParseRefreshToken(tokenStr string) (*customjwt.CustomClaims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "correctpassword"
	hashedPassword, err := password.GetHash(rawPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	testUser := &models.User{
		UID:          "uid-123",
		Email:        "test@example.com",
		PasswordHash: hashedPassword,
		Role:         "standard_user",
	}

	tests := []struct {
		name        string
		email       string
		password    string
		setupMocks  func(r *UserRepoMock, j *JwtMakerMock)
		wantAccess  string
		wantRefresh string
		wantErr     error
	}{
		{
			name:     "successful login rotates refresh token",
			email:    "test@example.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(testUser, nil).Once()
				j.On("GenerateAccessToken", "uid-123", "standard_user").Return("access-123", nil).Once()
				j.On("GenerateRefreshToken", "uid-123", "standard_user").Return("refresh-123", nil).Once()
				r.On("UpdateRefreshToken", mock.Anything, "uid-123", mock.MatchedBy(func(tok *string) bool {
					return tok != nil && *tok == "refresh-123"
				})).Return(nil).Once()
			},
			wantAccess:  "access-123",
			wantRefresh: "refresh-123",
		},
		{
			name:     "unknown email yields generic error",
			email:    "nobody@example.com",
			password: "whatever",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "nobody@example.com").
					Return(nil, repository.ErrUserNotFound).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "wrong password yields the same generic error",
			email:    "test@example.com",
			password: "wrongpassword",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(testUser, nil).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "token generation error",
			email:    "test@example.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(testUser, nil).Once()
				j.On("GenerateAccessToken", "uid-123", "standard_user").Return("", errors.New("token error")).Once()
			},
			wantErr: errors.New("token error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := auth.NewAuthService(repo, jwtMock, newNoopLogger())

			tt.setupMocks(repo, jwtMock)

			access, refresh, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantAccess, access)
				assert.Equal(t, tt.wantRefresh, refresh)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	storedRefresh := "stored-refresh-token"
	claims := &customjwt.CustomClaims{UserUID: "uid-123", Role: "standard_user"}

	tests := []struct {
		name       string
		token      string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantAccess string
		wantErr    error
	}{
		{
			name:  "valid refresh token",
			token: storedRefresh,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				j.On("ParseRefreshToken", storedRefresh).Return(claims, nil).Once()
				r.On("GetUser", mock.Anything, "uid-123").Return(&models.User{
					UID: "uid-123", Role: "standard_user", RefreshToken: &storedRefresh,
				}, nil).Once()
				j.On("GenerateAccessToken", "uid-123", "standard_user").Return("new-access", nil).Once()
			},
			wantAccess: "new-access",
		},
		{
			name:  "signature check failed",
			token: "garbage",
			setupMocks: func(_ *UserRepoMock, j *JwtMakerMock) {
				j.On("ParseRefreshToken", "garbage").Return(nil, errors.New("bad signature")).Once()
			},
			wantErr: auth.ErrInvalidRefreshToken,
		},
		{
			name:  "token rotated out by a newer login",
			token: "old-refresh-token",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				j.On("ParseRefreshToken", "old-refresh-token").Return(claims, nil).Once()
				r.On("GetUser", mock.Anything, "uid-123").Return(&models.User{
					UID: "uid-123", Role: "standard_user", RefreshToken: &storedRefresh,
				}, nil).Once()
			},
			wantErr: auth.ErrInvalidRefreshToken,
		},
		{
			name:  "no stored token after logout",
			token: storedRefresh,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				j.On("ParseRefreshToken", storedRefresh).Return(claims, nil).Once()
				r.On("GetUser", mock.Anything, "uid-123").Return(&models.User{
					UID: "uid-123", Role: "standard_user",
				}, nil).Once()
			},
			wantErr: auth.ErrInvalidRefreshToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := auth.NewAuthService(repo, jwtMock, newNoopLogger())

			tt.setupMocks(repo, jwtMock)

			access, err := svc.Refresh(context.Background(), tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantAccess, access)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	repo := new(UserRepoMock)
	jwtMock := new(JwtMakerMock)
	svc := auth.NewAuthService(repo, jwtMock, newNoopLogger())

	repo.On("UpdateRefreshToken", mock.Anything, "uid-123", (*string)(nil)).Return(nil).Once()

	assert.NoError(t, svc.Logout(context.Background(), "uid-123"))
	repo.AssertExpectations(t)
}
