package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/auth-backend/internal/models"
	services "github.com/magabrotheeeer/auth-backend/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	storedUser := &models.User{
		UID:         "some-uuid-string",
		Fullname:    "Test User",
		Email:       "user@example.com",
		PhoneNumber: "+14155551234",
	}

	tests := []struct {
		name           string
		requestBody    any
		mockUser       *models.User
		mockToken      string
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
		wantMessage    string
	}{
		{
			name:           "valid login",
			requestBody:    Request{Email: "user@example.com", Password: "password123"},
			mockUser:       storedUser,
			mockToken:      "tok",
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
			wantMessage:    "Logged in successfully",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - missing password",
			requestBody:    Request{Email: "user@example.com"},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "field Password is a required field",
		},
		{
			name:           "invalid email format",
			requestBody:    Request{Email: "not-an-email", Password: "password123"},
			mockErr:        services.ErrInvalidEmail,
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "invalid email format",
		},
		{
			name:           "invalid credentials",
			requestBody:    Request{Email: "user@example.com", Password: "wrong"},
			mockErr:        services.ErrInvalidCredentials,
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "Invalid Username or Password. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			handler := New(newNoopLogger(), authMock)

			if req, ok := tt.requestBody.(Request); ok && req.Email != "" && req.Password != "" {
				authMock.On("Login", mock.Anything, req.Email, req.Password).
					Return(tt.mockUser, tt.mockToken, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp struct {
				Status string         `json:"status"`
				Error  string         `json:"error"`
				Data   map[string]any `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

			assert.Equal(t, tt.wantStatus, resp.Status)
			if tt.wantError != "" {
				assert.Contains(t, resp.Error, tt.wantError)
			}
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, resp.Data["message"])
				assert.Equal(t, "tok", resp.Data["token"])

				user, ok := resp.Data["user"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "Test User", user["fullname"])
				assert.Equal(t, "user@example.com", user["email"])
				assert.Equal(t, "+14155551234", user["phone_number"])
				// Хеш пароля и UID в ответ не попадают.
				assert.NotContains(t, user, "password_hash")
				assert.NotContains(t, user, "uid")
			}
			authMock.AssertExpectations(t)
		})
	}
}
