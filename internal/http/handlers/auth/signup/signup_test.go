package signup

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

func (m *AuthServiceMock) Signup(ctx context.Context, fullname, email, phoneNumber,
	password, confirmPassword string) (*models.User, string, error) {
	args := m.Called(ctx, fullname, email, phoneNumber, password, confirmPassword)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validRequest() Request {
	return Request{
		Fullname:        "Test User",
		Email:           "user@example.com",
		PhoneNumber:     "+14155551234",
		Password:        "password123",
		ConfirmPassword: "password123",
	}
}

func TestSignupHandler_ServeHTTP(t *testing.T) {
	newUser := &models.User{
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
			name:           "valid signup",
			requestBody:    validRequest(),
			mockUser:       newUser,
			mockToken:      "tok",
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
			wantMessage:    "Registered successfully",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "invalid request body",
		},
		{
			name: "validation error - missing confirm_password",
			requestBody: Request{
				Fullname:    "Test User",
				Email:       "user@example.com",
				PhoneNumber: "+14155551234",
				Password:    "password123",
			},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "field ConfirmPassword is a required field",
		},
		{
			name:           "password mismatch",
			requestBody:    func() Request { r := validRequest(); r.ConfirmPassword = "other456"; return r }(),
			mockErr:        services.ErrPasswordMismatch,
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "passwords do not match",
		},
		{
			name:           "email already registered",
			requestBody:    validRequest(),
			mockErr:        services.ErrEmailTaken,
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "email already registered",
		},
		{
			name:           "store failure",
			requestBody:    validRequest(),
			mockErr:        assert.AnError,
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "failed to create user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			handler := New(newNoopLogger(), authMock)

			if req, ok := tt.requestBody.(Request); ok && req.ConfirmPassword != "" {
				authMock.On("Signup", mock.Anything, req.Fullname, req.Email,
					req.PhoneNumber, req.Password, req.ConfirmPassword).
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

			req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader(bodyBytes))
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
				assert.NotContains(t, user, "password_hash")
				assert.NotContains(t, user, "uid")
			}
			authMock.AssertExpectations(t)
		})
	}
}
