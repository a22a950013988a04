package user

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locallibrary/internal/access"
	"locallibrary/internal/httpx"
)

func TestHTTPHandler_RegisterUser(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(m *MockRepository)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "created",
			body: `{"email":"Ana@Example.com","username":"ana","password":"Str0ng!Pass"}`,
			setupMock: func(m *MockRepository) {
				m.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(User{}, ErrNotFound)
				m.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, u *User) error {
					assert.NotEqual(t, "Str0ng!Pass", u.Password)
					u.ID = "u-9"
					return nil
				})
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":"u-9"`,
		},
		{
			name: "already registered",
			body: `{"email":"ana@example.com","username":"ana","password":"Str0ng!Pass"}`,
			setupMock: func(m *MockRepository) {
				m.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(User{ID: "u-1"}, nil)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "lookup failure",
			body: `{"email":"ana@example.com","username":"ana","password":"Str0ng!Pass"}`,
			setupMock: func(m *MockRepository) {
				m.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(User{}, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "weak password",
			body:           `{"email":"ana@example.com","username":"ana","password":"password"}`,
			setupMock:      func(*MockRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"code":"password_strength"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := NewMockRepository(ctrl)
			tt.setupMock(repo)
			handler := NewHTTPHandler(NewService(repo))

			w := httptest.NewRecorder()
			handler.RegisterUser(w, httptest.NewRequest(http.MethodPost, "/v1/users/register", strings.NewReader(tt.body)))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
			assert.NotContains(t, w.Body.String(), "password_hash")
		})
	}
}

func TestHTTPHandler_GetCurrentUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(repo))

	t.Run("with capabilities", func(t *testing.T) {
		repo.EXPECT().GetByID(gomock.Any(), "u-1").Return(User{ID: "u-1", Email: "lib@example.com", Password: "hash"}, nil)
		repo.EXPECT().ListCapabilities(gomock.Any(), "u-1").Return([]string{access.CanMarkReturned}, nil)

		r := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		r = r.WithContext(httpx.ContextWithPrincipal(r.Context(), access.Principal{UserID: "u-1"}))
		w := httptest.NewRecorder()
		handler.GetCurrentUser(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"capabilities":["catalog.can_mark_returned"]`)
		assert.NotContains(t, w.Body.String(), "hash")
	})

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.GetCurrentUser(w, httptest.NewRequest(http.MethodGet, "/v1/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deleted account", func(t *testing.T) {
		repo.EXPECT().GetByID(gomock.Any(), "gone").Return(User{}, ErrNotFound)

		r := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		r = r.WithContext(httpx.ContextWithPrincipal(r.Context(), access.Principal{UserID: "gone"}))
		w := httptest.NewRecorder()
		handler.GetCurrentUser(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
