package author

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locallibrary/internal/catalog"
)

func TestHTTPHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	mockRepo.EXPECT().
		List(gomock.Any(), Query{Limit: 3, Offset: 3}).
		Return([]catalog.Author{{ID: 4, FirstName: "Isaac", LastName: "Asimov"}}, 4, nil)

	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/v1/authors?page=2", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"last_name":"Asimov"`)
	assert.Contains(t, w.Body.String(), `"total_pages":2`)
}

func TestHTTPHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/authors/{id}", handler.Get)

	t.Run("with books", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(1)).
			Return(catalog.Author{ID: 1, FirstName: "Ursula", LastName: "Le Guin"}, nil)
		mockRepo.EXPECT().ListBooks(gomock.Any(), int64(1)).
			Return([]catalog.Book{{
				ID:    2,
				Title: "The Dispossessed",
				Genres: []catalog.Genre{
					{ID: 1, Name: "Science Fiction"},
					{ID: 2, Name: "Utopia"},
				},
			}}, nil)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/authors/1", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"display_genre":"Science Fiction, Utopia"`)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(9)).Return(catalog.Author{}, ErrNotFound)

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/authors/9", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	tests := []struct {
		name           string
		body           string
		setupMock      func()
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "created with dates",
			body: `{"first_name":"Isaac","last_name":"Asimov","date_of_birth":"1920-01-02","date_of_death":"04/06/1992"}`,
			setupMock: func() {
				mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, a *catalog.Author) error {
						assert.Equal(t, catalog.Date(1920, 1, 2), *a.DateOfBirth)
						assert.Equal(t, catalog.Date(1992, 4, 6), *a.DateOfDeath)
						a.ID = 11
						return nil
					})
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":11`,
		},
		{
			name:           "missing last name",
			body:           `{"first_name":"Isaac"}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"field":"last_name"`,
		},
		{
			name:           "bad date",
			body:           `{"first_name":"Isaac","last_name":"Asimov","date_of_birth":"yesterday"}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"field":"date_of_birth"`,
		},
		{
			name:           "death before birth",
			body:           `{"first_name":"Isaac","last_name":"Asimov","date_of_birth":"1992-04-06","date_of_death":"1920-01-02"}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"code":"before_birth"`,
		},
		{
			name: "store error",
			body: `{"first_name":"Isaac","last_name":"Asimov"}`,
			setupMock: func() {
				mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()
			w := httptest.NewRecorder()
			handler.Create(w, httptest.NewRequest(http.MethodPost, "/v1/authors", strings.NewReader(tt.body)))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestHTTPHandler_UpdateAndDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	mux := http.NewServeMux()
	mux.HandleFunc("PUT /v1/authors/{id}", handler.Update)
	mux.HandleFunc("DELETE /v1/authors/{id}", handler.Delete)

	mockRepo.EXPECT().Update(gomock.Any(), &catalog.Author{ID: 5, FirstName: "Jane", LastName: "Austen"}).Return(nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/v1/authors/5",
		strings.NewReader(`{"first_name":" Jane","last_name":"Austen "}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(ErrNotFound)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/v1/authors/6",
		strings.NewReader(`{"first_name":"A","last_name":"B"}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)

	mockRepo.EXPECT().Delete(gomock.Any(), int64(5)).Return(nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/authors/5", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
