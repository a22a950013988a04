package loan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"locallibrary/internal/access"
	"locallibrary/internal/catalog"
)

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RenewalOutcome(outcome string) {
	m.Called(outcome)
}

var (
	librarian = access.Principal{UserID: "lib-1", Capabilities: []string{access.CanMarkReturned}}
	patron    = access.Principal{UserID: "patron-1"}
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func onLoan(id uuid.UUID) catalog.BookInstance {
	due := catalog.Date(2024, time.January, 3)
	borrower := "patron-1"
	return catalog.BookInstance{
		ID:         id,
		BookID:     7,
		Book:       &catalog.Book{ID: 7, Title: "Dune"},
		Imprint:    "Ace, 1990",
		DueBack:    &due,
		Status:     catalog.StatusOnLoan,
		BorrowerID: &borrower,
	}
}

func newTestService(t *testing.T) (*Service, *MockRepository, *mockRecorder) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	repo := NewMockRepository(ctrl)
	rec := &mockRecorder{}
	t.Cleanup(func() { rec.AssertExpectations(t) })
	svc := NewService(repo, access.NewTokenAuthorizer()).
		WithClock(fixedClock(time.Date(2024, time.January, 1, 10, 30, 0, 0, time.UTC))).
		WithOutcomeRecorder(rec)
	return svc, repo, rec
}

func TestService_RenewalForm(t *testing.T) {
	svc, repo, _ := newTestService(t)
	id := uuid.New()
	repo.EXPECT().GetByID(gomock.Any(), id).Return(onLoan(id), nil)

	form, err := svc.RenewalForm(context.Background(), id, librarian)

	require.NoError(t, err)
	assert.Equal(t, AwaitingInput, form.State)
	assert.Equal(t, catalog.Date(2024, time.January, 22), form.RenewalDate)
	assert.Equal(t, "2024-01-22", form.Input)
	assert.Equal(t, id, form.Instance.ID)
}

func TestService_SubmitRenewal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantState RenewalState
		wantErr   error
		outcome   string
		persisted *time.Time
	}{
		{
			name:      "today is accepted",
			input:     "2024-01-01",
			wantState: Persisted,
			outcome:   OutcomeRenewed,
			persisted: ptrDate(2024, time.January, 1),
		},
		{
			name:      "mid window",
			input:     "2024-01-15",
			wantState: Persisted,
			outcome:   OutcomeRenewed,
			persisted: ptrDate(2024, time.January, 15),
		},
		{
			name:      "yesterday",
			input:     "2023-12-31",
			wantState: RedisplayWithError,
			wantErr:   ErrPastDate,
			outcome:   OutcomePastDate,
		},
		{
			name:      "beyond four weeks",
			input:     "2024-01-30",
			wantState: RedisplayWithError,
			wantErr:   ErrTooFarInFuture,
			outcome:   OutcomeTooFarInFuture,
		},
		{
			name:      "unparseable",
			input:     "next tuesday",
			wantState: RedisplayWithError,
			wantErr:   ErrInvalidInput,
			outcome:   OutcomeInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, rec := newTestService(t)
			id := uuid.New()
			original := onLoan(id)

			repo.EXPECT().GetByID(gomock.Any(), id).Return(original, nil)
			if tt.persisted != nil {
				repo.EXPECT().UpdateDueBack(gomock.Any(), id, *tt.persisted).Return(nil)
			}
			rec.On("RenewalOutcome", tt.outcome).Once()

			form, err := svc.SubmitRenewal(context.Background(), id, librarian, tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.wantState, form.State)
			assert.Equal(t, tt.input, form.Input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, form.Err, tt.wantErr)
				assert.Empty(t, form.RedirectTo)
				assert.Equal(t, original, form.Instance)
				return
			}

			assert.NoError(t, form.Err)
			assert.Equal(t, BorrowedPath, form.RedirectTo)
			assert.Equal(t, *tt.persisted, *form.Instance.DueBack)

			// Only due_back moves.
			want := original
			want.DueBack = tt.persisted
			assert.Equal(t, want, form.Instance)
		})
	}
}

func TestService_SubmitRenewal_Idempotent(t *testing.T) {
	svc, repo, rec := newTestService(t)
	id := uuid.New()
	date := catalog.Date(2024, time.January, 15)

	repo.EXPECT().GetByID(gomock.Any(), id).Return(onLoan(id), nil).Times(2)
	repo.EXPECT().UpdateDueBack(gomock.Any(), id, date).Return(nil).Times(2)
	rec.On("RenewalOutcome", OutcomeRenewed).Twice()

	first, err := svc.SubmitRenewal(context.Background(), id, librarian, "2024-01-15")
	require.NoError(t, err)
	second, err := svc.SubmitRenewal(context.Background(), id, librarian, "2024-01-15")
	require.NoError(t, err)

	assert.Equal(t, first.Instance, second.Instance)
}

func TestService_SubmitRenewal_Denied(t *testing.T) {
	inputs := []string{"2024-01-15", "2023-12-31", "garbage", ""}

	for _, input := range inputs {
		t.Run("patron "+input, func(t *testing.T) {
			svc, _, rec := newTestService(t)
			rec.On("RenewalOutcome", OutcomeForbidden).Once()

			form, err := svc.SubmitRenewal(context.Background(), uuid.New(), patron, input)

			assert.ErrorIs(t, err, ErrForbidden)
			assert.Equal(t, RenewalForm{}, form)
		})
	}

	t.Run("anonymous", func(t *testing.T) {
		svc, _, rec := newTestService(t)
		rec.On("RenewalOutcome", OutcomeUnauthenticated).Once()

		_, err := svc.SubmitRenewal(context.Background(), uuid.New(), access.Anonymous, "2024-01-15")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("custom authorizer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := NewMockRepository(ctrl)
		deny := access.AuthorizerFunc(func(context.Context, access.Principal, string) bool { return false })
		svc := NewService(repo, deny)

		_, err := svc.SubmitRenewal(context.Background(), uuid.New(), librarian, "2024-01-15")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestService_SubmitRenewal_NotFound(t *testing.T) {
	svc, repo, rec := newTestService(t)
	id := uuid.New()
	repo.EXPECT().GetByID(gomock.Any(), id).Return(catalog.BookInstance{}, ErrNotFound)
	rec.On("RenewalOutcome", OutcomeNotFound).Once()

	_, err := svc.SubmitRenewal(context.Background(), id, librarian, "2024-01-15")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_SubmitRenewal_StoreError(t *testing.T) {
	svc, repo, _ := newTestService(t)
	id := uuid.New()
	repo.EXPECT().GetByID(gomock.Any(), id).Return(onLoan(id), nil)
	repo.EXPECT().UpdateDueBack(gomock.Any(), id, gomock.Any()).Return(errors.New("connection reset"))

	_, err := svc.SubmitRenewal(context.Background(), id, librarian, "2024-01-15")
	assert.ErrorContains(t, err, "connection reset")
}

func TestService_ListBorrowedBy(t *testing.T) {
	svc, repo, _ := newTestService(t)

	overdue := onLoan(uuid.New())
	current := onLoan(uuid.New())
	current.DueBack = ptrDate(2024, time.January, 10)

	repo.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q Query) ([]catalog.BookInstance, int, error) {
			require.NotNil(t, q.Status)
			assert.Equal(t, catalog.StatusOnLoan, *q.Status)
			require.NotNil(t, q.BorrowerID)
			assert.Equal(t, "patron-1", *q.BorrowerID)
			assert.Equal(t, 2, q.Limit)
			return []catalog.BookInstance{overdue, current}, 2, nil
		})

	loans, total, err := svc.ListBorrowedBy(context.Background(), patron, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, loans, 2)
	assert.False(t, loans[0].IsOverdue, "due 2024-01-03 is not overdue on 2024-01-01")

	svc.WithClock(fixedClock(time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)))
	repo.EXPECT().List(gomock.Any(), gomock.Any()).Return([]catalog.BookInstance{overdue, current}, 2, nil)
	loans, _, err = svc.ListBorrowedBy(context.Background(), patron, 2, 0)
	require.NoError(t, err)
	assert.True(t, loans[0].IsOverdue)
	assert.False(t, loans[1].IsOverdue)
	assert.Equal(t, "On loan", loans[0].StatusLabel)

	_, _, err = svc.ListBorrowedBy(context.Background(), access.Anonymous, 2, 0)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestService_Create(t *testing.T) {
	svc, repo, _ := newTestService(t)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, bi *catalog.BookInstance) error {
		assert.NotEqual(t, uuid.Nil, bi.ID)
		assert.Equal(t, catalog.StatusMaintenance, bi.Status)
		return nil
	})

	created, err := svc.Create(context.Background(), catalog.BookInstance{BookID: 7, Imprint: "Ace"})
	require.NoError(t, err)
	assert.Equal(t, "Maintenance", created.StatusLabel)

	_, err = svc.Create(context.Background(), catalog.BookInstance{BookID: 7, Imprint: "Ace", Status: "x"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func ptrDate(y int, m time.Month, d int) *time.Time {
	t := catalog.Date(y, m, d)
	return &t
}
