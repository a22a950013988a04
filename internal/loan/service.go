package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"locallibrary/internal/access"
	"locallibrary/internal/catalog"
)

// Renewal outcomes reported to the OutcomeRecorder.
const (
	OutcomeRenewed         = "renewed"
	OutcomeInvalid         = "invalid"
	OutcomePastDate        = "past_date"
	OutcomeTooFarInFuture  = "too_far_in_future"
	OutcomeForbidden       = "forbidden"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeNotFound        = "not_found"
)

type nopRecorder struct{}

func (nopRecorder) RenewalOutcome(string) {}

// Service provides loan views and the renewal workflow.
type Service struct {
	repo     Repository
	authz    access.Authorizer
	now      func() time.Time
	outcomes OutcomeRecorder
}

func NewService(repo Repository, authz access.Authorizer) *Service {
	return &Service{
		repo:     repo,
		authz:    authz,
		now:      time.Now,
		outcomes: nopRecorder{},
	}
}

// WithClock replaces the wall clock used to derive today.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) WithOutcomeRecorder(r OutcomeRecorder) *Service {
	s.outcomes = r
	return s
}

// Today is the current calendar day.
func (s *Service) Today() time.Time {
	return catalog.DateOf(s.now())
}

func (s *Service) authorizeRenewal(ctx context.Context, p access.Principal) error {
	if !s.authz.IsAuthenticated(ctx, p) {
		s.outcomes.RenewalOutcome(OutcomeUnauthenticated)
		return ErrUnauthenticated
	}
	if !s.authz.HasCapability(ctx, p, access.CanMarkReturned) {
		s.outcomes.RenewalOutcome(OutcomeForbidden)
		return ErrForbidden
	}
	return nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (catalog.BookInstance, error) {
	bi, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		s.outcomes.RenewalOutcome(OutcomeNotFound)
	}
	return bi, err
}

// RenewalForm opens a renewal attempt with the default proposed date.
func (s *Service) RenewalForm(ctx context.Context, id uuid.UUID, p access.Principal) (RenewalForm, error) {
	if err := s.authorizeRenewal(ctx, p); err != nil {
		return RenewalForm{}, err
	}
	bi, err := s.load(ctx, id)
	if err != nil {
		return RenewalForm{}, err
	}
	proposed := ProposedRenewalDate(s.Today())
	return RenewalForm{
		Instance:    bi,
		Input:       catalog.FormatDate(proposed),
		RenewalDate: proposed,
		State:       AwaitingInput,
	}, nil
}

// SubmitRenewal validates input and, when it is acceptable, stores it as the
// instance's new due date. A rejected date is reported through the returned
// form with a nil error and leaves the store untouched.
func (s *Service) SubmitRenewal(ctx context.Context, id uuid.UUID, p access.Principal, input string) (RenewalForm, error) {
	if err := s.authorizeRenewal(ctx, p); err != nil {
		return RenewalForm{}, err
	}
	bi, err := s.load(ctx, id)
	if err != nil {
		return RenewalForm{}, err
	}

	form := RenewalForm{Instance: bi, Input: input, State: Validating}

	proposed, err := ParseRenewalDate(input)
	if err == nil {
		proposed, err = ValidateRenewalDate(proposed, s.Today())
	}
	if err != nil {
		form.State = RedisplayWithError
		form.Err = err
		s.outcomes.RenewalOutcome(ErrorCode(err))
		return form, nil
	}

	if err := s.repo.UpdateDueBack(ctx, id, proposed); err != nil {
		return RenewalForm{}, fmt.Errorf("renew %s: %w", id, err)
	}
	bi.DueBack = &proposed
	form.Instance = bi
	form.RenewalDate = proposed
	form.State = Persisted
	form.RedirectTo = BorrowedPath
	s.outcomes.RenewalOutcome(OutcomeRenewed)
	return form, nil
}

func (s *Service) list(ctx context.Context, q Query) ([]Loan, int, error) {
	instances, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	today := s.Today()
	loans := make([]Loan, 0, len(instances))
	for _, bi := range instances {
		loans = append(loans, present(bi, today))
	}
	return loans, total, nil
}

// ListBorrowedBy lists the caller's books currently on loan, earliest due first.
func (s *Service) ListBorrowedBy(ctx context.Context, p access.Principal, limit, offset int) ([]Loan, int, error) {
	if !s.authz.IsAuthenticated(ctx, p) {
		return nil, 0, ErrUnauthenticated
	}
	status := catalog.StatusOnLoan
	borrower := p.UserID
	return s.list(ctx, Query{Status: &status, BorrowerID: &borrower, Limit: limit, Offset: offset})
}

// ListAllBorrowed lists every instance on loan, earliest due first.
func (s *Service) ListAllBorrowed(ctx context.Context, limit, offset int) ([]Loan, int, error) {
	status := catalog.StatusOnLoan
	return s.list(ctx, Query{Status: &status, Limit: limit, Offset: offset})
}

// List serves the operator listing with arbitrary filters.
func (s *Service) List(ctx context.Context, q Query) ([]Loan, int, error) {
	return s.list(ctx, q)
}

// Create registers a newly acquired copy.
func (s *Service) Create(ctx context.Context, bi catalog.BookInstance) (Loan, error) {
	if bi.Status == "" {
		bi.Status = catalog.DefaultStatus
	}
	if !bi.Status.Valid() {
		return Loan{}, ErrInvalidStatus
	}
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	if bi.DueBack != nil {
		d := catalog.DateOf(*bi.DueBack)
		bi.DueBack = &d
	}
	if err := s.repo.Create(ctx, &bi); err != nil {
		return Loan{}, err
	}
	return present(bi, s.Today()), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
