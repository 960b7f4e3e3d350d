package app

import (
	"context"
	"strings"

	"github.com/Barry-Eisenberg/TicketFusion/internal/availability"
	"github.com/Barry-Eisenberg/TicketFusion/internal/clock"
	"github.com/Barry-Eisenberg/TicketFusion/internal/domain"
)

type CheckRepository interface {
	ListOrdersByEmail(ctx context.Context, email string) ([]domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListFacets(ctx context.Context) (events, theaters []string, err error)
}

// CheckService answers availability questions against the stored order
// history. The rule evaluation itself lives in the availability package;
// this layer only loads the snapshot and stamps the reference time.
type CheckService struct {
	repo  CheckRepository
	clock clock.Clock
}

func NewCheckService(repo CheckRepository, clk clock.Clock) *CheckService {
	return &CheckService{
		repo:  repo,
		clock: clk,
	}
}

type CheckAccountInput struct {
	Email       string
	Prospective domain.Prospective
}

func (s *CheckService) CheckAccount(ctx context.Context, in CheckAccountInput) (domain.Decision, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return domain.Decision{}, domain.ErrEmailRequired
	}
	if in.Prospective.Quantity < 0 {
		return domain.Decision{}, domain.ErrInvalidQuantity
	}

	orders, err := s.repo.ListOrdersByEmail(ctx, email)
	if err != nil {
		return domain.Decision{}, err
	}

	return availability.Check(availability.Input{
		Email:       email,
		Orders:      orders,
		Prospective: in.Prospective,
		Now:         s.clock.Now(),
	}), nil
}

type CheckAccountsInput struct {
	Emails      []string
	Prospective domain.Prospective
}

type AccountResult struct {
	Email    string
	Decision domain.Decision
}

type BatchResult struct {
	Results     []AccountResult
	Total       int
	Available   int
	Unavailable int
}

// CheckAccounts evaluates every email against one shared history snapshot
// and one reference time, so a batch is reproducible and each account sees
// the same data. Emails are deduplicated in first-seen order; the engine is
// pure, so results arrive in input order regardless of history size.
func (s *CheckService) CheckAccounts(ctx context.Context, in CheckAccountsInput) (BatchResult, error) {
	if in.Prospective.Quantity < 0 {
		return BatchResult{}, domain.ErrInvalidQuantity
	}

	seen := make(map[string]struct{})
	var emails []string
	for _, e := range in.Emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		emails = append(emails, e)
	}
	if len(emails) == 0 {
		return BatchResult{}, domain.ErrEmailRequired
	}

	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return BatchResult{}, err
	}
	now := s.clock.Now()

	result := BatchResult{Total: len(emails)}
	for _, email := range emails {
		decision := availability.Check(availability.Input{
			Email:       email,
			Orders:      orders,
			Prospective: in.Prospective,
			Now:         now,
		})
		if decision.Available {
			result.Available++
		} else {
			result.Unavailable++
		}
		result.Results = append(result.Results, AccountResult{Email: email, Decision: decision})
	}
	return result, nil
}

// Facets lists the distinct events and theaters present in the stored
// history, for populating pickers on the caller's side.
func (s *CheckService) Facets(ctx context.Context) (events, theaters []string, err error) {
	return s.repo.ListFacets(ctx)
}
