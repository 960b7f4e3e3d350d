package app

import (
	"context"
	"io"

	"github.com/Barry-Eisenberg/TicketFusion/internal/clock"
	"github.com/Barry-Eisenberg/TicketFusion/internal/domain"
	"github.com/Barry-Eisenberg/TicketFusion/internal/ingest"
)

type IngestRepository interface {
	UpsertOrders(ctx context.Context, orders []domain.Order) (int, error)
}

// IngestService imports order exports into storage. Re-importing the same
// export is harmless: rows carry a content hash and conflicting rows are
// updated in place.
type IngestService struct {
	repo  IngestRepository
	clock clock.Clock
}

func NewIngestService(repo IngestRepository, clk clock.Clock) *IngestService {
	return &IngestService{
		repo:  repo,
		clock: clk,
	}
}

// ImportOrdersCSV parses the export and upserts its rows, returning the
// number of rows written.
func (s *IngestService) ImportOrdersCSV(ctx context.Context, r io.Reader) (int, error) {
	orders, err := ingest.ReadOrders(r, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if len(orders) == 0 {
		return 0, domain.ErrEmptyImport
	}
	return s.repo.UpsertOrders(ctx, orders)
}
