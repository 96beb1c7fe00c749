package service

import (
	"context"

	"rfpflow/internal/ai"
	"rfpflow/internal/mailer"
	"rfpflow/models"
)

// Storage — срез хранилища, нужный ядру; реализуется db.Storage,
// в тестах подменяется моком.
type Storage interface {
	CreateRfp(ctx context.Context, r *models.Rfp) error
	GetRfp(ctx context.Context, id int) (*models.Rfp, error)
	UpdateRfpStatus(ctx context.Context, id int, status string) error

	GetVendor(ctx context.Context, id int) (*models.Vendor, error)
	GetVendorsByIDs(ctx context.Context, ids []int) ([]models.Vendor, error)

	CreateProposal(ctx context.Context, p *models.Proposal) error
	GetProposalsByRfp(ctx context.Context, rfpID int) ([]models.Proposal, error)
	UpdateProposalScore(ctx context.Context, proposalID int, score float64, justification string) error
}

// Extractor — структурированное извлечение через модель.
type Extractor interface {
	ExtractRfp(ctx context.Context, text string) (*ai.RfpFields, error)
	ExtractProposal(ctx context.Context, text string) (*ai.ProposalFields, error)
	Compare(ctx context.Context, input ai.ComparisonInput) (*ai.ComparisonOutcome, error)
}

// Service — ядро жизненного цикла RFP: создание, рассылка,
// прием предложений и сравнение.
type Service struct {
	store     Storage
	extractor Extractor
	sender    mailer.Sender
	inbox     mailer.InboxOpener
}

func New(store Storage, extractor Extractor, sender mailer.Sender, inbox mailer.InboxOpener) *Service {
	return &Service{
		store:     store,
		extractor: extractor,
		sender:    sender,
		inbox:     inbox,
	}
}
