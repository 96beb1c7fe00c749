package handlers

import (
	"context"

	"rfpflow/internal/service"
	"rfpflow/models"
)

type StorageInterface interface {
	GetRfp(ctx context.Context, id int) (*models.Rfp, error)
	GetRfps(ctx context.Context) ([]models.Rfp, error)

	CreateVendor(ctx context.Context, vendor *models.Vendor) error
	GetVendor(ctx context.Context, id int) (*models.Vendor, error)
	GetVendors(ctx context.Context) ([]models.Vendor, error)
	UpdateVendor(ctx context.Context, vendor *models.Vendor) error
	DeleteVendor(ctx context.Context, id int) error

	GetProposalsByRfp(ctx context.Context, rfpID int) ([]models.Proposal, error)
}

// ServiceInterface — ядро жизненного цикла RFP, см. internal/service.
type ServiceInterface interface {
	CreateFromText(ctx context.Context, text string) (*models.Rfp, error)
	Dispatch(ctx context.Context, rfpID int, vendorIDs []int) (*service.DispatchResult, error)
	IngestDirect(ctx context.Context, subject, body string) (*service.IngestDirectResult, error)
	IngestBatch(ctx context.Context) ([]service.IngestionResult, error)
	Compare(ctx context.Context, rfpID int) (*service.ComparisonResult, error)
}
