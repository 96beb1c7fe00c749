package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"rfpflow/models"
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

// Rfp

func (s *Storage) CreateRfp(ctx context.Context, r *models.Rfp) error {
	query := `
        INSERT INTO rfp
            (title, description, budget, delivery_timeline_days, payment_terms, warranty_months, status)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at`
	return s.db.QueryRowContext(ctx, query,
		r.Title, r.Description, r.Budget, r.DeliveryTimelineDays, r.PaymentTerms, r.WarrantyMonths, r.Status).
		Scan(&r.ID, &r.CreatedAt)
}

func (s *Storage) GetRfp(ctx context.Context, id int) (*models.Rfp, error) {
	r := &models.Rfp{}
	query := `SELECT * FROM rfp WHERE id=$1`
	err := s.db.GetContext(ctx, r, query, id)
	return r, err
}

func (s *Storage) GetRfps(ctx context.Context) ([]models.Rfp, error) {
	rfps := []models.Rfp{}
	query := `SELECT * FROM rfp ORDER BY created_at DESC`
	err := s.db.SelectContext(ctx, &rfps, query)
	return rfps, err
}

func (s *Storage) UpdateRfpStatus(ctx context.Context, id int, status string) error {
	query := `UPDATE rfp SET status=$1 WHERE id=$2`
	_, err := s.db.ExecContext(ctx, query, status, id)
	return err
}

// Vendor

func (s *Storage) CreateVendor(ctx context.Context, v *models.Vendor) error {
	query := `
        INSERT INTO vendor (name, email, category)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return s.db.QueryRowContext(ctx, query, v.Name, v.Email, v.Category).
		Scan(&v.ID, &v.CreatedAt)
}

func (s *Storage) GetVendor(ctx context.Context, id int) (*models.Vendor, error) {
	v := &models.Vendor{}
	query := `SELECT * FROM vendor WHERE id=$1`
	err := s.db.GetContext(ctx, v, query, id)
	return v, err
}

func (s *Storage) GetVendors(ctx context.Context) ([]models.Vendor, error) {
	vendors := []models.Vendor{}
	query := `SELECT * FROM vendor ORDER BY created_at DESC`
	err := s.db.SelectContext(ctx, &vendors, query)
	return vendors, err
}

func (s *Storage) GetVendorsByIDs(ctx context.Context, ids []int) ([]models.Vendor, error) {
	if len(ids) == 0 {
		return []models.Vendor{}, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT * FROM vendor WHERE id IN (%s)`, strings.Join(placeholders, ", "))
	vendors := []models.Vendor{}
	err := s.db.SelectContext(ctx, &vendors, query, args...)
	return vendors, err
}

func (s *Storage) UpdateVendor(ctx context.Context, v *models.Vendor) error {
	query := `UPDATE vendor SET name=$1, email=$2, category=$3 WHERE id=$4`
	res, err := s.db.ExecContext(ctx, query, v.Name, v.Email, v.Category, v.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Storage) DeleteVendor(ctx context.Context, id int) error {
	query := `DELETE FROM vendor WHERE id=$1`
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Proposal

func (s *Storage) CreateProposal(ctx context.Context, p *models.Proposal) error {
	query := `
        INSERT INTO proposal
            (rfp_id, vendor_id, raw_email_content, total_price, delivery_days, payment_terms, warranty_months, notes)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at`
	return s.db.QueryRowContext(ctx, query,
		p.RfpID, p.VendorID, p.RawEmailContent, p.TotalPrice, p.DeliveryDays, p.PaymentTerms, p.WarrantyMonths, p.Notes).
		Scan(&p.ID, &p.CreatedAt)
}

// Строка результата join'а proposal + vendor
type proposalRow struct {
	models.Proposal
	VendorName     string         `db:"vendor_name"`
	VendorEmail    string         `db:"vendor_email"`
	VendorCategory sql.NullString `db:"vendor_category"`
}

func (s *Storage) GetProposalsByRfp(ctx context.Context, rfpID int) ([]models.Proposal, error) {
	query := `
        SELECT p.*, v.name AS vendor_name, v.email AS vendor_email, v.category AS vendor_category
        FROM proposal p
        JOIN vendor v ON p.vendor_id = v.id
        WHERE p.rfp_id = $1
        ORDER BY p.created_at DESC
    `
	rows := []proposalRow{}
	if err := s.db.SelectContext(ctx, &rows, query, rfpID); err != nil {
		return nil, err
	}

	proposals := make([]models.Proposal, 0, len(rows))
	for _, row := range rows {
		p := row.Proposal
		v := &models.Vendor{ID: p.VendorID, Name: row.VendorName, Email: row.VendorEmail}
		if row.VendorCategory.Valid {
			c := row.VendorCategory.String
			v.Category = &c
		}
		p.Vendor = v
		proposals = append(proposals, p)
	}
	return proposals, nil
}

func (s *Storage) UpdateProposalScore(ctx context.Context, proposalID int, score float64, justification string) error {
	query := `UPDATE proposal SET ai_score=$1, ai_justification=$2 WHERE id=$3`
	res, err := s.db.ExecContext(ctx, query, score, justification, proposalID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
