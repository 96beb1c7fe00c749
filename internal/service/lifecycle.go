package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html"
	"strings"

	"rfpflow/internal/correlation"
	"rfpflow/internal/errx"
	"rfpflow/internal/mailer"
	"rfpflow/internal/outcome"
	"rfpflow/models"
	logx "rfpflow/pkg/logger"
)

const untitledRfpTitle = "Untitled RFP"

// CreateFromText извлекает поля RFP из свободного текста и сохраняет черновик.
// Исходный текст сохраняется в description дословно, что бы модель ни вернула.
func (s *Service) CreateFromText(ctx context.Context, text string) (*models.Rfp, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errx.New(errx.ErrValidation, "description text is required")
	}

	fields, err := s.extractor.ExtractRfp(ctx, text)
	if err != nil {
		return nil, err
	}

	title := untitledRfpTitle
	if fields.Title != nil && strings.TrimSpace(*fields.Title) != "" {
		title = strings.TrimSpace(*fields.Title)
	}

	rfp := &models.Rfp{
		Title:                title,
		Description:          text,
		Budget:               fields.Budget,
		DeliveryTimelineDays: fields.DeliveryTimelineDays,
		PaymentTerms:         fields.PaymentTerms,
		WarrantyMonths:       fields.WarrantyMonths,
		Status:               models.RfpStatusDraft,
	}
	if err := s.store.CreateRfp(ctx, rfp); err != nil {
		return nil, err
	}
	return rfp, nil
}

// Исход отправки одному поставщику.
type VendorSendResult struct {
	VendorID int    `json:"vendorId"`
	Email    string `json:"email"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

type DispatchResult struct {
	Rfp     *models.Rfp        `json:"rfp"`
	Results []VendorSendResult `json:"results"`
}

// Dispatch рассылает RFP поставщикам. Список id проверяется целиком до
// первой отправки: частичное совпадение отклоняется. Отказ отдельной
// отправки не рушит пачку; статус переходит в SENT при хотя бы одном успехе.
func (s *Service) Dispatch(ctx context.Context, rfpID int, vendorIDs []int) (*DispatchResult, error) {
	if len(vendorIDs) == 0 {
		return nil, errx.New(errx.ErrValidation, "vendorIds must not be empty")
	}
	for _, id := range vendorIDs {
		if id <= 0 {
			return nil, errx.Newf(errx.ErrValidation, "invalid vendor id: %d", id)
		}
	}

	rfp, err := s.store.GetRfp(ctx, rfpID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errx.Newf(errx.ErrNotFound, "rfp %d not found", rfpID)
		}
		return nil, err
	}

	vendors, err := s.store.GetVendorsByIDs(ctx, vendorIDs)
	if err != nil {
		return nil, err
	}
	if len(vendors) == 0 {
		return nil, errx.New(errx.ErrValidation, "no matching vendors found")
	}
	if missing := missingIDs(vendorIDs, vendors); len(missing) > 0 {
		return nil, errx.Newf(errx.ErrValidation, "unknown vendor ids: %v", missing)
	}

	results := outcome.Settle(vendors, func(v models.Vendor) (VendorSendResult, error) {
		msg := buildRfpMail(rfp, v)
		if _, err := s.sender.Send(ctx, msg); err != nil {
			logx.Warn().Err(err).Int("vendorId", v.ID).Int("rfpId", rfp.ID).Msg("rfp dispatch failed for vendor")
			return VendorSendResult{VendorID: v.ID, Email: v.Email, Error: err.Error()}, err
		}
		return VendorSendResult{VendorID: v.ID, Email: v.Email, Success: true}, nil
	})

	sendResults := make([]VendorSendResult, len(results))
	for i, r := range results {
		sendResults[i] = r.Value
	}

	if outcome.AnySuccess(results) && rfp.Status != models.RfpStatusSent {
		if err := s.store.UpdateRfpStatus(ctx, rfp.ID, models.RfpStatusSent); err != nil {
			return nil, err
		}
		rfp.Status = models.RfpStatusSent
	}

	return &DispatchResult{Rfp: rfp, Results: sendResults}, nil
}

func missingIDs(requested []int, found []models.Vendor) []int {
	present := make(map[int]bool, len(found))
	for _, v := range found {
		present[v.ID] = true
	}

	seen := make(map[int]bool, len(requested))
	var missing []int
	for _, id := range requested {
		if !present[id] && !seen[id] {
			missing = append(missing, id)
			seen[id] = true
		}
	}
	return missing
}

func buildRfpMail(rfp *models.Rfp, vendor models.Vendor) mailer.Outbound {
	subject := fmt.Sprintf("RFP: %s %s", rfp.Title, correlation.Encode(rfp.ID, vendor.ID))

	var text strings.Builder
	fmt.Fprintf(&text, "Hello %s,\n\n", vendor.Name)
	fmt.Fprintf(&text, "We are requesting a proposal for the following:\n\n%s\n\n", rfp.Description)
	if rfp.Budget != nil {
		fmt.Fprintf(&text, "Budget: %.2f\n", *rfp.Budget)
	}
	if rfp.DeliveryTimelineDays != nil {
		fmt.Fprintf(&text, "Expected delivery: %d days\n", *rfp.DeliveryTimelineDays)
	}
	if rfp.PaymentTerms != nil {
		fmt.Fprintf(&text, "Payment terms: %s\n", *rfp.PaymentTerms)
	}
	if rfp.WarrantyMonths != nil {
		fmt.Fprintf(&text, "Warranty: %d months\n", *rfp.WarrantyMonths)
	}
	text.WriteString("\nPlease reply to this email with your proposal. Keep the subject line intact so we can match your reply.\n")

	htmlBody := fmt.Sprintf(
		"<p>Hello %s,</p><p>We are requesting a proposal for the following:</p><p>%s</p><p>Please reply to this email with your proposal. Keep the subject line intact so we can match your reply.</p>",
		html.EscapeString(vendor.Name), html.EscapeString(rfp.Description))

	return mailer.Outbound{
		To:       vendor.Email,
		Subject:  subject,
		TextBody: text.String(),
		HTMLBody: htmlBody,
	}
}
