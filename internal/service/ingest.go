package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"rfpflow/internal/correlation"
	"rfpflow/internal/errx"
	"rfpflow/internal/mailer"
	"rfpflow/models"
	logx "rfpflow/pkg/logger"
)

type IngestDirectResult struct {
	Rfp      *models.Rfp      `json:"rfp"`
	Vendor   *models.Vendor   `json:"vendor"`
	Proposal *models.Proposal `json:"proposal"`
}

// IngestDirect принимает предложение напрямую: корреляция из темы,
// условия из тела. Тело сохраняется дословно.
func (s *Service) IngestDirect(ctx context.Context, subject, body string) (*IngestDirectResult, error) {
	rfpID, vendorID, ok := correlation.Decode(subject)
	if !ok {
		return nil, errx.New(errx.ErrCorrelationNotFound, "subject has no correlation tags")
	}

	rfp, vendor, err := s.loadCorrelated(ctx, rfpID, vendorID)
	if err != nil {
		return nil, err
	}

	proposal, err := s.extractAndPersist(ctx, rfp, vendor, body)
	if err != nil {
		return nil, err
	}

	return &IngestDirectResult{Rfp: rfp, Vendor: vendor, Proposal: proposal}, nil
}

// Статусы обработки одного входящего письма.
const (
	IngestionStatusIngested = "ingested"
	IngestionStatusSkipped  = "skipped"
)

type IngestionResult struct {
	MessageID string           `json:"messageId"`
	Subject   string           `json:"subject"`
	Status    string           `json:"status"`
	Reason    string           `json:"reason,omitempty"`
	Proposal  *models.Proposal `json:"proposal,omitempty"`
}

// IngestBatch обрабатывает все непрочитанные письма. Каждое письмо — своя
// единица работы: отказ одного не прерывает остальные, \Seen ставится
// только после успешного сохранения предложения.
//
// Дедупликации по message-id нет: если пачка запущена повторно до того,
// как флаг \Seen применился, одно письмо даст два предложения.
func (s *Service) IngestBatch(ctx context.Context) ([]IngestionResult, error) {
	inbox, err := s.inbox.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := inbox.Close(); err != nil {
			logx.Warn().Err(err).Msg("failed to close inbox session")
		}
	}()

	messages, err := inbox.ListUnread(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]IngestionResult, 0, len(messages))
	for _, msg := range messages {
		results = append(results, s.ingestOne(ctx, inbox, msg))
	}
	return results, nil
}

func (s *Service) ingestOne(ctx context.Context, inbox mailer.Inbox, msg mailer.RawMessage) IngestionResult {
	result := IngestionResult{MessageID: msg.ID, Subject: msg.Subject}

	skip := func(reason string, err error) IngestionResult {
		if err != nil {
			reason = fmt.Sprintf("%s: %v", reason, err)
		}
		logx.Warn().Str("messageId", msg.ID).Str("reason", reason).Msg("inbound message skipped")
		result.Status = IngestionStatusSkipped
		result.Reason = reason
		return result
	}

	rfpID, vendorID, ok := correlation.Decode(msg.Subject)
	if !ok {
		return skip("no correlation tags in subject", nil)
	}

	rfp, vendor, err := s.loadCorrelated(ctx, rfpID, vendorID)
	if err != nil {
		return skip("failed to resolve correlated entities", err)
	}

	proposal, err := s.extractAndPersist(ctx, rfp, vendor, msg.BestBody())
	if err != nil {
		return skip("failed to ingest proposal", err)
	}

	if err := inbox.MarkSeen(ctx, msg.ID); err != nil {
		// Предложение уже сохранено; письмо останется непрочитанным
		// и при следующем прогоне даст дубль.
		logx.Warn().Err(err).Str("messageId", msg.ID).Msg("failed to mark message seen")
	}

	result.Status = IngestionStatusIngested
	result.Proposal = proposal
	return result
}

// loadCorrelated грузит RFP и поставщика параллельно; ошибка называет
// отсутствующую сущность.
func (s *Service) loadCorrelated(ctx context.Context, rfpID, vendorID int) (*models.Rfp, *models.Vendor, error) {
	var (
		rfp    *models.Rfp
		vendor *models.Vendor
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.store.GetRfp(gctx, rfpID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errx.Newf(errx.ErrNotFound, "rfp %d not found", rfpID)
			}
			return err
		}
		rfp = r
		return nil
	})
	g.Go(func() error {
		v, err := s.store.GetVendor(gctx, vendorID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errx.Newf(errx.ErrNotFound, "vendor %d not found", vendorID)
			}
			return err
		}
		vendor = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return rfp, vendor, nil
}

func (s *Service) extractAndPersist(ctx context.Context, rfp *models.Rfp, vendor *models.Vendor, body string) (*models.Proposal, error) {
	fields, err := s.extractor.ExtractProposal(ctx, body)
	if err != nil {
		return nil, err
	}

	proposal := &models.Proposal{
		RfpID:           rfp.ID,
		VendorID:        vendor.ID,
		RawEmailContent: body,
		TotalPrice:      fields.TotalPrice,
		DeliveryDays:    fields.DeliveryDays,
		PaymentTerms:    fields.PaymentTerms,
		WarrantyMonths:  fields.WarrantyMonths,
		Notes:           normalizeNotes(fields.Notes),
	}
	if err := s.store.CreateProposal(ctx, proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

func normalizeNotes(notes *string) *string {
	if notes == nil || strings.TrimSpace(*notes) == "" {
		return nil
	}
	return notes
}
