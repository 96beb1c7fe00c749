package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rfpflow/internal/ai"
	"rfpflow/internal/errx"
	"rfpflow/internal/outcome"
	"rfpflow/models"
	logx "rfpflow/pkg/logger"
)

const rfpSummaryMaxLen = 280

type ComparedProposal struct {
	ProposalID int     `json:"proposalId"`
	VendorID   int     `json:"vendorId"`
	VendorName string  `json:"vendorName"`
	Score      float64 `json:"score"`
	Strengths  string  `json:"strengths"`
	Weaknesses string  `json:"weaknesses"`
}

type ComparisonResult struct {
	RfpID                 int                `json:"rfpId"`
	RfpTitle              string             `json:"rfpTitle"`
	RfpSummary            string             `json:"rfpSummary"`
	Proposals             []ComparedProposal `json:"proposals"`
	RecommendedProposalID *int               `json:"recommendedProposalId"`
	RecommendedVendorID   *int               `json:"recommendedVendorId"`
	Reasoning             string             `json:"reasoning"`
}

// Compare оценивает все предложения по одному RFP и записывает балл
// и обоснование обратно в строки предложений. Отказ записи по одной
// строке логируется и не прерывает остальные.
func (s *Service) Compare(ctx context.Context, rfpID int) (*ComparisonResult, error) {
	rfp, err := s.store.GetRfp(ctx, rfpID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errx.Newf(errx.ErrNotFound, "rfp %d not found", rfpID)
		}
		return nil, err
	}

	proposals, err := s.store.GetProposalsByRfp(ctx, rfpID)
	if err != nil {
		return nil, err
	}
	if len(proposals) == 0 {
		return nil, errx.Newf(errx.ErrNoProposals, "rfp %d has no proposals to compare", rfpID)
	}

	input := ai.ComparisonInput{
		Rfp: ai.RfpContext{
			RfpID:                rfp.ID,
			Title:                rfp.Title,
			Budget:               rfp.Budget,
			DeliveryTimelineDays: rfp.DeliveryTimelineDays,
			PaymentTerms:         rfp.PaymentTerms,
			WarrantyMonths:       rfp.WarrantyMonths,
		},
	}
	byID := make(map[int]models.Proposal, len(proposals))
	for _, p := range proposals {
		byID[p.ID] = p
		pc := ai.ProposalContext{
			ProposalID:     p.ID,
			VendorID:       p.VendorID,
			TotalPrice:     p.TotalPrice,
			DeliveryDays:   p.DeliveryDays,
			PaymentTerms:   p.PaymentTerms,
			WarrantyMonths: p.WarrantyMonths,
			Notes:          p.Notes,
		}
		if p.Vendor != nil {
			pc.VendorName = p.Vendor.Name
		}
		input.Proposals = append(input.Proposals, pc)
	}

	result, err := s.extractor.Compare(ctx, input)
	if err != nil {
		return nil, err
	}

	// Сверка: балл и обоснование пишутся по каждому предложению независимо.
	writeResults := outcome.Settle(result.Proposals, func(sp ai.ScoredProposal) (int, error) {
		justification := fmt.Sprintf("Strengths: %s Weaknesses: %s", sp.Strengths, sp.Weaknesses)
		return sp.ProposalID, s.store.UpdateProposalScore(ctx, sp.ProposalID, sp.Score, justification)
	})
	for _, wr := range writeResults {
		if wr.Err != nil {
			logx.Warn().Err(wr.Err).Int("proposalId", wr.Value).Msg("failed to persist proposal score")
		}
	}

	response := &ComparisonResult{
		RfpID:                 rfp.ID,
		RfpTitle:              rfp.Title,
		RfpSummary:            summarize(rfp.Description),
		RecommendedProposalID: result.RecommendedProposalID,
		Reasoning:             result.Reasoning,
	}

	for _, sp := range result.Proposals {
		loaded, ok := byID[sp.ProposalID]
		if !ok {
			// Модель вернула id, которого нет среди загруженных предложений.
			logx.Warn().Int("proposalId", sp.ProposalID).Msg("scored proposal id does not match loaded set")
			continue
		}
		cp := ComparedProposal{
			ProposalID: sp.ProposalID,
			VendorID:   loaded.VendorID,
			Score:      sp.Score,
			Strengths:  sp.Strengths,
			Weaknesses: sp.Weaknesses,
		}
		if loaded.Vendor != nil {
			cp.VendorName = loaded.Vendor.Name
		}
		response.Proposals = append(response.Proposals, cp)
	}

	// Рекомендованный поставщик ищется в уже загруженном наборе;
	// несовпавший id дает null, а не ошибку.
	if result.RecommendedProposalID != nil {
		if loaded, ok := byID[*result.RecommendedProposalID]; ok {
			vendorID := loaded.VendorID
			response.RecommendedVendorID = &vendorID
		} else {
			logx.Warn().Int("proposalId", *result.RecommendedProposalID).Msg("recommended proposal id does not match loaded set")
		}
	}

	return response, nil
}

func summarize(description string) string {
	runes := []rune(description)
	if len(runes) <= rfpSummaryMaxLen {
		return description
	}
	return string(runes[:rfpSummaryMaxLen]) + "..."
}
