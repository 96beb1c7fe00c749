package handlers_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"rfpflow/internal/errx"
	"rfpflow/internal/handlers"
	"rfpflow/internal/handlers/testutils"
	"rfpflow/internal/service"
	"rfpflow/models"
)

// MockStorage реализует StorageInterface
type MockStorage struct {
	getRfpErr       error
	deleteVendorErr error
	vendors         []models.Vendor
	proposals       []models.Proposal
}

func (m *MockStorage) GetRfp(ctx context.Context, id int) (*models.Rfp, error) {
	if m.getRfpErr != nil {
		return nil, m.getRfpErr
	}
	return &models.Rfp{ID: id, Title: "Test RFP", Description: "Desc", Status: models.RfpStatusDraft}, nil
}

func (m *MockStorage) GetRfps(ctx context.Context) ([]models.Rfp, error) {
	return []models.Rfp{{ID: 1, Title: "Sample RFP"}}, nil
}

func (m *MockStorage) CreateVendor(ctx context.Context, vendor *models.Vendor) error {
	vendor.ID = 7
	return nil
}

func (m *MockStorage) GetVendor(ctx context.Context, id int) (*models.Vendor, error) {
	return &models.Vendor{ID: id, Name: "Acme", Email: "acme@example.com"}, nil
}

func (m *MockStorage) GetVendors(ctx context.Context) ([]models.Vendor, error) {
	if m.vendors != nil {
		return m.vendors, nil
	}
	return []models.Vendor{{ID: 1, Name: "Acme", Email: "acme@example.com"}}, nil
}

func (m *MockStorage) UpdateVendor(ctx context.Context, vendor *models.Vendor) error { return nil }
func (m *MockStorage) DeleteVendor(ctx context.Context, id int) error {
	return m.deleteVendorErr
}

func (m *MockStorage) GetProposalsByRfp(ctx context.Context, rfpID int) ([]models.Proposal, error) {
	return m.proposals, nil
}

// MockService реализует ServiceInterface
type MockService struct {
	createErr   error
	dispatch    *service.DispatchResult
	dispatchErr error
	ingestErr   error
	compare     *service.ComparisonResult
	compareErr  error
}

func (m *MockService) CreateFromText(ctx context.Context, text string) (*models.Rfp, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.Rfp{ID: 1, Title: "Extracted RFP", Description: text, Status: models.RfpStatusDraft}, nil
}

func (m *MockService) Dispatch(ctx context.Context, rfpID int, vendorIDs []int) (*service.DispatchResult, error) {
	if m.dispatchErr != nil {
		return nil, m.dispatchErr
	}
	if m.dispatch != nil {
		return m.dispatch, nil
	}
	return &service.DispatchResult{
		Rfp: &models.Rfp{ID: rfpID, Status: models.RfpStatusSent},
		Results: []service.VendorSendResult{
			{VendorID: vendorIDs[0], Email: "acme@example.com", Success: true},
		},
	}, nil
}

func (m *MockService) IngestDirect(ctx context.Context, subject, body string) (*service.IngestDirectResult, error) {
	if m.ingestErr != nil {
		return nil, m.ingestErr
	}
	return &service.IngestDirectResult{
		Rfp:      &models.Rfp{ID: 1},
		Vendor:   &models.Vendor{ID: 2, Name: "Acme"},
		Proposal: &models.Proposal{ID: 3, RfpID: 1, VendorID: 2, RawEmailContent: body},
	}, nil
}

func (m *MockService) IngestBatch(ctx context.Context) ([]service.IngestionResult, error) {
	return []service.IngestionResult{
		{MessageID: "1", Status: service.IngestionStatusIngested},
		{MessageID: "2", Status: service.IngestionStatusSkipped, Reason: "no correlation tags in subject"},
	}, nil
}

func (m *MockService) Compare(ctx context.Context, rfpID int) (*service.ComparisonResult, error) {
	if m.compareErr != nil {
		return nil, m.compareErr
	}
	if m.compare != nil {
		return m.compare, nil
	}
	return &service.ComparisonResult{RfpID: rfpID, RfpTitle: "Test RFP", Reasoning: "only one"}, nil
}

func newHandler(store *MockStorage, svc *MockService) *handlers.Handler {
	if store == nil {
		store = &MockStorage{}
	}
	if svc == nil {
		svc = &MockService{}
	}
	return handlers.NewHandler(store, svc)
}

func TestCreateRfpFromTextHandler(t *testing.T) {
	handler := newHandler(nil, nil)

	reqBody := `{"description": "Need 10 laptops, budget $20000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/rfps/from-text", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.CreateRfpFromTextHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.Contains(t, string(body), "Extracted RFP")
	require.Contains(t, string(body), "Need 10 laptops")
}

func TestCreateRfpFromTextHandlerEmptyDescription(t *testing.T) {
	handler := newHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/rfps/from-text", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	handler.CreateRfpFromTextHandler(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestCreateRfpFromTextHandlerUpstreamFailure(t *testing.T) {
	handler := newHandler(nil, &MockService{createErr: errx.New(errx.ErrUpstreamUnavailable, "model down")})

	req := httptest.NewRequest(http.MethodPost, "/api/rfps/from-text", strings.NewReader(`{"description":"x"}`))
	w := httptest.NewRecorder()

	handler.CreateRfpFromTextHandler(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
}

func TestGetRfpsHandler(t *testing.T) {
	handler := newHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/rfps", nil)
	w := httptest.NewRecorder()

	handler.GetRfpsHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "Sample RFP")
}

func TestGetRfpHandlerInvalidID(t *testing.T) {
	handler := newHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/rfps/abc", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"rfpId": "abc"})
	w := httptest.NewRecorder()

	handler.GetRfpHandler(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestSendRfpHandler(t *testing.T) {
	handler := newHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/rfps/1/send", strings.NewReader(`{"vendorIds":[2]}`))
	req.Header.Set("Content-Type", "application/json")
	req = testutils.WithChiURLParams(req, map[string]string{"rfpId": "1"})
	w := httptest.NewRecorder()

	handler.SendRfpHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), `"success":true`)
	require.Contains(t, string(body), "SENT")
}

func TestSendRfpHandlerEmptyVendorList(t *testing.T) {
	handler := newHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/rfps/1/send", strings.NewReader(`{"vendorIds":[]}`))
	req = testutils.WithChiURLParams(req, map[string]string{"rfpId": "1"})
	w := httptest.NewRecorder()

	handler.SendRfpHandler(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestSendRfpHandlerUnknownVendor(t *testing.T) {
	handler := newHandler(nil, &MockService{dispatchErr: errx.Newf(errx.ErrValidation, "unknown vendor ids: [9]")})

	req := httptest.NewRequest(http.MethodPost, "/api/rfps/1/send", strings.NewReader(`{"vendorIds":[9]}`))
	req = testutils.WithChiURLParams(req, map[string]string{"rfpId": "1"})
	w := httptest.NewRecorder()

	handler.SendRfpHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Contains(t, string(body), "unknown vendor ids")
}

func TestProcessRepliesHandler(t *testing.T) {
	handler := newHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/rfps/process-replies", nil)
	w := httptest.NewRecorder()

	handler.ProcessRepliesHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "ingested")
	require.Contains(t, string(body), "skipped")
}

func TestGetRfpComparisonHandler(t *testing.T) {
	handler := newHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/rfps/1/comparison", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"rfpId": "1"})
	w := httptest.NewRecorder()

	handler.GetRfpComparisonHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "Test RFP")
}

func TestGetRfpComparisonHandlerNoProposals(t *testing.T) {
	handler := newHandler(nil, &MockService{compareErr: errx.Newf(errx.ErrNoProposals, "rfp 1 has no proposals to compare")})

	req := httptest.NewRequest(http.MethodGet, "/api/rfps/1/comparison", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"rfpId": "1"})
	w := httptest.NewRecorder()

	handler.GetRfpComparisonHandler(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestIngestProposalHandler(t *testing.T) {
	handler := newHandler(nil, nil)

	reqBody := `{"subject": "Re: RFP [RFP-ID:1] [VENDOR-ID:2]", "body": "our offer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/proposals/ingest", strings.NewReader(reqBody))
	w := httptest.NewRecorder()

	handler.IngestProposalHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.Contains(t, string(body), "our offer")
}

func TestIngestProposalHandlerNoCorrelation(t *testing.T) {
	handler := newHandler(nil, &MockService{ingestErr: errx.New(errx.ErrCorrelationNotFound, "subject has no correlation tags")})

	reqBody := `{"subject": "hello", "body": "our offer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/proposals/ingest", strings.NewReader(reqBody))
	w := httptest.NewRecorder()

	handler.IngestProposalHandler(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestGetProposalsByRfpHandler(t *testing.T) {
	notes := "includes setup"
	store := &MockStorage{proposals: []models.Proposal{
		{ID: 1, RfpID: 1, VendorID: 2, Notes: &notes, Vendor: &models.Vendor{ID: 2, Name: "Acme"}},
	}}
	handler := newHandler(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/proposals/by-rfp/1", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"rfpId": "1"})
	w := httptest.NewRecorder()

	handler.GetProposalsByRfpHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "Acme")
	require.Contains(t, string(body), "includes setup")
}

func TestCreateVendorHandler(t *testing.T) {
	handler := newHandler(nil, nil)

	reqBody := `{"name": "Acme", "email": "acme@example.com", "category": "hardware"}`
	req := httptest.NewRequest(http.MethodPost, "/api/vendors", strings.NewReader(reqBody))
	w := httptest.NewRecorder()

	handler.CreateVendorHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.Contains(t, string(body), "Acme")
}

func TestCreateVendorHandlerInvalidEmail(t *testing.T) {
	handler := newHandler(nil, nil)

	reqBody := `{"name": "Acme", "email": "not-an-email"}`
	req := httptest.NewRequest(http.MethodPost, "/api/vendors", strings.NewReader(reqBody))
	w := httptest.NewRecorder()

	handler.CreateVendorHandler(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestUpdateVendorHandler(t *testing.T) {
	handler := newHandler(nil, nil)

	reqBody := `{"name": "Acme Updated"}`
	req := httptest.NewRequest(http.MethodPut, "/api/vendors/1", strings.NewReader(reqBody))
	req = testutils.WithChiURLParams(req, map[string]string{"vendorId": "1"})
	w := httptest.NewRecorder()

	handler.UpdateVendorHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(body), "Acme Updated")
}

func TestDeleteVendorHandler(t *testing.T) {
	handler := newHandler(nil, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/vendors/1", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"vendorId": "1"})
	w := httptest.NewRecorder()

	handler.DeleteVendorHandler(w, req)

	require.Equal(t, http.StatusNoContent, w.Result().StatusCode)
}

func TestDeleteVendorHandlerNotFound(t *testing.T) {
	handler := newHandler(&MockStorage{deleteVendorErr: sql.ErrNoRows}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/vendors/999", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"vendorId": "999"})
	w := httptest.NewRecorder()

	handler.DeleteVendorHandler(w, req)

	require.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestDeleteVendorHandlerStorageFailure(t *testing.T) {
	handler := newHandler(&MockStorage{deleteVendorErr: errors.New("connection reset")}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/vendors/1", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"vendorId": "1"})
	w := httptest.NewRecorder()

	handler.DeleteVendorHandler(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
}
