package service_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"rfpflow/internal/ai"
	"rfpflow/internal/mailer"
	"rfpflow/models"
)

// MockStorage реализует service.Storage
type MockStorage struct {
	mu sync.Mutex

	rfps      map[int]*models.Rfp
	vendors   map[int]*models.Vendor
	proposals []*models.Proposal
	nextID    int

	createRfpErr      error
	createProposalErr error
	updateScoreErr    map[int]error

	statusUpdates []string
	scoreUpdates  map[int]float64
	justUpdates   map[int]string
}

func NewMockStorage() *MockStorage {
	return &MockStorage{
		rfps:           map[int]*models.Rfp{},
		vendors:        map[int]*models.Vendor{},
		nextID:         1,
		updateScoreErr: map[int]error{},
		scoreUpdates:   map[int]float64{},
		justUpdates:    map[int]string{},
	}
}

func (m *MockStorage) addRfp(r *models.Rfp) *models.Rfp {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == 0 {
		r.ID = m.nextID
		m.nextID++
	}
	m.rfps[r.ID] = r
	return r
}

func (m *MockStorage) addVendor(v *models.Vendor) *models.Vendor {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v.ID == 0 {
		v.ID = m.nextID
		m.nextID++
	}
	m.vendors[v.ID] = v
	return v
}

func (m *MockStorage) addProposal(p *models.Proposal) *models.Proposal {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		p.ID = m.nextID
		m.nextID++
	}
	m.proposals = append(m.proposals, p)
	return p
}

func (m *MockStorage) CreateRfp(ctx context.Context, r *models.Rfp) error {
	if m.createRfpErr != nil {
		return m.createRfpErr
	}
	m.addRfp(r)
	return nil
}

func (m *MockStorage) GetRfp(ctx context.Context, id int) (*models.Rfp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rfps[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *r
	return &copied, nil
}

func (m *MockStorage) UpdateRfpStatus(ctx context.Context, id int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rfps[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Status = status
	m.statusUpdates = append(m.statusUpdates, status)
	return nil
}

func (m *MockStorage) GetVendor(ctx context.Context, id int) (*models.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vendors[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *v
	return &copied, nil
}

func (m *MockStorage) GetVendorsByIDs(ctx context.Context, ids []int) ([]models.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Vendor
	for _, id := range ids {
		if v, ok := m.vendors[id]; ok {
			result = append(result, *v)
		}
	}
	return result, nil
}

func (m *MockStorage) CreateProposal(ctx context.Context, p *models.Proposal) error {
	if m.createProposalErr != nil {
		return m.createProposalErr
	}
	m.addProposal(p)
	return nil
}

func (m *MockStorage) GetProposalsByRfp(ctx context.Context, rfpID int) ([]models.Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Proposal
	for _, p := range m.proposals {
		if p.RfpID == rfpID {
			copied := *p
			if v, ok := m.vendors[p.VendorID]; ok {
				vc := *v
				copied.Vendor = &vc
			}
			result = append(result, copied)
		}
	}
	return result, nil
}

func (m *MockStorage) UpdateProposalScore(ctx context.Context, proposalID int, score float64, justification string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.updateScoreErr[proposalID]; ok {
		return err
	}
	found := false
	for _, p := range m.proposals {
		if p.ID == proposalID {
			found = true
			break
		}
	}
	if !found {
		return sql.ErrNoRows
	}
	m.scoreUpdates[proposalID] = score
	m.justUpdates[proposalID] = justification
	return nil
}

// MockExtractor реализует service.Extractor
type MockExtractor struct {
	rfpFields      *ai.RfpFields
	rfpErr         error
	proposalFields *ai.ProposalFields
	proposalErr    error
	compareOutcome *ai.ComparisonOutcome
	compareErr     error

	compareCalls int
	lastInput    ai.ComparisonInput
	rfpTexts     []string
	bodyTexts    []string
	mu           sync.Mutex
}

func (m *MockExtractor) ExtractRfp(ctx context.Context, text string) (*ai.RfpFields, error) {
	m.mu.Lock()
	m.rfpTexts = append(m.rfpTexts, text)
	m.mu.Unlock()
	if m.rfpErr != nil {
		return nil, m.rfpErr
	}
	if m.rfpFields != nil {
		return m.rfpFields, nil
	}
	return &ai.RfpFields{}, nil
}

func (m *MockExtractor) ExtractProposal(ctx context.Context, text string) (*ai.ProposalFields, error) {
	m.mu.Lock()
	m.bodyTexts = append(m.bodyTexts, text)
	m.mu.Unlock()
	if m.proposalErr != nil {
		return nil, m.proposalErr
	}
	if m.proposalFields != nil {
		return m.proposalFields, nil
	}
	return &ai.ProposalFields{}, nil
}

func (m *MockExtractor) Compare(ctx context.Context, input ai.ComparisonInput) (*ai.ComparisonOutcome, error) {
	m.mu.Lock()
	m.compareCalls++
	m.lastInput = input
	m.mu.Unlock()
	if m.compareErr != nil {
		return nil, m.compareErr
	}
	return m.compareOutcome, nil
}

// MockSender реализует mailer.Sender
type MockSender struct {
	mu     sync.Mutex
	sent   []mailer.Outbound
	failTo map[string]error
}

func NewMockSender() *MockSender {
	return &MockSender{failTo: map[string]error{}}
}

func (m *MockSender) Send(ctx context.Context, msg mailer.Outbound) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failTo[msg.To]; ok {
		return "", err
	}
	m.sent = append(m.sent, msg)
	return "msg-id", nil
}

func (m *MockSender) Sent() []mailer.Outbound {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Outbound(nil), m.sent...)
}

// MockInbox реализует mailer.Inbox и mailer.InboxOpener
type MockInbox struct {
	messages    []mailer.RawMessage
	listErr     error
	openErr     error
	markSeenErr error

	seen   []string
	closed bool
}

func (m *MockInbox) Open(ctx context.Context) (mailer.Inbox, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m, nil
}

func (m *MockInbox) ListUnread(ctx context.Context) ([]mailer.RawMessage, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.messages, nil
}

func (m *MockInbox) MarkSeen(ctx context.Context, id string) error {
	if m.markSeenErr != nil {
		return m.markSeenErr
	}
	m.seen = append(m.seen, id)
	return nil
}

func (m *MockInbox) Close() error {
	m.closed = true
	return nil
}

var errSendFailed = errors.New("smtp: connection refused")
