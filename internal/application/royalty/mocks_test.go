package royalty

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inkhouse/backend/internal/domain/royalty"
	"github.com/inkhouse/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/mock"
)

// MockContractRepository is a mock implementation of royalty.ContractRepository
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindActiveByAuthor(ctx context.Context, tenantID, authorID uuid.UUID) (*royalty.Contract, error) {
	args := m.Called(ctx, tenantID, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*royalty.Contract), args.Error(1)
}

func (m *MockContractRepository) FindActiveAuthorIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockContractRepository) UpdateAdvance(ctx context.Context, contract *royalty.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

// MockRateTierRepository is a mock implementation of royalty.RateTierRepository
type MockRateTierRepository struct {
	mock.Mock
}

func (m *MockRateTierRepository) FindByContract(ctx context.Context, tenantID, contractID uuid.UUID) ([]royalty.RateTier, error) {
	args := m.Called(ctx, tenantID, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]royalty.RateTier), args.Error(1)
}

// MockSalesRepository is a mock implementation of royalty.SalesRepository
type MockSalesRepository struct {
	mock.Mock
}

func (m *MockSalesRepository) FindSales(ctx context.Context, tenantID, titleID uuid.UUID, format royalty.Format, period valueobject.Period) ([]royalty.SaleRecord, error) {
	args := m.Called(ctx, tenantID, titleID, format, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]royalty.SaleRecord), args.Error(1)
}

func (m *MockSalesRepository) FindReturns(ctx context.Context, tenantID, titleID uuid.UUID, format royalty.Format, period valueobject.Period) ([]royalty.ReturnRecord, error) {
	args := m.Called(ctx, tenantID, titleID, format, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]royalty.ReturnRecord), args.Error(1)
}

// MockAuthorRepository is a mock implementation of royalty.AuthorRepository
type MockAuthorRepository struct {
	mock.Mock
}

func (m *MockAuthorRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*royalty.Author, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*royalty.Author), args.Error(1)
}

// MockStatementRepository is a mock implementation of royalty.StatementRepository
type MockStatementRepository struct {
	mock.Mock
}

func (m *MockStatementRepository) Insert(ctx context.Context, statement *royalty.Statement) error {
	args := m.Called(ctx, statement)
	return args.Error(0)
}

func (m *MockStatementRepository) Update(ctx context.Context, statement *royalty.Statement) error {
	args := m.Called(ctx, statement)
	return args.Error(0)
}

func (m *MockStatementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*royalty.Statement, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*royalty.Statement), args.Error(1)
}

func (m *MockStatementRepository) FindByContractAndPeriod(ctx context.Context, tenantID, contractID uuid.UUID, period valueobject.Period) (*royalty.Statement, error) {
	args := m.Called(ctx, tenantID, contractID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*royalty.Statement), args.Error(1)
}

// fakeGate answers every permission check with a fixed verdict
type fakeGate struct {
	allow bool
	err   error
}

func (g *fakeGate) Allow(ctx context.Context, tenantID, userID uuid.UUID, permission string) (bool, error) {
	return g.allow, g.err
}

// fakeStorage is an in-memory object store safe for concurrent workers
type fakeStorage struct {
	mu          sync.RWMutex
	objects     map[string][]byte
	downloadErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

func (s *fakeStorage) Download(ctx context.Context, key string) ([]byte, error) {
	if s.downloadErr != nil {
		return nil, s.downloadErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("object not found: " + key)
	}
	return append([]byte(nil), data...), nil
}

func (s *fakeStorage) PresignDownload(ctx context.Context, key, filename string, expiresIn time.Duration) (string, error) {
	return fmt.Sprintf("https://files.test/%s?filename=%s", key, filename), nil
}

// fakeRenderer returns fixed document bytes
type fakeRenderer struct {
	err error
}

func (r *fakeRenderer) Render(statement *royalty.Statement, author *royalty.Author) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 test document"), nil
}

// fakeTransport records sent messages; the first failNext sends fail
type fakeTransport struct {
	mu       sync.Mutex
	sent     []EmailMessage
	failNext int
	failErr  error
}

func (t *fakeTransport) Send(ctx context.Context, msg EmailMessage) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failNext > 0 {
		t.failNext--
		if t.failErr != nil {
			return "", t.failErr
		}
		return "", errors.New("smtp: transient failure")
	}
	t.sent = append(t.sent, msg)
	return uuid.New().String(), nil
}

func (t *fakeTransport) sentCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sent)
}

func (t *fakeTransport) lastMessage() EmailMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sent[len(t.sent)-1]
}
