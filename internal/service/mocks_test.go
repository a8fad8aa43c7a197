package service

import (
	"context"
	"io"
	"sync"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/repository/contract"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of contract.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	args := m.Called(ctx, specs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error {
	args := m.Called(ctx, userId, hash)
	return args.Error(0)
}

func (m *MockUserRepository) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockUserRepository) FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error) {
	args := m.Called(ctx, specs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PasswordResetToken), args.Error(1)
}

func (m *MockUserRepository) MarkTokenUsed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockNoteRepository is a mock implementation of contract.NoteRepository.
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(ctx context.Context, note *entity.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepository) Update(ctx context.Context, note *entity.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNoteRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	args := m.Called(ctx, specs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Note), args.Error(1)
}

func (m *MockNoteRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	args := m.Called(ctx, specs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Note), args.Error(1)
}

// mockUnitOfWork hands the mocks back to the service under test.
// Begin/Commit/Rollback are no-ops: transaction boundaries are the
// GORM implementation's concern, not the services'.
type mockUnitOfWork struct {
	users *MockUserRepository
	notes *MockNoteRepository
}

func (u *mockUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *mockUnitOfWork) Commit() error                   { return nil }
func (u *mockUnitOfWork) Rollback() error                 { return nil }

func (u *mockUnitOfWork) UserRepository() contract.UserRepository {
	return u.users
}

func (u *mockUnitOfWork) NoteRepository() contract.NoteRepository {
	return u.notes
}

type mockFactory struct {
	uow *mockUnitOfWork
}

func (f *mockFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func newMockFactory() (*mockFactory, *MockUserRepository, *MockNoteRepository) {
	users := new(MockUserRepository)
	notes := new(MockNoteRepository)
	return &mockFactory{uow: &mockUnitOfWork{users: users, notes: notes}}, users, notes
}

// capturingPublisher records activity events without a broker.
type capturingPublisher struct {
	mu     sync.Mutex
	events []events.ActivityEvent
}

func (p *capturingPublisher) Publish(_ context.Context, event events.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

// stubEmailService records sends; ForgotPassword mails asynchronously
// so tests only assert on persisted state, never on delivery.
type stubEmailService struct {
	mu    sync.Mutex
	sends []string
}

func (s *stubEmailService) SendResetLink(toEmail, resetLink string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sends = append(s.sends, toEmail)
	return nil
}

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

// stubFileStorage tracks removals for the note service tests.
type stubFileStorage struct {
	removed []string
}

func (s *stubFileStorage) Save(originalName string, _ io.Reader) (string, error) {
	return "generated-" + originalName, nil
}

func (s *stubFileStorage) Remove(key string) error {
	s.removed = append(s.removed, key)
	return nil
}
