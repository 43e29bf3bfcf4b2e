package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"license-plate-service/internal/core/domain"
	ports "license-plate-service/internal/core/ports/output"
)

// MockJobRepo is a mock of JobRepository.
type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepo) List(ctx context.Context) ([]*domain.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Job), args.Error(1)
}

func (m *MockJobRepo) ListByStatus(ctx context.Context, status domain.JobStatus) ([]*domain.Job, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Job), args.Error(1)
}

func (m *MockJobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockResultRepo is a mock of InferenceResultRepository.
type MockResultRepo struct {
	mock.Mock
}

func (m *MockResultRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.InferenceResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InferenceResult), args.Error(1)
}

func (m *MockResultRepo) Latest(ctx context.Context, status domain.JobStatus) (*domain.InferenceResult, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InferenceResult), args.Error(1)
}

func (m *MockResultRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTransitions is a mock of JobTransitions.
type MockTransitions struct {
	mock.Mock
}

func (m *MockTransitions) MarkStarted(ctx context.Context, id uuid.UUID, userID uuid.UUID, withResult bool) error {
	args := m.Called(ctx, id, userID, withResult)
	return args.Error(0)
}

func (m *MockTransitions) MarkSuccess(ctx context.Context, id uuid.UUID, output *domain.InferenceOutput) error {
	args := m.Called(ctx, id, output)
	return args.Error(0)
}

func (m *MockTransitions) MarkSuccessWithReference(ctx context.Context, id uuid.UUID, referenceID uuid.UUID) error {
	args := m.Called(ctx, id, referenceID)
	return args.Error(0)
}

func (m *MockTransitions) MarkFailure(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepo is a mock of UserRepository.
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockModelRepo is a mock of ModelRepository.
type MockModelRepo struct {
	mock.Mock
}

func (m *MockModelRepo) Create(ctx context.Context, model *domain.Model) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

func (m *MockModelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Model, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Model), args.Error(1)
}

func (m *MockModelRepo) List(ctx context.Context) ([]*domain.Model, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Model), args.Error(1)
}

func (m *MockModelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRegistrationRepo is a mock of ModelRegistrationRepository.
type MockRegistrationRepo struct {
	mock.Mock
}

func (m *MockRegistrationRepo) Create(ctx context.Context, reg *domain.ModelRegistration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

func (m *MockRegistrationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ModelRegistration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelRegistration), args.Error(1)
}

func (m *MockRegistrationRepo) GetByModelID(ctx context.Context, modelID uuid.UUID) (*domain.ModelRegistration, error) {
	args := m.Called(ctx, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelRegistration), args.Error(1)
}

func (m *MockRegistrationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockArtifactStore is a mock of ArtifactStore.
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) PutFile(ctx context.Context, key string, path string, contentType string) error {
	args := m.Called(ctx, key, path, contentType)
	return args.Error(0)
}

func (m *MockArtifactStore) Get(ctx context.Context, key string, rangeHeader string) (*ports.ArtifactContent, error) {
	args := m.Called(ctx, key, rangeHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ArtifactContent), args.Error(1)
}

func (m *MockArtifactStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockDeployer is a mock of EndpointDeployer.
type MockDeployer struct {
	mock.Mock
}

func (m *MockDeployer) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockDeployer) Deploy(ctx context.Context, model *domain.Model, version string) (*ports.Endpoint, error) {
	args := m.Called(ctx, model, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.Endpoint), args.Error(1)
}

func (m *MockDeployer) Undeploy(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
