package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"license-plate-service/internal/core/domain"
	ports "license-plate-service/internal/core/ports/output"
	"license-plate-service/internal/testutil"
)

type registryFixture struct {
	svc      *RegistryService
	queue    *fakeQueue
	models   *testutil.MockModelRepo
	regs     *testutil.MockRegistrationRepo
	store    *testutil.MockArtifactStore
	deployer *testutil.MockDeployer
}

func newRegistryFixture(t *testing.T) *registryFixture {
	queue := &fakeQueue{}
	jobSvc, jobs, _, users, _ := newJobServiceForTest(queue)
	users.On("GetByEmail", mock.Anything, BootstrapUserEmail).Return(bootstrapUser(), nil).Maybe()
	jobs.On("Create", mock.Anything, mock.AnythingOfType("*domain.Job")).Return(nil).Maybe()

	models := new(testutil.MockModelRepo)
	regs := new(testutil.MockRegistrationRepo)
	store := new(testutil.MockArtifactStore)
	deployer := new(testutil.MockDeployer)

	return &registryFixture{
		svc:      NewRegistryService(jobSvc, models, regs, store, deployer, t.TempDir()),
		queue:    queue,
		models:   models,
		regs:     regs,
		store:    store,
		deployer: deployer,
	}
}

// runQueued executes the single dispatched task the way a worker slot would.
func (f *registryFixture) runQueued(t *testing.T) *TaskResult {
	require.Len(t, f.queue.tasks, 1)
	task := f.queue.tasks[0]
	res, err := task.Run(context.Background(), task.Job)
	require.NoError(t, err)
	return res
}

func TestRegistryService_SubmitUpload_EmptyName(t *testing.T) {
	f := newRegistryFixture(t)

	_, err := f.svc.SubmitUpload(context.Background(), "", "tensorflow", strings.NewReader("weights"))
	assert.ErrorIs(t, err, domain.ErrInvalidModelName)
	assert.Empty(t, f.queue.tasks)
}

func TestRegistryService_SubmitUpload_UnknownFramework(t *testing.T) {
	f := newRegistryFixture(t)

	_, err := f.svc.SubmitUpload(context.Background(), "plates", "cobol", strings.NewReader("weights"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFramework)
	assert.Empty(t, f.queue.tasks)
}

func TestRegistryService_SubmitUpload_EmptyPayload(t *testing.T) {
	f := newRegistryFixture(t)

	_, err := f.svc.SubmitUpload(context.Background(), "plates", "tensorflow", strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrEmptyPayload)
	assert.Empty(t, f.queue.tasks)
}

func TestRegistryService_SubmitUpload_StoresArchiveAndModel(t *testing.T) {
	f := newRegistryFixture(t)

	f.store.On("PutFile", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "models/") && strings.HasSuffix(key, "/plates")
	}), mock.AnythingOfType("string"), "application/octet-stream").Return(nil)
	f.models.On("Create", mock.Anything, mock.AnythingOfType("*domain.Model")).Return(nil)

	job, err := f.svc.SubmitUpload(context.Background(), "plates", "tensorflow", strings.NewReader("weights"))
	require.NoError(t, err)
	assert.Equal(t, domain.JobKindModelUpload, job.Kind)

	res := f.runQueued(t)
	require.NotNil(t, res.ReferenceID)
	f.store.AssertExpectations(t)
	f.models.AssertExpectations(t)
}

func TestRegistryService_SubmitRegistration_DeployerUnavailable(t *testing.T) {
	f := newRegistryFixture(t)

	f.deployer.On("IsAvailable").Return(false)

	_, err := f.svc.SubmitRegistration(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrDeployerUnavailable)
	assert.Empty(t, f.queue.tasks)
}

func TestRegistryService_SubmitRegistration_UnknownModel(t *testing.T) {
	f := newRegistryFixture(t)

	f.deployer.On("IsAvailable").Return(true)
	id := uuid.New()
	f.models.On("GetByID", mock.Anything, id).Return(nil, domain.ErrModelNotFound)

	_, err := f.svc.SubmitRegistration(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
	assert.Empty(t, f.queue.tasks)
}

func TestRegistryService_SubmitRegistration_DeploysEndpoint(t *testing.T) {
	f := newRegistryFixture(t)

	model := &domain.Model{ID: uuid.New(), Name: "plates", Framework: domain.FrameworkTensorFlow}
	f.deployer.On("IsAvailable").Return(true)
	f.models.On("GetByID", mock.Anything, model.ID).Return(model, nil)
	f.deployer.On("Deploy", mock.Anything, model, "1.0").Return(&ports.Endpoint{
		Name: "plate-model-" + model.ID.String(),
		URL:  "http://plates.example",
	}, nil)
	f.regs.On("Create", mock.Anything, mock.AnythingOfType("*domain.ModelRegistration")).Return(nil)

	job, err := f.svc.SubmitRegistration(context.Background(), model.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobKindModelRegistration, job.Kind)

	res := f.runQueued(t)
	require.NotNil(t, res.ReferenceID)
	f.deployer.AssertExpectations(t)
	f.regs.AssertExpectations(t)
}

func TestRegistryService_SubmitRegistration_CleansUpOrphanedEndpoint(t *testing.T) {
	f := newRegistryFixture(t)

	model := &domain.Model{ID: uuid.New(), Name: "plates", Framework: domain.FrameworkONNX}
	endpointName := "plate-model-" + model.ID.String()
	f.deployer.On("IsAvailable").Return(true)
	f.models.On("GetByID", mock.Anything, model.ID).Return(model, nil)
	f.deployer.On("Deploy", mock.Anything, model, "1.0").Return(&ports.Endpoint{Name: endpointName, URL: "http://x"}, nil)
	f.regs.On("Create", mock.Anything, mock.AnythingOfType("*domain.ModelRegistration")).Return(assert.AnError)
	f.deployer.On("Undeploy", mock.Anything, endpointName).Return(nil)

	_, err := f.svc.SubmitRegistration(context.Background(), model.ID)
	require.NoError(t, err)

	task := f.queue.tasks[0]
	_, runErr := task.Run(context.Background(), task.Job)
	assert.Error(t, runErr)
	f.deployer.AssertCalled(t, "Undeploy", mock.Anything, endpointName)
}

func TestRegistryService_DeleteRegistration(t *testing.T) {
	f := newRegistryFixture(t)

	reg := &domain.ModelRegistration{ID: uuid.New(), ModelID: uuid.New()}
	f.regs.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)
	f.deployer.On("IsAvailable").Return(true)
	f.deployer.On("Undeploy", mock.Anything, "plate-model-"+reg.ModelID.String()).Return(nil)
	f.regs.On("Delete", mock.Anything, reg.ID).Return(nil)

	assert.NoError(t, f.svc.DeleteRegistration(context.Background(), reg.ID))
	f.regs.AssertExpectations(t)
	f.deployer.AssertExpectations(t)
}

func TestRegistryService_DeleteModel_RemovesDependentsFirst(t *testing.T) {
	f := newRegistryFixture(t)

	model := &domain.Model{ID: uuid.New(), Name: "plates", StorageKey: "models/x/plates"}
	reg := &domain.ModelRegistration{ID: uuid.New(), ModelID: model.ID}
	f.models.On("GetByID", mock.Anything, model.ID).Return(model, nil)
	f.regs.On("GetByModelID", mock.Anything, model.ID).Return(reg, nil)
	f.regs.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)
	f.deployer.On("IsAvailable").Return(true)
	f.deployer.On("Undeploy", mock.Anything, mock.AnythingOfType("string")).Return(nil)
	f.regs.On("Delete", mock.Anything, reg.ID).Return(nil)
	f.store.On("Delete", mock.Anything, model.StorageKey).Return(nil)
	f.models.On("Delete", mock.Anything, model.ID).Return(nil)

	assert.NoError(t, f.svc.DeleteModel(context.Background(), model.ID))
	f.models.AssertExpectations(t)
	f.regs.AssertExpectations(t)
	f.store.AssertExpectations(t)
}
