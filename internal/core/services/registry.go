package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"license-plate-service/internal/core/domain"
	ports "license-plate-service/internal/core/ports/output"
)

// RegistryService handles the model side of the job surface: uploading model
// archives into the artifact store and registering them as serving endpoints.
type RegistryService struct {
	jobs     *JobService
	models   ports.ModelRepository
	regs     ports.ModelRegistrationRepository
	store    ports.ArtifactStore
	deployer ports.EndpointDeployer
	tempDir  string
}

func NewRegistryService(
	jobs *JobService,
	models ports.ModelRepository,
	regs ports.ModelRegistrationRepository,
	store ports.ArtifactStore,
	deployer ports.EndpointDeployer,
	tempDir string,
) *RegistryService {
	return &RegistryService{
		jobs:     jobs,
		models:   models,
		regs:     regs,
		store:    store,
		deployer: deployer,
		tempDir:  tempDir,
	}
}

// SubmitUpload spools the model archive and dispatches a model-upload job.
// The framework tag is validated here, before any state is persisted, so
// nothing downstream ever sees a free-form type string.
func (s *RegistryService) SubmitUpload(ctx context.Context, name, framework string, payload io.Reader) (*domain.Job, error) {
	if name == "" {
		return nil, domain.ErrInvalidModelName
	}
	fw, err := domain.ParseFramework(framework)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, domain.ErrEmptyPayload
	}

	if err := os.MkdirAll(filepath.Join(s.tempDir, "models"), 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	spoolPath := filepath.Join(s.tempDir, "models", uuid.New().String())
	f, err := os.Create(spoolPath)
	if err != nil {
		return nil, fmt.Errorf("spool model archive: %w", err)
	}
	written, err := io.Copy(f, payload)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(spoolPath)
		return nil, fmt.Errorf("spool model archive: %w", err)
	}
	if written == 0 {
		os.Remove(spoolPath)
		return nil, domain.ErrEmptyPayload
	}

	return s.jobs.Dispatch(ctx, domain.JobKindModelUpload, func(ctx context.Context, job *domain.Job) (*TaskResult, error) {
		defer os.Remove(spoolPath)

		model := &domain.Model{
			ID:        uuid.New(),
			UserID:    job.UserID,
			Name:      name,
			Framework: fw,
			CreatedAt: time.Now(),
		}
		model.StorageKey = fmt.Sprintf("models/%s/%s", model.ID, name)

		if err := s.store.PutFile(ctx, model.StorageKey, spoolPath, "application/octet-stream"); err != nil {
			return nil, err
		}
		if err := s.models.Create(ctx, model); err != nil {
			return nil, err
		}

		log.WithFields(log.Fields{
			"model_id":  model.ID,
			"framework": model.Framework,
		}).Info("model archive stored")
		return &TaskResult{ReferenceID: &model.ID}, nil
	})
}

// SubmitRegistration dispatches a model-registration job that deploys a
// serving endpoint for an uploaded model. The model must exist before the
// job is created.
func (s *RegistryService) SubmitRegistration(ctx context.Context, modelID uuid.UUID) (*domain.Job, error) {
	if s.deployer == nil || !s.deployer.IsAvailable() {
		return nil, domain.ErrDeployerUnavailable
	}
	model, err := s.models.GetByID(ctx, modelID)
	if err != nil {
		return nil, err
	}

	return s.jobs.Dispatch(ctx, domain.JobKindModelRegistration, func(ctx context.Context, job *domain.Job) (*TaskResult, error) {
		endpoint, err := s.deployer.Deploy(ctx, model, "1.0")
		if err != nil {
			return nil, err
		}

		reg := &domain.ModelRegistration{
			ID:          uuid.New(),
			ModelID:     model.ID,
			Version:     "1.0",
			Status:      domain.JobStatusSuccess,
			EndpointURL: endpoint.URL,
			CreatedAt:   time.Now(),
		}
		if err := s.regs.Create(ctx, reg); err != nil {
			// the endpoint must not outlive a registration row we failed
			// to write
			if undeployErr := s.deployer.Undeploy(ctx, endpoint.Name); undeployErr != nil {
				log.WithError(undeployErr).WithField("endpoint", endpoint.Name).Error("orphaned endpoint cleanup failed")
			}
			return nil, err
		}

		log.WithFields(log.Fields{
			"model_id": model.ID,
			"endpoint": endpoint.URL,
		}).Info("model registered")
		return &TaskResult{ReferenceID: &reg.ID}, nil
	})
}

func (s *RegistryService) GetModel(ctx context.Context, id uuid.UUID) (*domain.Model, error) {
	return s.models.GetByID(ctx, id)
}

func (s *RegistryService) ListModels(ctx context.Context) ([]*domain.Model, error) {
	return s.models.List(ctx)
}

func (s *RegistryService) GetRegistration(ctx context.Context, id uuid.UUID) (*domain.ModelRegistration, error) {
	return s.regs.GetByID(ctx, id)
}

// DeleteRegistration undeploys the endpoint and removes the registration row
// before any parent rows, keeping referential order the caller's problem no
// longer.
func (s *RegistryService) DeleteRegistration(ctx context.Context, id uuid.UUID) error {
	reg, err := s.regs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s.deployer != nil && s.deployer.IsAvailable() {
		if err := s.deployer.Undeploy(ctx, endpointName(reg)); err != nil {
			log.WithError(err).WithField("registration_id", reg.ID).Warn("undeploy endpoint failed")
		}
	}
	return s.regs.Delete(ctx, id)
}

// DeleteModel removes a model and its dependent registration first.
func (s *RegistryService) DeleteModel(ctx context.Context, id uuid.UUID) error {
	model, err := s.models.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if reg, err := s.regs.GetByModelID(ctx, id); err == nil {
		if err := s.DeleteRegistration(ctx, reg.ID); err != nil {
			return err
		}
	}
	if err := s.store.Delete(ctx, model.StorageKey); err != nil {
		log.WithError(err).WithField("model_id", id).Warn("delete model archive failed")
	}
	return s.models.Delete(ctx, id)
}

func endpointName(reg *domain.ModelRegistration) string {
	return "plate-model-" + reg.ModelID.String()
}
