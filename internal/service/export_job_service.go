package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lifeng-edu/exam-duty-api/internal/dto"
	"github.com/lifeng-edu/exam-duty-api/internal/models"
	appErrors "github.com/lifeng-edu/exam-duty-api/pkg/errors"
	"github.com/lifeng-edu/exam-duty-api/pkg/jobs"
	"github.com/lifeng-edu/exam-duty-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportJobsConfig tunes the asynchronous export pipeline.
type ExportJobsConfig struct {
	APIPrefix       string
	ResultTTL       time.Duration
	CleanupInterval time.Duration
	Workers         int
	MaxRetries      int
}

// ExportJobService runs duty table exports in the background and hands out
// signed download URLs for the produced files. Jobs live in memory only:
// export artifacts are ephemeral and swept by TTL, so a restart simply means
// requesting the export again.
type ExportJobService struct {
	exports   *ExportService
	storage   fileStorage
	signer    *storage.SignedURLSigner
	queue     *jobs.Queue
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportJobsConfig

	mu      sync.RWMutex
	byID    map[string]*models.ExportJob
	cancel  context.CancelFunc
	sweeper sync.WaitGroup
}

// NewExportJobService constructs the service and its worker queue.
func NewExportJobService(
	exports *ExportService,
	store fileStorage,
	signer *storage.SignedURLSigner,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ExportJobsConfig,
) *ExportJobService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Hour
	}

	s := &ExportJobService{
		exports:   exports,
		storage:   store,
		signer:    signer,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		byID:      make(map[string]*models.ExportJob),
	}
	s.queue = jobs.NewQueue("duty-exports", s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the worker pool and the TTL sweeper.
func (s *ExportJobService) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.queue.Start(ctx)

	s.sweeper.Add(1)
	go func() {
		defer s.sweeper.Done()
		ticker := time.NewTicker(s.cfg.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL)
				if err != nil {
					s.logger.Warn("export cleanup failed", zap.Error(err))
					continue
				}
				if len(deleted) > 0 {
					s.logger.Info("expired exports removed", zap.Int("count", len(deleted)))
				}
			}
		}
	}()
}

// Stop drains the worker pool.
func (s *ExportJobService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.queue.Stop()
	s.sweeper.Wait()
}

// Enqueue registers an export job and queues it for processing.
func (s *ExportJobService) Enqueue(ctx context.Context, req dto.ExportJobRequest) (*dto.ExportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}

	job := &models.ExportJob{
		ID:        uuid.NewString(),
		RunID:     req.RunID,
		Format:    req.Format,
		Status:    models.ExportJobStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.byID[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "duty-export"}); err != nil {
		s.mu.Lock()
		delete(s.byID, job.ID)
		s.mu.Unlock()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}
	return s.response(job), nil
}

// Get returns the current state of an export job.
func (s *ExportJobService) Get(ctx context.Context, id string) (*dto.ExportJobResponse, error) {
	s.mu.RLock()
	job, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return s.response(job), nil
}

// OpenFile validates a signed token and opens the referenced export file.
func (s *ExportJobService) OpenFile(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	return file, nil
}

func (s *ExportJobService) process(ctx context.Context, queued jobs.Job) error {
	s.mu.Lock()
	job, ok := s.byID[queued.ID]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	job.Status = models.ExportJobStatusProcessing
	s.mu.Unlock()

	payload, filename, err := s.exports.Render(ctx, job.RunID, job.Format)
	if err != nil {
		s.fail(job, err)
		return err
	}

	relPath := fmt.Sprintf("%s/%s", job.ID, filename)
	if _, err := s.storage.Save(relPath, payload); err != nil {
		s.fail(job, err)
		return err
	}
	token, _, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		s.fail(job, err)
		return err
	}

	now := time.Now().UTC()
	s.mu.Lock()
	job.Status = models.ExportJobStatusCompleted
	job.FilePath = relPath
	job.Token = token
	job.CompletedAt = &now
	job.Error = ""
	s.mu.Unlock()

	s.logger.Info("export completed", zap.String("jobId", job.ID), zap.String("format", job.Format))
	return nil
}

func (s *ExportJobService) fail(job *models.ExportJob, err error) {
	now := time.Now().UTC()
	s.mu.Lock()
	job.Status = models.ExportJobStatusFailed
	job.Error = err.Error()
	job.CompletedAt = &now
	s.mu.Unlock()
	s.logger.Warn("export failed", zap.String("jobId", job.ID), zap.Error(err))
}

func (s *ExportJobService) response(job *models.ExportJob) *dto.ExportJobResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := &dto.ExportJobResponse{
		ID:          job.ID,
		RunID:       job.RunID,
		Format:      job.Format,
		Status:      job.Status,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
	}
	if job.Status == models.ExportJobStatusCompleted && job.Token != "" {
		resp.DownloadURL = fmt.Sprintf("%s/exports/files?token=%s", s.cfg.APIPrefix, job.Token)
	}
	return resp
}
