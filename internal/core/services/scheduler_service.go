package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"gbh-kioskhub/internal/adapters/persistence/repositories"
)

// SchedulerService runs the background maintenance jobs: the nightly
// proforma expiry sweep and refresh-token table cleanup.
type SchedulerService struct {
	cron            *cron.Cron
	proformaService *ProformaService
	tokenRepo       repositories.RefreshTokenRepository
}

// NewSchedulerService creates a new scheduler service
func NewSchedulerService(proformaService *ProformaService, tokenRepo repositories.RefreshTokenRepository) *SchedulerService {
	return &SchedulerService{
		cron:            cron.New(),
		proformaService: proformaService,
		tokenRepo:       tokenRepo,
	}
}

// Start registers and launches the jobs. The expiry sweep runs daily at
// 02:10, off the top-of-the-hour rush.
func (s *SchedulerService) Start() error {
	if _, err := s.cron.AddFunc("10 2 * * *", s.sweepExpiredProformas); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("40 2 * * *", s.purgeExpiredTokens); err != nil {
		return err
	}

	s.cron.Start()
	logrus.Info("Scheduler started")
	return nil
}

// Stop halts the scheduler and waits for running jobs.
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logrus.Info("Scheduler stopped")
}

func (s *SchedulerService) sweepExpiredProformas() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.proformaService.MarkExpired(ctx); err != nil {
		logrus.Errorf("Proforma expiry sweep failed: %v", err)
	}
}

func (s *SchedulerService) purgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.tokenRepo.DeleteExpired(ctx); err != nil {
		logrus.Errorf("Refresh token cleanup failed: %v", err)
	}
}
