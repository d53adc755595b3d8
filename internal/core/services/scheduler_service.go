package services

import (
	"context"
	"log"
	"time"

	"nfc-cooperative/internal/config"

	"github.com/robfig/cron/v3"
)

// SchedulerService runs the periodic bookkeeping jobs
type SchedulerService struct {
	cron     *cron.Cron
	cfg      config.SchedulerConfig
	savings  *SavingsService
	loans    *LoanService
	settings *SettingsService
	auth     *AuthService
}

// NewSchedulerService creates a new scheduler
func NewSchedulerService(cfg config.SchedulerConfig, savings *SavingsService, loans *LoanService, settings *SettingsService, auth *AuthService) *SchedulerService {
	return &SchedulerService{
		cron:     cron.New(),
		cfg:      cfg,
		savings:  savings,
		loans:    loans,
		settings: settings,
		auth:     auth,
	}
}

// Start registers the jobs and starts the cron loop
func (s *SchedulerService) Start() error {
	if !s.cfg.Enabled {
		log.Println("⚠️ Scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.InterestCron, s.RunInterest); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.SweepCron, s.RunDailySweep); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("🚀 Scheduler started (interest: %q, sweep: %q)", s.cfg.InterestCron, s.cfg.SweepCron)
	return nil
}

// Stop waits for running jobs to finish
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("✅ Scheduler stopped")
}

// RunInterest posts monthly savings interest when interest_auto_calculate is on
func (s *SchedulerService) RunInterest() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	settings, err := s.settings.Business(ctx)
	if err != nil {
		log.Printf("❌ Interest job: %v", err)
		return
	}
	if !settings.InterestAutoCalculate {
		log.Println("⚠️ Interest job skipped: automatic interest is off")
		return
	}
	if _, err := s.savings.AccrueMonthlyInterest(ctx, SystemActor, time.Now()); err != nil {
		log.Printf("❌ Interest job: %v", err)
	}
}

// RunDailySweep defaults overdue loans and purges expired refresh tokens
func (s *SchedulerService) RunDailySweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if _, err := s.loans.SweepOverdue(ctx, SystemActor, time.Now()); err != nil {
		log.Printf("❌ Overdue sweep: %v", err)
	}
	if n, err := s.auth.PurgeExpiredTokens(ctx); err != nil {
		log.Printf("❌ Token purge: %v", err)
	} else if n > 0 {
		log.Printf("✅ Purged %d expired refresh tokens", n)
	}
}
