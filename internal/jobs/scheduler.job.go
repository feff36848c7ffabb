package jobs

import (
	"roomlog/config"
	"roomlog/internal/services"
	"roomlog/pkg/logger"
)

func RegisterAllJobs(
	scheduler *services.SchedulerService,
	config config.Config,
	service services.Service,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	if err := scheduler.AddJob(NewThemeStatsJob(service.ThemeStats, services.Hourly)); err != nil {
		return log.Err("failed to register theme stats job", err)
	}

	return nil
}
