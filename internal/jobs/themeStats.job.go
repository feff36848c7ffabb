package jobs

import (
	"context"

	"roomlog/internal/services"
	"roomlog/pkg/logger"
)

const ThemeStatsJobName = "ThemeStatsRefresh"

type ThemeStatsRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// ThemeStatsJob recomputes the cached review statistics shown on theme pages.
type ThemeStatsJob struct {
	themeStats ThemeStatsRefresher
	log        logger.Logger
	schedule   services.Schedule
}

func NewThemeStatsJob(themeStats ThemeStatsRefresher, schedule services.Schedule) *ThemeStatsJob {
	return &ThemeStatsJob{
		themeStats: themeStats,
		log:        logger.New("themeStatsJob"),
		schedule:   schedule,
	}
}

func (j *ThemeStatsJob) Name() string {
	return ThemeStatsJobName
}

func (j *ThemeStatsJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	written, err := j.themeStats.Refresh(ctx)
	if err != nil {
		return log.Err("theme stats refresh failed", err)
	}

	log.Info("Theme stats refresh completed", "themes", written)
	return nil
}

func (j *ThemeStatsJob) Schedule() services.Schedule {
	return j.schedule
}
