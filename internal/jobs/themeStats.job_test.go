package jobs

import (
	"context"
	"errors"
	"testing"

	"roomlog/config"
	"roomlog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockThemeStatsRefresher struct {
	mock.Mock
}

func (m *MockThemeStatsRefresher) Refresh(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestThemeStatsJob_Metadata(t *testing.T) {
	job := NewThemeStatsJob(nil, services.Hourly)

	assert.Equal(t, ThemeStatsJobName, job.Name())
	assert.Equal(t, services.Hourly, job.Schedule())
}

func TestThemeStatsJob_Execute(t *testing.T) {
	refresher := &MockThemeStatsRefresher{}
	refresher.On("Refresh", mock.Anything).Return(12, nil).Once()

	job := NewThemeStatsJob(refresher, services.Hourly)

	require.NoError(t, job.Execute(context.Background()))
	refresher.AssertExpectations(t)
}

func TestThemeStatsJob_Execute_Failure(t *testing.T) {
	refresher := &MockThemeStatsRefresher{}
	refreshErr := errors.New("valkey timeout")
	refresher.On("Refresh", mock.Anything).Return(0, refreshErr).Once()

	job := NewThemeStatsJob(refresher, services.Hourly)

	assert.ErrorIs(t, job.Execute(context.Background()), refreshErr)
}

func TestRegisterAllJobs(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		scheduler := services.NewSchedulerService()

		require.NoError(t, RegisterAllJobs(scheduler, config.Config{}, services.Service{}))
		assert.Equal(t, 0, scheduler.GetJobCount())
	})

	t.Run("enabled", func(t *testing.T) {
		scheduler := services.NewSchedulerService()

		err := RegisterAllJobs(scheduler, config.Config{SchedulerEnabled: true}, services.Service{})

		require.NoError(t, err)
		assert.Equal(t, 1, scheduler.GetJobCount())
	})
}
