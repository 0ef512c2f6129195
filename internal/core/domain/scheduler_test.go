package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSchedulerConfig(t *testing.T) {
	config := DefaultSchedulerConfig(5 * time.Minute)

	assert.True(t, config.Enabled)
	assert.Equal(t, time.Minute, config.TickInterval)
	assert.Equal(t, 100, config.HistoryLimit)
	assert.Len(t, config.TaskConfigs, 1)

	refreshCfg := config.TaskConfigs[TaskIDCatalogRefresh]
	assert.True(t, refreshCfg.Enabled)
	assert.Equal(t, 5*time.Minute, refreshCfg.Interval)
}

func TestDefaultSchedulerConfig_NonPositiveInterval(t *testing.T) {
	config := DefaultSchedulerConfig(0)
	assert.Equal(t, 15*time.Minute, config.GetTaskConfig(TaskIDCatalogRefresh).Interval)
}

func TestSchedulerConfig_GetTaskConfig_NilMap(t *testing.T) {
	config := SchedulerConfig{
		Enabled:     true,
		TaskConfigs: nil,
	}

	cfg := config.GetTaskConfig("any-task")
	assert.False(t, cfg.Enabled)
	assert.Equal(t, time.Duration(0), cfg.Interval)
}

func TestScheduledTask_Due(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		task     ScheduledTask
		expected bool
	}{
		{"disabled", ScheduledTask{Enabled: false}, false},
		{"never scheduled", ScheduledTask{Enabled: true}, true},
		{"past", ScheduledTask{Enabled: true, NextRun: now.Add(-time.Second)}, true},
		{"exactly now", ScheduledTask{Enabled: true, NextRun: now}, true},
		{"future", ScheduledTask{Enabled: true, NextRun: now.Add(time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.task.Due(now))
		})
	}
}
