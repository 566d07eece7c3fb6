package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/moodtrack/core/internal/modules/analysis"
	pkgcron "github.com/moodtrack/core/internal/pkg/cron"
	"github.com/moodtrack/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

const rollupTaskType = "mood_rollup"

type rollupPayload struct {
	UserID     string `json:"user_id"`
	Period     string `json:"period"`
	WindowDate string `json:"window_date"`
}

func (a *App) registerCronJobs() error {
	if err := a.sched.Register(pkgcron.Job{
		Name:        "daily_mood_rollup",
		Description: "Per-user daily summary and mood-analysis pipeline over yesterday's entries",
		Spec:        "0 0 * * *",
		Fn: func(ctx context.Context) error {
			return a.runRollup(ctx, analysis.PeriodDaily)
		},
	}); err != nil {
		return err
	}
	return a.sched.Register(pkgcron.Job{
		Name:        "weekly_mood_rollup",
		Description: "Per-user weekly summary and consolidation sweep over last week's records",
		Spec:        "0 0 * * 1",
		Fn: func(ctx context.Context) error {
			return a.runRollup(ctx, analysis.PeriodWeekly)
		},
	})
}

// runRollup iterates every user with entries sequentially. One user's
// failure is recorded and does not stop the others; the job is rejected at
// the end if any user failed.
func (a *App) runRollup(ctx context.Context, period analysis.Period) error {
	userIDs, err := a.analysisService.UserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	var failed int
	for _, userID := range userIDs {
		if err := a.runUserRollup(ctx, userID, period); err != nil {
			failed++
			a.logger.Error("user rollup failed",
				zap.String("userId", userID),
				zap.String("period", string(period)),
				zap.Error(err))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d user rollups failed", failed, len(userIDs))
	}
	return nil
}

func (a *App) runUserRollup(ctx context.Context, userID string, period analysis.Period) error {
	now := time.Now()
	loc := a.cfg.Location()
	windowDate := period.WindowDate(now, loc)

	dedupKey := fmt.Sprintf("analysis:%s:%s:%s", userID, period, windowDate)
	task, created, err := a.tasks.Enqueue(ctx, rollupTaskType, rollupPayload{
		UserID:     userID,
		Period:     string(period),
		WindowDate: windowDate,
	}, dedupKey, userID)
	if err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	if !created {
		a.logger.Info("rollup already processed for window, skipping",
			zap.String("userId", userID),
			zap.String("period", string(period)),
			zap.String("windowDate", windowDate),
			zap.String("taskId", task.ID))
		return nil
	}

	if err := a.tasks.UpdateStatus(ctx, task.ID, taskqueue.TaskRunning, nil, ""); err != nil {
		a.logger.Warn("failed to mark task running", zap.String("taskId", task.ID), zap.Error(err))
	}

	runErr := a.rollupUser(ctx, userID, period, now)
	if runErr != nil {
		if err := a.tasks.UpdateStatus(ctx, task.ID, taskqueue.TaskFailed, nil, runErr.Error()); err != nil {
			a.logger.Warn("failed to mark task failed", zap.String("taskId", task.ID), zap.Error(err))
		}
		return runErr
	}
	return a.tasks.UpdateStatus(ctx, task.ID, taskqueue.TaskCompleted, map[string]string{"window_date": windowDate}, "")
}

func (a *App) rollupUser(ctx context.Context, userID string, period analysis.Period, now time.Time) error {
	if a.summaryService != nil {
		if _, err := a.summaryService.Run(ctx, userID, period, now); err != nil {
			return fmt.Errorf("summary: %w", err)
		}
	}

	if period == analysis.PeriodWeekly {
		if err := a.analysisService.WeeklySweep(ctx, userID, now); err != nil {
			return fmt.Errorf("weekly sweep: %w", err)
		}
		return nil
	}

	err := a.analysisService.RunPipeline(ctx, userID, period, now)
	if errors.Is(err, analysis.ErrEmptyWindow) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	return nil
}
