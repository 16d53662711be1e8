package service

import (
	"context"
	"time"

	"github.com/BerniceZTT/crm_followup/utils"
)

// NextRun 返回 now 之后下一次 hour:min:sec 的时间
func NextRun(now time.Time, hour, min, sec int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, sec, 0, now.Location())
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// ScheduleDailyTaskAt 每天指定时间执行任务，ctx 取消后退出
func ScheduleDailyTaskAt(ctx context.Context, hour, min, sec int, task func(context.Context)) {
	go func() {
		for {
			next := NextRun(time.Now(), hour, min, sec)
			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				utils.Logger.Info().Msg("定时任务已停止")
				return
			case <-timer.C:
				runTask(ctx, task)
			}
		}
	}()
}

func runTask(ctx context.Context, task func(context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			utils.Logger.Error().Interface("panic", r).Msg("定时任务异常")
		}
	}()
	task(ctx)
}

// NightlyFollowUpJob 先重新计算下单频率，再生成待跟进记录
func NightlyFollowUpJob(svc *FrequencyService) func(context.Context) {
	return func(ctx context.Context) {
		start := time.Now()
		utils.Logger.Info().Time("time", start).Msg("开始执行每日跟进任务...")

		processed, err := svc.CalculateAllFrequencies(ctx)
		if err != nil {
			utils.LogError(err, nil, "计算客户下单频率失败")
			return
		}

		created, err := svc.GenerateFollowUpLogs(ctx)
		if err != nil {
			utils.LogError(err, nil, "生成待跟进记录失败")
			return
		}

		utils.LogInfo(map[string]interface{}{
			"customers": processed,
			"logs":      created,
			"elapsed":   time.Since(start).String(),
		}, "每日跟进任务完成")
	}
}
