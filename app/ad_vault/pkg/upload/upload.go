package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/config"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/logger"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/metrics"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
)

// Phase 保存任务所处阶段
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseUploading Phase = "uploading"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// Status 保存任务的可见状态
type Status struct {
	JobID    string `json:"job_id,omitempty"`
	Phase    Phase  `json:"phase"`
	Progress int    `json:"progress"`
	Error    string `json:"error,omitempty"`
}

// Active 任务是否仍占用保存入口
func (s Status) Active() bool {
	return s.Phase != "" && s.Phase != PhaseIdle
}

// Job 一次保存任务的内容
type Job struct {
	ID    string
	AdIDs []string
	Ads   []model.Ad // 能在已加载结果中找到的广告详情
}

// Transfer 实际执行保存，progress 取值 0..100
type Transfer interface {
	Transfer(ctx context.Context, job Job, progress func(int)) error
}

// Runner 驱动一次保存任务并上报状态
type Runner struct {
	transfer Transfer
	settle   time.Duration
}

// NewRunner 创建任务执行器，settle 为终态停留时长
func NewRunner(t Transfer, settle time.Duration) *Runner {
	return &Runner{transfer: t, settle: settle}
}

// Run 执行任务，依次上报 uploading、succeeded 或 failed，停留 settle 后上报 idle。
// 上报的进度严格递增
func (r *Runner) Run(ctx context.Context, job Job, report func(Status)) {
	last := 0
	report(Status{JobID: job.ID, Phase: PhaseUploading, Progress: 0})

	err := r.transfer.Transfer(ctx, job, func(p int) {
		if p > 100 {
			p = 100
		}
		if p <= last {
			return
		}
		last = p
		report(Status{JobID: job.ID, Phase: PhaseUploading, Progress: p})
	})

	if err != nil {
		logger.Log.Errorf("保存任务 [%s] 失败: %v", job.ID, err)
		metrics.UploadJobs.WithLabelValues(string(PhaseFailed)).Inc()
		report(Status{JobID: job.ID, Phase: PhaseFailed, Progress: last, Error: err.Error()})
	} else {
		if last < 100 {
			report(Status{JobID: job.ID, Phase: PhaseUploading, Progress: 100})
		}
		logger.Log.Infof("保存任务 [%s] 完成，共 %d 条广告", job.ID, len(job.AdIDs))
		metrics.UploadJobs.WithLabelValues(string(PhaseSucceeded)).Inc()
		report(Status{JobID: job.ID, Phase: PhaseSucceeded, Progress: 100})
	}

	t := time.NewTimer(r.settle)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
	report(Status{JobID: job.ID, Phase: PhaseIdle})
}

// Simulated 定时推进进度的模拟保存
type Simulated struct {
	Step     int
	Interval time.Duration
}

// Transfer 每隔 Interval 进度增加 Step，直到 100
func (s Simulated) Transfer(ctx context.Context, job Job, progress func(int)) error {
	step := s.Step
	if step <= 0 {
		step = 5
	}
	interval := s.Interval
	if interval <= 0 {
		interval = 150 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for p := 0; p < 100; {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p += step
			if p > 100 {
				p = 100
			}
			progress(p)
		}
	}
	return nil
}

// NewTransfer 根据配置创建保存方式
func NewTransfer(ctx context.Context, cfg config.UploadConfig) (Transfer, error) {
	switch cfg.Mode {
	case "", "simulated":
		return Simulated{Step: cfg.Step, Interval: time.Duration(cfg.IntervalMS) * time.Millisecond}, nil
	case "s3":
		return NewS3Transfer(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown upload mode: %s", cfg.Mode)
	}
}
