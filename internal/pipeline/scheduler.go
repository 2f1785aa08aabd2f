package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mbarranco/clipmill/internal/domain"
	"github.com/mbarranco/clipmill/internal/logger"
	"github.com/mbarranco/clipmill/internal/store"
)

// Stage is one unit of pipeline work applied to a single topic.
type Stage interface {
	Process(ctx context.Context, topic string) error
}

// TierResult counts the outcomes within one priority tier of a run.
type TierResult struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// RunReport summarizes one scheduler run.
type RunReport struct {
	RunID     string     `json:"run_id"`
	Budget    int        `json:"budget"`
	Processed int        `json:"processed"`
	Retries   TierResult `json:"retries"`
	Assets    TierResult `json:"assets"`
	Scripts   TierResult `json:"scripts"`
}

func (r RunReport) TotalSucceeded() int {
	return r.Retries.Succeeded + r.Assets.Succeeded + r.Scripts.Succeeded
}

func (r RunReport) TotalFailed() int {
	return r.Retries.Failed + r.Assets.Failed + r.Scripts.Failed
}

func (r RunReport) Summary() string {
	return fmt.Sprintf(
		"Processing run complete (processed %d/%d max). Retried FAILED: %d ok, %d failed. Assets: %d ok, %d failed. Scripts: %d ok, %d failed.",
		r.Processed, r.Budget,
		r.Retries.Succeeded, r.Retries.Failed,
		r.Assets.Succeeded, r.Assets.Failed,
		r.Scripts.Succeeded, r.Scripts.Failed,
	)
}

// Runner selects items for processing by priority tier and dispatches them
// to the stages within a per-run budget. Every attempted item consumes one
// unit of budget regardless of outcome.
type Runner struct {
	store         *store.DB
	scriptStage   Stage
	assetStage    Stage
	defaultBudget int
	log           *logger.Logger
}

func NewRunner(db *store.DB, scriptStage, assetStage Stage, defaultBudget int, log *logger.Logger) *Runner {
	return &Runner{
		store:         db,
		scriptStage:   scriptStage,
		assetStage:    assetStage,
		defaultBudget: defaultBudget,
		log:           log.WithComponent("scheduler"),
	}
}

// Run executes one processing pass. Tiers are drained in priority order:
// FAILED items are retried as script regenerations first, then PENDING_ASSETS
// items, then PENDING_SCRIPT items. Within each tier items are taken oldest
// first by last_updated.
func (r *Runner) Run(ctx context.Context, budget int) (RunReport, error) {
	if r.store == nil {
		return RunReport{}, fmt.Errorf("scheduler has no store configured")
	}
	if budget <= 0 {
		budget = r.defaultBudget
	}

	report := RunReport{RunID: uuid.NewString(), Budget: budget}
	log := r.log.WithRun(report.RunID)
	log.Info("Starting processing run", "budget", budget)

	r.runTier(ctx, log, domain.StatusFailed, r.scriptStage, &report, &report.Retries)
	r.runTier(ctx, log, domain.StatusPendingAssets, r.assetStage, &report, &report.Assets)
	r.runTier(ctx, log, domain.StatusPendingScript, r.scriptStage, &report, &report.Scripts)

	log.Info("Processing run complete",
		"processed", report.Processed,
		"succeeded", report.TotalSucceeded(),
		"failed", report.TotalFailed())
	return report, nil
}

func (r *Runner) runTier(ctx context.Context, log *logger.Logger, status domain.Status, stage Stage, report *RunReport, tier *TierResult) {
	remaining := report.Budget - report.Processed
	if stage == nil || remaining <= 0 {
		return
	}

	topics, err := r.store.FindTopicsByStatus(status, remaining)
	if err != nil {
		log.Error("Failed to select topics", "status", status, "error", err)
		return
	}

	for _, topic := range topics {
		report.Processed++
		if r.processOne(ctx, stage, topic) {
			tier.Succeeded++
		} else {
			tier.Failed++
		}
	}
}

// processOne dispatches one topic to a stage. A panic inside the stage is
// contained here: the item is forced to FAILED and counted as a failure so
// one bad item cannot take down the whole run.
func (r *Runner) processOne(ctx context.Context, stage Stage, topic string) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("Stage panicked", "topic", topic, "panic", rec)
			cause := fmt.Sprintf("internal error: %v", rec)
			if _, err := r.store.UpdateStatus(topic, domain.StatusFailed, store.ItemUpdate{LastError: store.Str(cause)}); err != nil {
				r.log.Error("Failed to record panic failure", "topic", topic, "error", err)
			}
			ok = false
		}
	}()

	if err := stage.Process(ctx, topic); err != nil {
		r.log.Warn("Stage failed", "topic", topic, "error", err)
		return false
	}
	return true
}
