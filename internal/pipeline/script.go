// Package pipeline contains the stages that advance topic items through
// their status lifecycle, and the scheduler that selects work for them.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mbarranco/clipmill/internal/assetfile"
	"github.com/mbarranco/clipmill/internal/constants"
	"github.com/mbarranco/clipmill/internal/content"
	"github.com/mbarranco/clipmill/internal/domain"
	"github.com/mbarranco/clipmill/internal/logger"
	"github.com/mbarranco/clipmill/internal/store"
)

// ScriptStage generates a script artifact for a topic and advances it from
// PENDING_SCRIPT (or FAILED, as a retry) to PENDING_ASSETS.
type ScriptStage struct {
	store     *store.DB
	content   content.Service
	assetsDir string
	log       *logger.Logger
}

func NewScriptStage(db *store.DB, svc content.Service, assetsDir string, log *logger.Logger) *ScriptStage {
	return &ScriptStage{
		store:     db,
		content:   svc,
		assetsDir: assetsDir,
		log:       log.WithComponent("script-stage"),
	}
}

// Process runs script generation for one topic. A returned error means the
// attempt failed; any failure past the eligibility checks has already been
// persisted as FAILED with last_error set. Errors never escape as panics.
func (s *ScriptStage) Process(ctx context.Context, topic string) error {
	log := s.log.WithTopic(topic)

	item, err := s.store.GetItem(topic)
	if err != nil {
		return fmt.Errorf("failed to load topic %q: %w", topic, err)
	}
	if item == nil {
		return fmt.Errorf("topic %q not found", topic)
	}
	if !item.Status.ScriptEligible() {
		return fmt.Errorf("topic %q status %s is not eligible for script generation", topic, item.Status)
	}
	if item.Status == domain.StatusFailed {
		log.Info("Retrying script generation for failed topic")
	}

	script, err := s.content.GenerateScript(ctx, topic)
	if err != nil {
		s.fail(topic, "script generation failed: "+err.Error())
		return err
	}
	if !strings.Contains(script, constants.HookMarker) || !strings.Contains(script, constants.BodyMarker) {
		err := fmt.Errorf("generated script missing %s/%s structure", constants.HookMarker, constants.BodyMarker)
		s.fail(topic, err.Error())
		return err
	}

	dir := filepath.Join(s.assetsDir, assetfile.Slug(topic))
	scriptPath := filepath.Join(dir, constants.ScriptFileName)
	if err := assetfile.EnsureDir(dir); err != nil {
		s.fail(topic, "failed to create asset dir: "+err.Error())
		return err
	}
	if err := os.WriteFile(scriptPath, []byte(script), 0644); err != nil {
		s.fail(topic, "failed to save script file: "+err.Error())
		return err
	}
	log.Info("Script saved", "path", scriptPath, "length", len(script))

	ok, err := s.store.UpdateStatus(topic, domain.StatusPendingAssets, store.ItemUpdate{
		ScriptPath: store.Str(scriptPath),
		LastError:  store.Str(""),
	})
	if err != nil || !ok {
		// The script artifact exists but the row is stale; record that
		// rather than leaving a silently inconsistent item.
		s.fail(topic, "status update failed after script save")
		return fmt.Errorf("failed to update status for %q after script save", topic)
	}

	log.Info("Script stage complete", "status", domain.StatusPendingAssets)
	return nil
}

// fail records a FAILED transition with a cause. Best effort: a store error
// here is logged, not propagated.
func (s *ScriptStage) fail(topic, cause string) {
	ok, err := s.store.UpdateStatus(topic, domain.StatusFailed, store.ItemUpdate{LastError: store.Str(cause)})
	if err != nil || !ok {
		s.log.Error("Failed to record failure", "topic", topic, "cause", cause, "error", err)
	}
}
