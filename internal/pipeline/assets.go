package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/mbarranco/clipmill/internal/assetfile"
	"github.com/mbarranco/clipmill/internal/constants"
	"github.com/mbarranco/clipmill/internal/content"
	"github.com/mbarranco/clipmill/internal/domain"
	"github.com/mbarranco/clipmill/internal/footage"
	"github.com/mbarranco/clipmill/internal/httpclient"
	"github.com/mbarranco/clipmill/internal/logger"
	"github.com/mbarranco/clipmill/internal/speech"
	"github.com/mbarranco/clipmill/internal/store"
)

// AssetStage generates voiceover and visual artifacts for a topic and
// advances it from PENDING_ASSETS to PENDING_EDIT.
type AssetStage struct {
	store     *store.DB
	content   content.Service
	footage   footage.Searcher // nil when no stock-footage provider is configured
	providers []speech.Provider
	download  *httpclient.Client
	log       *logger.Logger

	assetsDir     string
	targetVisuals int
	imageStyle    string
	imageSize     string
}

type AssetStageOptions struct {
	AssetsDir     string
	TargetVisuals int
	ImageStyle    string
	ImageSize     string
}

func NewAssetStage(db *store.DB, svc content.Service, fs footage.Searcher, providers []speech.Provider, download *httpclient.Client, opts AssetStageOptions, log *logger.Logger) *AssetStage {
	if download == nil {
		download = httpclient.NewClient(nil, constants.MinRequestInterval)
	}
	return &AssetStage{
		store:         db,
		content:       svc,
		footage:       fs,
		providers:     providers,
		download:      download,
		assetsDir:     opts.AssetsDir,
		targetVisuals: opts.TargetVisuals,
		imageStyle:    opts.ImageStyle,
		imageSize:     opts.ImageSize,
		log:           log.WithComponent("asset-stage"),
	}
}

// Process runs asset generation for one topic. Any failure past the
// eligibility checks is persisted as FAILED with last_error set before the
// error is returned.
func (s *AssetStage) Process(ctx context.Context, topic string) error {
	log := s.log.WithTopic(topic)

	item, err := s.store.GetItem(topic)
	if err != nil {
		return fmt.Errorf("failed to load topic %q: %w", topic, err)
	}
	if item == nil {
		return fmt.Errorf("topic %q not found", topic)
	}
	if !item.Status.AssetEligible() {
		return fmt.Errorf("topic %q status %s is not eligible for asset generation", topic, item.Status)
	}

	if item.ScriptPath == nil || *item.ScriptPath == "" {
		err := fmt.Errorf("script file missing or invalid")
		s.fail(topic, err.Error())
		return err
	}
	script, err := os.ReadFile(*item.ScriptPath)
	if err != nil || len(script) == 0 {
		s.fail(topic, fmt.Sprintf("script file missing or invalid: %s", *item.ScriptPath))
		return fmt.Errorf("script file %s unreadable or empty", *item.ScriptPath)
	}

	topicDir := filepath.Join(s.assetsDir, assetfile.Slug(topic))
	visualsDir := filepath.Join(topicDir, constants.VisualsDirName)
	if err := assetfile.EnsureDir(visualsDir); err != nil {
		s.fail(topic, "failed to create asset dirs: "+err.Error())
		return err
	}

	voPath := filepath.Join(topicDir, constants.VoiceoverFileName)
	if err := s.generateVoiceover(ctx, topic, string(script), voPath); err != nil {
		s.fail(topic, "voiceover generation failed: "+err.Error())
		return err
	}
	log.Info("Voiceover generated", "path", voPath)

	acquired := s.generateVisuals(ctx, string(script), visualsDir)
	needed := int(math.Ceil(float64(s.targetVisuals) * constants.MinVisualRatio))
	if acquired < needed {
		err := fmt.Errorf("insufficient visuals (%d/%d)", acquired, s.targetVisuals)
		s.fail(topic, err.Error())
		return err
	}
	log.Info("Visuals generated", "acquired", acquired, "target", s.targetVisuals)

	ok, err := s.store.UpdateStatus(topic, domain.StatusPendingEdit, store.ItemUpdate{LastError: store.Str("")})
	if err != nil || !ok {
		// Assets exist but the row is stale; leave a FAILED marker so the
		// item does not sit silently stuck.
		s.fail(topic, "status update failed after asset generation")
		return fmt.Errorf("failed to update status for %q after asset generation", topic)
	}

	log.Info("Asset stage complete", "status", domain.StatusPendingEdit)
	return nil
}

// generateVoiceover tries the configured speech providers in priority order.
// Each attempt writes to a temporary file that is promoted with an atomic
// rename on success and discarded on failure.
func (s *AssetStage) generateVoiceover(ctx context.Context, topic, script, voPath string) error {
	if len(s.providers) == 0 {
		return fmt.Errorf("no speech providers configured")
	}

	for _, p := range s.providers {
		tmp := voPath + "." + p.Name() + ".tmp"
		err := synthesize(ctx, p, script, tmp)
		if err != nil {
			s.log.Warn("Speech provider failed, trying next", "provider", p.Name(), "error", err)
			os.Remove(tmp)
			continue
		}

		if err := os.Rename(tmp, voPath); err != nil {
			os.Remove(tmp)
			return fmt.Errorf("failed to finalize voiceover file: %w", err)
		}
		if err := assetfile.TagVoiceover(voPath, topic, "clipmill"); err != nil {
			s.log.Warn("Failed to tag voiceover", "error", err)
		}
		s.log.Info("Voiceover synthesized", "provider", p.Name())
		return nil
	}
	return fmt.Errorf("all %d speech providers failed", len(s.providers))
}

// synthesize isolates one provider attempt so a panicking provider cannot
// abort the fallback loop.
func synthesize(ctx context.Context, p speech.Provider, text, outPath string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("provider panic: %v", rec)
		}
	}()
	return p.Synthesize(ctx, text, outPath)
}

// generateVisuals cycles through script segments acquiring visuals until the
// target count is reached or the cycle cap is hit. Stock footage is only
// consulted on the first pass over the segments; after that every attempt
// goes straight to image generation.
func (s *AssetStage) generateVisuals(ctx context.Context, script, visualsDir string) int {
	segments := segmentScript(script)
	num := len(segments)
	acquired := 0

	for idx := 0; acquired < s.targetVisuals && idx < num*constants.VisualCycleCap; idx++ {
		segment := segments[idx%num]
		base := fmt.Sprintf("visual_%02d", acquired+1)

		if s.footage != nil && idx < num {
			if s.fetchFootage(ctx, segment, visualsDir, base) {
				acquired++
				continue
			}
		}

		if s.fetchImage(ctx, segment, visualsDir, base) {
			acquired++
		}
	}
	return acquired
}

func (s *AssetStage) fetchFootage(ctx context.Context, segment, visualsDir, base string) bool {
	links, err := s.footage.Search(ctx, clip(segment, 50))
	if err != nil {
		s.log.Warn("Stock footage search failed", "error", err)
		return false
	}
	if len(links) == 0 {
		return false
	}
	dest := filepath.Join(visualsDir, base+assetfile.URLExt(links[0], ".mp4"))
	if err := assetfile.Download(ctx, s.download, links[0], dest); err != nil {
		s.log.Warn("Stock footage download failed", "error", err)
		return false
	}
	return true
}

func (s *AssetStage) fetchImage(ctx context.Context, segment, visualsDir, base string) bool {
	prompt := fmt.Sprintf("%s scene illustrating: %s", s.imageStyle, clip(segment, 150))
	urls, err := s.content.GenerateImages(ctx, prompt, 1, s.imageSize)
	if err != nil {
		s.log.Warn("Image generation failed", "error", err)
		return false
	}
	if len(urls) == 0 {
		s.log.Warn("Image generation returned no urls")
		return false
	}
	dest := filepath.Join(visualsDir, base+".jpg")
	if err := assetfile.Download(ctx, s.download, urls[0], dest); err != nil {
		s.log.Warn("Image download failed", "error", err)
		return false
	}
	return true
}

// segmentScript splits a script into sentence-like chunks, falling back to
// line splitting and finally to the whole script as a single segment.
func segmentScript(script string) []string {
	var segments []string
	for _, seg := range strings.Split(script, ".") {
		if seg = strings.TrimSpace(seg); len(seg) > constants.MinSegmentLength {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		for _, seg := range strings.Split(script, "\n") {
			if seg = strings.TrimSpace(seg); len(seg) > constants.MinSegmentLength {
				segments = append(segments, seg)
			}
		}
	}
	if len(segments) == 0 {
		segments = []string{script}
	}
	return segments
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// fail records a FAILED transition with a cause. Best effort: a store error
// here is logged, not propagated.
func (s *AssetStage) fail(topic, cause string) {
	ok, err := s.store.UpdateStatus(topic, domain.StatusFailed, store.ItemUpdate{LastError: store.Str(cause)})
	if err != nil || !ok {
		s.log.Error("Failed to record failure", "topic", topic, "cause", cause, "error", err)
	}
}
