// Package topics turns raw user input into stored pipeline items.
package topics

import (
	"context"
	"fmt"
	"strings"

	"github.com/mbarranco/clipmill/internal/constants"
	"github.com/mbarranco/clipmill/internal/content"
	"github.com/mbarranco/clipmill/internal/domain"
	"github.com/mbarranco/clipmill/internal/ingest"
	"github.com/mbarranco/clipmill/internal/logger"
	"github.com/mbarranco/clipmill/internal/store"
)

// Result reports the outcome of one topic generation request.
type Result struct {
	Added   []string `json:"added"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
}

// Service normalizes input, extracts topics from it and stores each topic
// as a new PENDING_SCRIPT item. Duplicate topics are skipped, not errors.
type Service struct {
	store      *store.DB
	normalizer *ingest.Normalizer
	content    content.Service
	log        *logger.Logger
}

func NewService(db *store.DB, normalizer *ingest.Normalizer, svc content.Service, log *logger.Logger) *Service {
	return &Service{
		store:      db,
		normalizer: normalizer,
		content:    svc,
		log:        log.WithComponent("topics"),
	}
}

// GenerateAndStore extracts up to count topics from the input and stores them.
func (s *Service) GenerateAndStore(ctx context.Context, in ingest.Input, count int) (Result, error) {
	if count <= 0 {
		return Result{}, fmt.Errorf("topic count must be positive, got %d", count)
	}

	text, err := s.normalizer.Normalize(ctx, in)
	if err != nil {
		return Result{}, fmt.Errorf("failed to normalize input: %w", err)
	}
	if len(text) > constants.TopicInputLimit {
		text = text[:constants.TopicInputLimit]
	}

	extracted, err := s.content.ExtractTopics(ctx, text, count)
	if err != nil {
		return Result{}, fmt.Errorf("topic extraction failed: %w", err)
	}

	detail := sourceDetail(in)
	var res Result
	for _, topic := range extracted {
		topic = strings.TrimSpace(topic)
		if topic == "" {
			continue
		}
		added, err := s.store.CreateItem(topic, string(in.Kind), detail, domain.StatusPendingScript)
		if err != nil {
			s.log.Error("Failed to store topic", "topic", topic, "error", err)
			res.Failed++
			continue
		}
		if !added {
			s.log.Info("Skipping duplicate topic", "topic", topic)
			res.Skipped++
			continue
		}
		res.Added = append(res.Added, topic)
	}

	s.log.Info("Topic generation complete",
		"added", len(res.Added), "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}

// sourceDetail builds a short provenance string for stored items.
func sourceDetail(in ingest.Input) string {
	var detail string
	switch in.Kind {
	case ingest.KindSamples:
		detail = fmt.Sprintf("based on %d samples", len(in.Samples))
	case ingest.KindAudio:
		detail = in.Path
	default:
		detail = strings.TrimSpace(in.Text)
	}
	if len(detail) > constants.SourceDetailLimit {
		detail = detail[:constants.SourceDetailLimit]
	}
	return detail
}
