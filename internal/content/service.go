package content

import "context"

// Service provides the three generation capabilities the pipeline depends on:
// topic extraction, script text generation and image generation.
type Service interface {
	// ExtractTopics derives up to count topic ideas from free text. The
	// result may be shorter than requested.
	ExtractTopics(ctx context.Context, text string, count int) ([]string, error)

	// GenerateScript produces raw script text for a topic. Structural
	// validation of the result is the caller's concern.
	GenerateScript(ctx context.Context, topic string) (string, error)

	// GenerateImages returns retrievable image URLs for a prompt. An empty
	// slice means the provider produced nothing usable.
	GenerateImages(ctx context.Context, prompt string, count int, size string) ([]string, error)
}
