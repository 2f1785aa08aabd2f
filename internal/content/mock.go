package content

import "context"

// Mock is a Service stub for tests. Unset funcs return zero values.
type Mock struct {
	ExtractTopicsFunc  func(ctx context.Context, text string, count int) ([]string, error)
	GenerateScriptFunc func(ctx context.Context, topic string) (string, error)
	GenerateImagesFunc func(ctx context.Context, prompt string, count int, size string) ([]string, error)
}

func (m *Mock) ExtractTopics(ctx context.Context, text string, count int) ([]string, error) {
	if m.ExtractTopicsFunc != nil {
		return m.ExtractTopicsFunc(ctx, text, count)
	}
	return nil, nil
}

func (m *Mock) GenerateScript(ctx context.Context, topic string) (string, error) {
	if m.GenerateScriptFunc != nil {
		return m.GenerateScriptFunc(ctx, topic)
	}
	return "", nil
}

func (m *Mock) GenerateImages(ctx context.Context, prompt string, count int, size string) ([]string, error) {
	if m.GenerateImagesFunc != nil {
		return m.GenerateImagesFunc(ctx, prompt, count, size)
	}
	return nil, nil
}
