// Package speech contains the text-to-speech providers used for voiceover
// generation. Providers share a uniform contract so the asset stage can try
// them in priority order without provider-specific branching.
package speech

import "context"

// Provider synthesizes speech for a script and writes the audio to outPath.
// A non-nil error means the attempt produced nothing usable; the caller owns
// cleanup of outPath.
type Provider interface {
	Name() string
	Synthesize(ctx context.Context, text, outPath string) error
}
