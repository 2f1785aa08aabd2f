// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort          = "8080"
	DefaultDBPath        = "clipmill.db"
	DefaultAssetsDir     = "assets"
	DefaultItemsPerRun   = 2
	DefaultTargetVisuals = 8
	DefaultImageStyle    = "photorealistic"
	DefaultImageSize     = "1024x1024"
	DefaultChatModel     = "gpt-4-turbo-preview"
	DefaultImageModel    = "dall-e-3"
	DefaultWhisperModel  = "whisper-1"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultDeepgramModel = "aura-asteria-en"
	DefaultTTSPriority   = "deepgram,elevenlabs"
)

// HTTP client
const (
	DefaultHTTPTimeout  = 3 * time.Minute
	DownloadHTTPTimeout = 60 * time.Second
	DefaultRetryCount   = 3
	DefaultRetryBase    = 1 * time.Second
	MinRequestInterval  = 250 * time.Millisecond
)

// Artifact layout
const (
	ScriptFileName    = "script.txt"
	VoiceoverFileName = "voiceover.mp3"
	VisualsDirName    = "visuals"
	DownloadsDirName  = "_downloads"
	SlugMaxLength     = 50
)

// Script structure markers required in generated scripts
const (
	HookMarker = "Hook:"
	BodyMarker = "Body:"
)

// Visual generation
const (
	MinSegmentLength = 10
	VisualCycleCap   = 2
	MinVisualRatio   = 0.75
)

// Provider limits
const (
	DeepgramCharLimit = 2000
	TopicInputLimit   = 3000
	SourceDetailLimit = 200
)

// External tooling
const (
	YtDlpTimeout = 5 * time.Minute
)
