package assetfile

import (
	"fmt"

	"github.com/bogem/id3v2/v2"
)

// TagVoiceover writes ID3v2 tags to a generated voiceover MP3 so the
// artifact stays identifiable outside the pipeline directory layout.
func TagVoiceover(filePath, topic, channel string) error {
	tag, err := id3v2.Open(filePath, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open MP3 file: %w", err)
	}
	defer tag.Close()

	tag.SetVersion(4)
	tag.SetTitle(topic)
	if channel != "" {
		tag.SetArtist(channel)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save tags: %w", err)
	}
	return nil
}
