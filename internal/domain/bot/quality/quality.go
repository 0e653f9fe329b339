// Package quality maps user-facing quality choices to extraction format specifiers
package quality

import (
	"fmt"

	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/entities"
)

// Key is a user-facing quality choice
type Key string

const (
	KeyBest  Key = "best"
	Key1080p Key = "1080"
	Key720p  Key = "720"
	Key480p  Key = "480"
	KeyAudio Key = "audio"
)

// AllKeys lists every quality choice offered to the user, in keyboard order
var AllKeys = []Key{KeyBest, Key1080p, Key720p, Key480p, KeyAudio}

// formatChains maps each quality key to an ordered yt-dlp fallback chain.
// Numeric format IDs: 137=1080p video, 136=720p video, 135=480p video,
// 134=360p video, 140=m4a audio, 18=360p mp4 with audio.
var formatChains = map[Key]entities.FormatSpec{
	KeyBest:  {Chain: "136+140/best[height<=720]/18"},
	Key1080p: {Chain: "137+140/best[height<=1080]"},
	Key720p:  {Chain: "136+140/best[height<=720]/134+140"},
	Key480p:  {Chain: "135+140/best[height<=480]/134+140"},
	KeyAudio: {Chain: "bestaudio[ext=m4a]/bestaudio", AudioOnly: true},
}

// expectedSizeMiB holds rough order-of-magnitude size expectations per tier,
// used only for the advisory oversize warning
var expectedSizeMiB = map[Key]int64{
	Key480p:  30,
	Key720p:  50,
	KeyBest:  50,
	Key1080p: 150,
}

// defaultExpectedSizeMiB applies to keys without a tier entry (audio)
const defaultExpectedSizeMiB = 50

// Parse converts a raw callback value into a Key; unknown values are
// rejected so callers can treat them as malformed input
func Parse(raw string) (Key, error) {
	key := Key(raw)
	if _, ok := formatChains[key]; !ok {
		return "", fmt.Errorf("unknown quality key: %q", raw)
	}
	return key, nil
}

// Resolve returns the format fallback chain for a quality key.
// An unknown key is a programming error, not user input, so it panics.
func Resolve(key Key) entities.FormatSpec {
	spec, ok := formatChains[key]
	if !ok {
		panic(fmt.Sprintf("quality: no format chain for key %q", key))
	}
	return spec
}

// ExpectedSize returns the expected file size in bytes for a quality tier
func ExpectedSize(key Key) int64 {
	mib, ok := expectedSizeMiB[key]
	if !ok {
		mib = defaultExpectedSizeMiB
	}
	return mib * 1024 * 1024
}

// Label returns the human-readable button label for a quality key
func Label(key Key) string {
	switch key {
	case KeyBest:
		return "🎥 Best Quality (720p)"
	case Key1080p:
		return "🔥 1080p (Large File)"
	case Key720p:
		return "📱 720p"
	case Key480p:
		return "📱 480p"
	case KeyAudio:
		return "🎵 Audio Only (MP3)"
	default:
		panic(fmt.Sprintf("quality: no label for key %q", key))
	}
}

// InstagramSpec is the fixed format used for the secondary platform:
// best available, mp4 preferred, no quality selection
func InstagramSpec() entities.FormatSpec {
	return entities.FormatSpec{Chain: "best[ext=mp4]/best"}
}
