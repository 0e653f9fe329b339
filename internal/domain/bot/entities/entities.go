// Package entities contains domain entities
package entities

import "net/url"

// Platform identifies a supported content source
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformUnknown   Platform = "unknown"
)

// youtubeHosts and instagramHosts are the hostname allow-lists used for
// platform classification
var (
	youtubeHosts = map[string]struct{}{
		"www.youtube.com": {},
		"youtube.com":     {},
		"m.youtube.com":   {},
		"youtu.be":        {},
	}
	instagramHosts = map[string]struct{}{
		"www.instagram.com": {},
		"instagram.com":     {},
	}
)

// DetectPlatform classifies a URL by its hostname
func DetectPlatform(rawURL string) Platform {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return PlatformUnknown
	}

	if _, ok := youtubeHosts[parsed.Host]; ok {
		return PlatformYouTube
	}
	if _, ok := instagramHosts[parsed.Host]; ok {
		return PlatformInstagram
	}

	return PlatformUnknown
}

// MediaKind distinguishes the delivered media type
type MediaKind string

const (
	MediaKindVideo MediaKind = "video"
	MediaKindAudio MediaKind = "audio"
)

// FormatSpec identifies which stream(s) the extraction engine should fetch
type FormatSpec struct {
	// Chain is an engine format string, possibly a "/"-separated fallback chain
	Chain string
	// AudioOnly requests audio extraction instead of a video stream
	AudioOnly bool
}

// FetchRequest describes one extraction operation
type FetchRequest struct {
	URL      string
	Platform Platform
	Format   FormatSpec
}

// ExtractionResult is the successful outcome of an extraction: exactly one
// media file on local disk plus descriptive metadata
type ExtractionResult struct {
	FilePath string
	Title    string
	Kind     MediaKind
	Size     int64
}

// UploadStatus is the terminal state of an upload
type UploadStatus string

const (
	// UploadDelivered means the file was sent as a typed media object
	UploadDelivered UploadStatus = "delivered"
	// UploadDeliveredAsDocument means the file was sent as a generic attachment
	UploadDeliveredAsDocument UploadStatus = "delivered_as_document"
	// UploadFailed means the transfer definitively failed
	UploadFailed UploadStatus = "failed"
	// UploadUnknown means the final attempt timed out client-side and the
	// transfer may still complete in the background
	UploadUnknown UploadStatus = "unknown"
)

// UploadOutcome is the terminal result of one transfer request
type UploadOutcome struct {
	Status   UploadStatus
	Attempts int
	Err      error
}
