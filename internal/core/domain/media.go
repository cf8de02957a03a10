package domain

import (
	"fmt"
	"strings"
)

// MediaCategory is a kind of media a message can carry.
// Categories are derived from a RawMessage at mapping time and are not
// mutually exclusive.
type MediaCategory int

// Media categories, in the fixed order they are evaluated and written.
const (
	MediaLink MediaCategory = iota
	MediaEmbed
	MediaFile
	MediaVideo
	MediaImage
	MediaSound
	MediaSticker
)

var mediaCategories = [...]MediaCategory{
	MediaLink,
	MediaEmbed,
	MediaFile,
	MediaVideo,
	MediaImage,
	MediaSound,
	MediaSticker,
}

var mediaNames = map[MediaCategory]string{
	MediaLink:    "link",
	MediaEmbed:   "embed",
	MediaFile:    "file",
	MediaVideo:   "video",
	MediaImage:   "image",
	MediaSound:   "sound",
	MediaSticker: "sticker",
}

var mediaPredicates = map[MediaCategory]func(*RawMessage) bool{
	MediaLink:    hasLink,
	MediaEmbed:   func(m *RawMessage) bool { return len(m.Embeds) > 0 },
	MediaFile:    func(m *RawMessage) bool { return len(m.Attachments) > 0 },
	MediaVideo:   func(m *RawMessage) bool { return hasMIMEPrefix(m, "video") },
	MediaImage:   func(m *RawMessage) bool { return hasMIMEPrefix(m, "image") },
	MediaSound:   func(m *RawMessage) bool { return hasMIMEPrefix(m, "audio") },
	MediaSticker: func(m *RawMessage) bool { return len(m.StickerIDs) > 0 },
}

// MediaCategories returns every category in evaluation order.
func MediaCategories() []MediaCategory {
	out := make([]MediaCategory, len(mediaCategories))
	copy(out, mediaCategories[:])
	return out
}

// String returns the canonical name written to the "has" field.
func (c MediaCategory) String() string {
	if name, ok := mediaNames[c]; ok {
		return name
	}
	return fmt.Sprintf("MediaCategory(%d)", int(c))
}

// IsValid returns true if the category is recognised.
func (c MediaCategory) IsValid() bool {
	_, ok := mediaNames[c]
	return ok
}

// InMessage reports whether the message carries this kind of media.
func (c MediaCategory) InMessage(m *RawMessage) bool {
	pred, ok := mediaPredicates[c]
	if !ok || m == nil {
		return false
	}
	return pred(m)
}

// ParseMediaCategory returns the category with the given canonical name.
func ParseMediaCategory(name string) (MediaCategory, error) {
	for _, c := range mediaCategories {
		if mediaNames[c] == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown media category %q", ErrInvalidInput, name)
}

// Classify returns every category present in the message, in evaluation order.
func Classify(m *RawMessage) []MediaCategory {
	var found []MediaCategory
	for _, c := range mediaCategories {
		if c.InMessage(m) {
			found = append(found, c)
		}
	}
	return found
}

// hasLink matches "http://" or "https://" anywhere in the content.
// Prose that merely contains the scheme also counts.
func hasLink(m *RawMessage) bool {
	return strings.Contains(m.Content, "http://") || strings.Contains(m.Content, "https://")
}

func hasMIMEPrefix(m *RawMessage, prefix string) bool {
	for _, a := range m.Attachments {
		if a.ContentType != nil && strings.HasPrefix(*a.ContentType, prefix) {
			return true
		}
	}
	return false
}
