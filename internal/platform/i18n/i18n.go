// Package i18n defines the locales the application supports and how raw
// language values are matched against them.
package i18n

import (
	"strings"

	// Registers the embedded catalogs with x/text/message.
	_ "github.com/louisbranch/userdesk/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
)

var supportedTags = []language.Tag{
	language.Make("zh-CN"),
	language.Make("en-US"),
}

var matcher = language.NewMatcher(supportedTags)

// SupportedTags returns the supported locales, default first.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supportedTags))
	copy(out, supportedTags)
	return out
}

// DefaultTag returns the locale used when nothing better matches.
func DefaultTag() language.Tag {
	return supportedTags[0]
}

// ParseTag resolves a raw language value to a supported tag.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTag(), false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return DefaultTag(), false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return DefaultTag(), false
	}
	return supportedTags[index], true
}

// MatchTags picks the best supported tag for a preference list such as a
// parsed Accept-Language header.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supportedTags[index]
}
