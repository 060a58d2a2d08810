package tracking

import (
	"net/url"
	"strings"
	"unicode/utf16"

	"engagement-tracker/internal/models"
)

// UnknownHandle replaces an external handle that could not be extracted from a social link.
const UnknownHandle = "unknown"

// LinkShare is the first link found in a message.
type LinkShare struct {
	URL string
	// ExternalHandle is nil when the link does not point at a social host.
	ExternalHandle *string
}

// LinkExtractor finds shared links and derives social handles from them.
type LinkExtractor struct {
	hosts []string
}

// NewLinkExtractor builds an extractor for the given social hosts.
func NewLinkExtractor(hosts []string) *LinkExtractor {
	normalized := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			normalized = append(normalized, h)
		}
	}
	return &LinkExtractor{hosts: normalized}
}

// Extract returns the first hyperlink of the message. Later links are ignored.
func (x *LinkExtractor) Extract(msg *models.Message) (LinkShare, bool) {
	for _, e := range msg.Entities {
		if !e.IsLink() {
			continue
		}

		link := e.URL
		if e.Type == models.EntityURL || link == "" {
			link = entityText(msg.Text, e)
		}

		return LinkShare{URL: link, ExternalHandle: x.handleOf(link)}, true
	}
	return LinkShare{}, false
}

func (x *LinkExtractor) handleOf(link string) *string {
	raw := strings.TrimSpace(link)
	if !hasWebScheme(raw) {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		// Unparseable links still count as social when they name a known host.
		lower := strings.ToLower(link)
		for _, h := range x.hosts {
			if strings.Contains(lower, h+"/") {
				return strPtr(UnknownHandle)
			}
		}
		return nil
	}

	if !x.isSocialHost(u.Hostname()) {
		return nil
	}

	segment, _, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if segment == "" {
		return strPtr(UnknownHandle)
	}
	return &segment
}

func (x *LinkExtractor) isSocialHost(host string) bool {
	host = strings.ToLower(host)
	for _, h := range x.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// entityText slices text by an entity span given in UTF-16 code units.
func entityText(text string, e models.Entity) string {
	units := utf16.Encode([]rune(text))
	start, end := e.Offset, e.Offset+e.Length
	if start < 0 || start > len(units) {
		return ""
	}
	if end > len(units) {
		end = len(units)
	}
	return string(utf16.Decode(units[start:end]))
}

func strPtr(s string) *string {
	return &s
}

// hasWebScheme reports whether link starts with http:// or https://. A scheme
// appearing later, e.g. in the query, does not count.
func hasWebScheme(link string) bool {
	lower := strings.ToLower(link)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
