package notifications

import (
	"net/url"
	"strings"
)

const (
	DefaultWhatsAppBaseURL = "https://wa.me/"
	DefaultCountryCode     = "55"
)

// LinkBuilder produces click-to-chat deep links with a pre-filled message.
type LinkBuilder struct {
	BaseURL     string
	CountryCode string
}

// NewLinkBuilder returns a builder, falling back to wa.me and Brazil's
// country code for empty arguments.
func NewLinkBuilder(baseURL, countryCode string) LinkBuilder {
	if baseURL == "" {
		baseURL = DefaultWhatsAppBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	return LinkBuilder{BaseURL: baseURL, CountryCode: countryCode}
}

// Build strips every non-digit from phone, prefixes the country code when
// missing and appends the percent-encoded message. No further validation is
// done on the number.
func (b LinkBuilder) Build(phone, message string) string {
	digits := NormalizePhone(phone, b.CountryCode)
	return b.BaseURL + digits + "?text=" + encodeText(message)
}

// NormalizePhone keeps only the digits of phone and prefixes countryCode
// unless the digits already start with it.
func NormalizePhone(phone, countryCode string) string {
	var sb strings.Builder
	sb.Grow(len(phone) + len(countryCode))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	digits := sb.String()
	if !strings.HasPrefix(digits, countryCode) {
		digits = countryCode + digits
	}
	return digits
}

func encodeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
