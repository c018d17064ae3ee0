package models

import (
	"bytes"
	"encoding/json"
	"maps"
	"time"
)

// Well-known [SiteConfig] keys.
const (
	KeyAppName          = "APP_NAME"
	KeyAppVersion       = "APP_VERSION"
	KeyICPNumber        = "ICP_NUMBER"
	KeyUserAvatar       = "USER_AVATAR"
	KeyAboutLink        = "ABOUT_LINK"
	KeyAPIURL           = "API_URL"
	KeySiteURL          = "SITE_URL"
	KeyIconURL          = "ICON_URL"
	KeyLogoDay          = "LOGO_HORIZONTAL_DAY"
	KeyLogoNight        = "LOGO_HORIZONTAL_NIGHT"
	KeyLogoURL          = "LOGO_URL"
	KeyLogoURL192       = "LOGO_URL_192x192"
	KeyLogoURL512       = "LOGO_URL_512x512"
	KeyDefaultThumb     = "DEFAULT_THUMB_PARAM"
	KeyDefaultBig       = "DEFAULT_BIG_PARAM"
	KeySiteAnnouncement = "SITE_ANNOUNCEMENT"
)

// SiteConfig is the flat, open-ended site configuration bundle.
type SiteConfig map[string]string

// Get returns the value for key, or "" when absent.
func (c SiteConfig) Get(key string) string {
	return c[key]
}

// Clone returns an independent copy; a nil config clones to an empty one.
func (c SiteConfig) Clone() SiteConfig {
	out := make(SiteConfig, len(c))
	maps.Copy(out, c)
	return out
}

// Merge returns a copy of c with every key of partial applied on top.
func (c SiteConfig) Merge(partial SiteConfig) SiteConfig {
	out := c.Clone()
	maps.Copy(out, partial)
	return out
}

// UnmarshalJSON accepts any JSON object. String values are kept as-is, null is
// dropped, and other values keep their JSON text (numbers, booleans, nested values).
func (c *SiteConfig) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*c = nil
		return nil
	}

	out := make(SiteConfig, len(raw))
	for key, value := range raw {
		value = bytes.TrimSpace(value)
		switch {
		case bytes.Equal(value, []byte("null")):
			continue
		case len(value) > 0 && value[0] == '"':
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				return err
			}
			out[key] = s
		default:
			out[key] = string(value)
		}
	}

	*c = out
	return nil
}

// CachedData is a persisted [SiteConfig] snapshot. Timestamp is Unix milliseconds.
type CachedData struct {
	Config    SiteConfig `json:"config"`
	Timestamp int64      `json:"timestamp"`
}

// NewCachedData wraps config with the capture time at.
func NewCachedData(config SiteConfig, at time.Time) CachedData {
	return CachedData{Config: config, Timestamp: at.UnixMilli()}
}

// Age returns how long ago the snapshot was captured relative to now.
func (d CachedData) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(d.Timestamp))
}

// Fresh reports whether the snapshot is younger than ttl.
func (d CachedData) Fresh(now time.Time, ttl time.Duration) bool {
	return d.Age(now) < ttl
}
