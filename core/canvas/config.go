package canvas

import "strings"

// Config holds the credentials for one LMS account.
type Config struct {
	// APIToken is the bearer token issued by the LMS.
	APIToken string `mapstructure:"api_token" default:""`
	// APIBase is the account root, e.g. https://school.instructure.com.
	APIBase string `mapstructure:"api_base" default:""`
	// Label names the account in logs and error reports.
	Label string `mapstructure:"label" default:""`
}

// Configured reports whether the account can be synced at all.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.APIToken) != "" && strings.TrimSpace(c.APIBase) != ""
}

// DisplayLabel falls back to the base URL when no label is set.
func (c Config) DisplayLabel() string {
	if l := strings.TrimSpace(c.Label); l != "" {
		return l
	}
	return c.APIBase
}
