package notion

// Config holds the Notion integration settings.
type Config struct {
	// APIToken is the internal integration secret.
	APIToken string `mapstructure:"api_token" default:""`
	// BaseURL is the API root.
	BaseURL string `mapstructure:"base_url" default:"https://api.notion.com"`
	// Version is sent as the Notion-Version header.
	Version string `mapstructure:"version" default:"2022-06-28"`
}
