package config

import "fmt"

// StrapiConfig holds the connection settings for the source CMS API.
type StrapiConfig struct {
	BaseURL        string `env:"STRAPI_API_URL"`
	Token          string `env:"STRAPI_API_TOKEN"`
	AgreementsPath string `env:"STRAPI_AGREEMENTS_PATH" env-default:"api/agreements"`
	PageSize       int    `env:"STRAPI_PAGE_SIZE" env-default:"100"`
}

// Validate reports missing required settings before any I/O happens.
func (c StrapiConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("STRAPI_API_URL is required")
	}
	if c.Token == "" {
		return fmt.Errorf("STRAPI_API_TOKEN is required")
	}
	return nil
}
