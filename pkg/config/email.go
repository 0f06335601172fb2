package config

// EmailConfig holds SMTP settings for outbound notices.
type EmailConfig struct {
	Host     string `env:"EMAIL_HOST" env-default:"localhost"`
	Port     int    `env:"EMAIL_PORT" env-default:"1025"`
	Username string `env:"EMAIL_USERNAME"`
	Password string `env:"EMAIL_PASSWORD"`
	From     string `env:"EMAIL_FROM" env-default:"noreply@akademy.app"`
	TLS      bool   `env:"EMAIL_TLS" env-default:"false"`
}
