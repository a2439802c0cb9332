package config

import "fmt"

type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsDevelopment reports whether the server runs in development mode.
// Development mode relaxes the HTTPS requirement on the public endpoints.
func (s *ServerConfig) IsDevelopment() bool {
	return s.Mode == "development" || s.Mode == "debug"
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// BillingConfig holds the billing provider integration settings.
type BillingConfig struct {
	WebhookSecret string `mapstructure:"webhook_secret"`
}

// PlanConfig describes one billable plan: the provider price ID it is sold
// under, a display name, and the monthly credit allotment.
type PlanConfig struct {
	PriceID        string `mapstructure:"price_id"`
	Name           string `mapstructure:"name"`
	MonthlyCredits int    `mapstructure:"monthly_credits"`
}

type PlansConfig struct {
	Plans []PlanConfig `mapstructure:"plans"`
}
