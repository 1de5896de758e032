package config

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/tiffinhub/config"
	ConfigFileName    = "tiffinhub.yml"

	// DefaultAdminEmail is the support principal that may bypass tenant
	// isolation when no admin_email is configured.
	DefaultAdminEmail = "support@tiffinhub.io"
)

// Config holds all tiffinhub server settings.
type Config struct {
	// AdminEmail is the principal allowed to bypass tenant isolation.
	AdminEmail string `yaml:"admin_email" json:"admin_email"`

	// JWTSigningKey is the HS256 key used to verify bearer tokens.
	JWTSigningKey string `yaml:"jwt_signing_key" json:"jwt_signing_key"`

	// APIListLimitMax caps the number of results for list requests.
	APIListLimitMax int `yaml:"api_list_limit_max" json:"api_list_limit_max"`

	// ReminderGraceDays is how many days past due a payment must be
	// before the reminder job picks it up.
	ReminderGraceDays int `yaml:"reminder_grace_days" json:"reminder_grace_days"`

	// PhotoRetentionDays is how long delivered photo references are kept
	// before the cleanup job clears them.
	PhotoRetentionDays int `yaml:"photo_retention_days" json:"photo_retention_days"`

	// JobsEnabled controls whether the scheduled jobs run inside the server.
	JobsEnabled bool `yaml:"jobs_enabled" json:"jobs_enabled"`

	// StripeAPIKey is the secret key for the Stripe client.
	StripeAPIKey string `yaml:"stripe_api_key" json:"stripe_api_key"`

	// StripeWebhookSecret verifies webhook signatures.
	StripeWebhookSecret string `yaml:"stripe_webhook_secret" json:"stripe_webhook_secret"`

	// PublicBaseURL is where hosted checkout pages redirect customers
	// back to.
	PublicBaseURL string `yaml:"public_base_url" json:"public_base_url"`

	// TwilioAccountSID and TwilioAuthToken configure the messaging client.
	TwilioAccountSID string `yaml:"twilio_account_sid" json:"twilio_account_sid"`
	TwilioAuthToken  string `yaml:"twilio_auth_token" json:"twilio_auth_token"`

	// TwilioFromNumber is the sender for WhatsApp/SMS reminders.
	TwilioFromNumber string `yaml:"twilio_from_number" json:"twilio_from_number"`

	// SMTPHost, SMTPPort and SMTPFrom configure the outbound mailer.
	SMTPHost string `yaml:"smtp_host" json:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port" json:"smtp_port"`
	SMTPFrom string `yaml:"smtp_from" json:"smtp_from"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source.
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment.
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

func newDefault() *Config {
	return &Config{
		AdminEmail:         DefaultAdminEmail,
		APIListLimitMax:    1000,
		ReminderGraceDays:  3,
		PhotoRetentionDays: 30,
		JobsEnabled:        true,
		SMTPPort:           587,
		sources:            make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("TIFFIN_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"admin_email", "jwt_signing_key", "api_list_limit_max",
		"reminder_grace_days", "photo_retention_days", "jobs_enabled",
		"stripe_api_key", "stripe_webhook_secret", "public_base_url",
		"twilio_account_sid", "twilio_auth_token", "twilio_from_number",
		"smtp_host", "smtp_port", "smtp_from",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	if file.AdminEmail != "" {
		c.AdminEmail = file.AdminEmail
		c.sources["admin_email"] = "file"
	}
	if file.JWTSigningKey != "" {
		c.JWTSigningKey = file.JWTSigningKey
		c.sources["jwt_signing_key"] = "file"
	}
	if file.APIListLimitMax != 0 {
		c.APIListLimitMax = file.APIListLimitMax
		c.sources["api_list_limit_max"] = "file"
	}
	if file.ReminderGraceDays != 0 {
		c.ReminderGraceDays = file.ReminderGraceDays
		c.sources["reminder_grace_days"] = "file"
	}
	if file.PhotoRetentionDays != 0 {
		c.PhotoRetentionDays = file.PhotoRetentionDays
		c.sources["photo_retention_days"] = "file"
	}
	if file.StripeAPIKey != "" {
		c.StripeAPIKey = file.StripeAPIKey
		c.sources["stripe_api_key"] = "file"
	}
	if file.StripeWebhookSecret != "" {
		c.StripeWebhookSecret = file.StripeWebhookSecret
		c.sources["stripe_webhook_secret"] = "file"
	}
	if file.PublicBaseURL != "" {
		c.PublicBaseURL = file.PublicBaseURL
		c.sources["public_base_url"] = "file"
	}
	if file.TwilioAccountSID != "" {
		c.TwilioAccountSID = file.TwilioAccountSID
		c.sources["twilio_account_sid"] = "file"
	}
	if file.TwilioAuthToken != "" {
		c.TwilioAuthToken = file.TwilioAuthToken
		c.sources["twilio_auth_token"] = "file"
	}
	if file.TwilioFromNumber != "" {
		c.TwilioFromNumber = file.TwilioFromNumber
		c.sources["twilio_from_number"] = "file"
	}
	if file.SMTPHost != "" {
		c.SMTPHost = file.SMTPHost
		c.sources["smtp_host"] = "file"
	}
	if file.SMTPPort != 0 {
		c.SMTPPort = file.SMTPPort
		c.sources["smtp_port"] = "file"
	}
	if file.SMTPFrom != "" {
		c.SMTPFrom = file.SMTPFrom
		c.sources["smtp_from"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("TIFFIN_ADMIN_EMAIL"); val != "" {
		c.AdminEmail = val
		c.sources["admin_email"] = "environment"
	}
	if val := os.Getenv("TIFFIN_JWT_SIGNING_KEY"); val != "" {
		c.JWTSigningKey = val
		c.sources["jwt_signing_key"] = "environment"
	}
	if val := os.Getenv("TIFFIN_API_LIST_LIMIT_MAX"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.APIListLimitMax = i
			c.sources["api_list_limit_max"] = "environment"
		}
	}
	if val := os.Getenv("TIFFIN_REMINDER_GRACE_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.ReminderGraceDays = i
			c.sources["reminder_grace_days"] = "environment"
		}
	}
	if val := os.Getenv("TIFFIN_PHOTO_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.PhotoRetentionDays = i
			c.sources["photo_retention_days"] = "environment"
		}
	}
	if val := os.Getenv("TIFFIN_JOBS_ENABLED"); val != "" {
		c.JobsEnabled = val == "true" || val == "1"
		c.sources["jobs_enabled"] = "environment"
	}
	if val := os.Getenv("STRIPE_API_KEY"); val != "" {
		c.StripeAPIKey = val
		c.sources["stripe_api_key"] = "environment"
	}
	if val := os.Getenv("STRIPE_WEBHOOK_SECRET"); val != "" {
		c.StripeWebhookSecret = val
		c.sources["stripe_webhook_secret"] = "environment"
	}
	if val := os.Getenv("TIFFIN_PUBLIC_BASE_URL"); val != "" {
		c.PublicBaseURL = val
		c.sources["public_base_url"] = "environment"
	}
	if val := os.Getenv("TWILIO_ACCOUNT_SID"); val != "" {
		c.TwilioAccountSID = val
		c.sources["twilio_account_sid"] = "environment"
	}
	if val := os.Getenv("TWILIO_AUTH_TOKEN"); val != "" {
		c.TwilioAuthToken = val
		c.sources["twilio_auth_token"] = "environment"
	}
	if val := os.Getenv("TWILIO_FROM_NUMBER"); val != "" {
		c.TwilioFromNumber = val
		c.sources["twilio_from_number"] = "environment"
	}
	if val := os.Getenv("TIFFIN_SMTP_HOST"); val != "" {
		c.SMTPHost = val
		c.sources["smtp_host"] = "environment"
	}
	if val := os.Getenv("TIFFIN_SMTP_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.SMTPPort = i
			c.sources["smtp_port"] = "environment"
		}
	}
	if val := os.Getenv("TIFFIN_SMTP_FROM"); val != "" {
		c.SMTPFrom = val
		c.sources["smtp_from"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file.
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute.
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := mail.ParseAddress(c.AdminEmail); err != nil {
		return fmt.Errorf("invalid admin_email value: %s", c.AdminEmail)
	}
	if c.SMTPFrom != "" {
		if _, err := mail.ParseAddress(c.SMTPFrom); err != nil {
			return fmt.Errorf("invalid smtp_from value: %s", c.SMTPFrom)
		}
	}
	if c.APIListLimitMax < 0 {
		return fmt.Errorf("api_list_limit_max must not be negative")
	}
	return nil
}

// Attributes returns all configuration attributes with their values and
// sources. Secret values are redacted.
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "admin_email", Value: c.AdminEmail, Source: c.Source("admin_email")},
		{Name: "jwt_signing_key", Value: redact(c.JWTSigningKey), Source: c.Source("jwt_signing_key")},
		{Name: "api_list_limit_max", Value: strconv.Itoa(c.APIListLimitMax), Source: c.Source("api_list_limit_max")},
		{Name: "reminder_grace_days", Value: strconv.Itoa(c.ReminderGraceDays), Source: c.Source("reminder_grace_days")},
		{Name: "photo_retention_days", Value: strconv.Itoa(c.PhotoRetentionDays), Source: c.Source("photo_retention_days")},
		{Name: "jobs_enabled", Value: strconv.FormatBool(c.JobsEnabled), Source: c.Source("jobs_enabled")},
		{Name: "stripe_api_key", Value: redact(c.StripeAPIKey), Source: c.Source("stripe_api_key")},
		{Name: "stripe_webhook_secret", Value: redact(c.StripeWebhookSecret), Source: c.Source("stripe_webhook_secret")},
		{Name: "public_base_url", Value: c.PublicBaseURL, Source: c.Source("public_base_url")},
		{Name: "twilio_account_sid", Value: c.TwilioAccountSID, Source: c.Source("twilio_account_sid")},
		{Name: "twilio_auth_token", Value: redact(c.TwilioAuthToken), Source: c.Source("twilio_auth_token")},
		{Name: "twilio_from_number", Value: c.TwilioFromNumber, Source: c.Source("twilio_from_number")},
		{Name: "smtp_host", Value: c.SMTPHost, Source: c.Source("smtp_host")},
		{Name: "smtp_port", Value: strconv.Itoa(c.SMTPPort), Source: c.Source("smtp_port")},
		{Name: "smtp_from", Value: c.SMTPFrom, Source: c.Source("smtp_from")},
	}
}

// FormatText returns a text representation of the configuration.
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-25s %-35s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-25s %-35s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-25s %-35s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration.
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "(redacted)"
}
