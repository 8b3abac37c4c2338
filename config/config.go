package config

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type Config struct {
	ServerPort           string   `json:"server_port"`
	DatabasePath         string   `json:"database_path"`
	GroupStorePath       string   `json:"group_store_path"`
	ServerSecret         string   `json:"server_secret"`
	JWTSecret            string   `json:"jwt_secret"`
	Production           bool     `json:"production"`
	SessionDurationHours int      `json:"session_duration_hours"`
	AdminEmails          []string `json:"admin_emails"`
	AuditRetentionDays   int      `json:"audit_retention_days"`

	// Outbound integrations. API keys are sealed with the server secret
	// before they touch disk (see services.SealSecret).
	AIBaseURL         string `json:"ai_base_url"`
	AIModel           string `json:"ai_model"`
	AIAPIKeySealed    []byte `json:"ai_api_key_sealed,omitempty"`
	EmailAPIURL       string `json:"email_api_url"`
	EmailFrom         string `json:"email_from"`
	EmailAPIKeySealed []byte `json:"email_api_key_sealed,omitempty"`
}

var (
	instance *Config
	once     sync.Once
)

func generateSecret(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)
}

func getConfigPath() string {
	configDir := os.Getenv("ALMONER_CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			configDir = "."
		} else {
			configDir = filepath.Join(homeDir, ".almoner")
		}
	}
	return filepath.Join(configDir, "config.json")
}

func GetConfig() *Config {
	once.Do(func() {
		instance = &Config{
			ServerPort:   "8080",
			DatabasePath: "",
			ServerSecret: "",
			JWTSecret:    "",
			Production:   false,
		}

		configPath := getConfigPath()

		// Try to load existing config
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, instance); err != nil {
				// Config file is corrupted, will use defaults
			}
		}

		// Set defaults
		if instance.SessionDurationHours == 0 {
			instance.SessionDurationHours = 24
		}
		if instance.AuditRetentionDays == 0 {
			instance.AuditRetentionDays = 90
		}
		if instance.AIBaseURL == "" {
			instance.AIBaseURL = "https://api.openai.com/v1"
		}
		if instance.AIModel == "" {
			instance.AIModel = "gpt-4o-mini"
		}

		// Generate secrets if not set
		needsSave := false
		if instance.ServerSecret == "" {
			instance.ServerSecret = generateSecret(32)
			needsSave = true
		}
		if instance.JWTSecret == "" {
			instance.JWTSecret = generateSecret(32)
			needsSave = true
		}
		configDir := filepath.Dir(configPath)
		if instance.DatabasePath == "" {
			instance.DatabasePath = filepath.Join(configDir, "almoner.db")
			needsSave = true
		}
		if instance.GroupStorePath == "" {
			instance.GroupStorePath = filepath.Join(configDir, "donor_groups.json")
			needsSave = true
		}

		// Override with environment variables
		if port := os.Getenv("ALMONER_PORT"); port != "" {
			instance.ServerPort = port
		}
		if dbPath := os.Getenv("ALMONER_DB_PATH"); dbPath != "" {
			instance.DatabasePath = dbPath
		}
		if groupPath := os.Getenv("ALMONER_GROUP_STORE_PATH"); groupPath != "" {
			instance.GroupStorePath = groupPath
		}
		if emails := os.Getenv("ALMONER_ADMIN_EMAILS"); emails != "" {
			instance.AdminEmails = splitEmails(emails)
		}
		if baseURL := os.Getenv("ALMONER_AI_BASE_URL"); baseURL != "" {
			instance.AIBaseURL = baseURL
		}
		if model := os.Getenv("ALMONER_AI_MODEL"); model != "" {
			instance.AIModel = model
		}
		if url := os.Getenv("ALMONER_EMAIL_API_URL"); url != "" {
			instance.EmailAPIURL = url
		}
		if from := os.Getenv("ALMONER_EMAIL_FROM"); from != "" {
			instance.EmailFrom = from
		}
		if os.Getenv("ALMONER_PRODUCTION") == "true" {
			instance.Production = true
		}

		// Save config if we generated new secrets
		if needsSave {
			instance.Save()
		}
	})

	return instance
}

func splitEmails(raw string) []string {
	var emails []string
	for _, part := range strings.Split(raw, ",") {
		if email := strings.ToLower(strings.TrimSpace(part)); email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}

// AdminEmailSet returns the admin allow-list as a lowercased lookup set.
// The list is deployment configuration, never a compiled-in constant.
func (c *Config) AdminEmailSet() map[string]bool {
	set := make(map[string]bool, len(c.AdminEmails))
	for _, email := range c.AdminEmails {
		set[strings.ToLower(strings.TrimSpace(email))] = true
	}
	return set
}

func (c *Config) Save() error {
	configPath := getConfigPath()

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}
