package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration. Runtime knobs come from
// environment variables; account records live in a JSON document whose path
// is itself a config value rather than a package constant.
type Config struct {
	AccountsPath      string
	CachePath         string
	SearchResultLimit int
	LogLevel          string
}

// AccountType distinguishes protocol adapters for an account.
type AccountType string

const (
	AccountIMAP     AccountType = "imap"
	AccountExchange AccountType = "exchange"
)

// Account is one entry of the persisted accounts document. The field set
// mirrors the configuration dialog: IMAP accounts fill the imap/smtp
// fields, Exchange accounts the server and optional domain.
type Account struct {
	Name     string      `json:"name"`
	Type     AccountType `json:"type"`
	Email    string      `json:"email"`
	Username string      `json:"username"`
	Password string      `json:"password"`

	IMAPServer string `json:"imap_server,omitempty"`
	IMAPPort   int    `json:"imap_port,omitempty"`
	SMTPServer string `json:"smtp_server,omitempty"`
	SMTPPort   int    `json:"smtp_port,omitempty"`

	ExchangeServer string `json:"exchange_server,omitempty"`
	Domain         string `json:"domain,omitempty"`
}

// Accounts is the persisted accounts document.
type Accounts struct {
	Accounts         []Account `json:"accounts"`
	MainAccountIndex int       `json:"main_account_index"`
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		AccountsPath:      getEnv("MAIL_CONFIG_PATH", "mail_config.json"),
		CachePath:         getEnv("CACHE_PATH", "mail_cache.db"),
		SearchResultLimit: getEnvInt("SEARCH_RESULT_LIMIT", 100),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.AccountsPath == "" {
		return fmt.Errorf("MAIL_CONFIG_PATH is required")
	}
	if c.CachePath == "" {
		return fmt.Errorf("CACHE_PATH is required")
	}
	if c.SearchResultLimit < 1 || c.SearchResultLimit > 1000 {
		return fmt.Errorf("SEARCH_RESULT_LIMIT must be between 1 and 1000")
	}
	return nil
}

// LoadAccounts reads the accounts document from path.
func LoadAccounts(path string) (*Accounts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts file: %w", err)
	}

	var accounts Accounts
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("failed to parse accounts file: %w", err)
	}
	if err := accounts.Validate(); err != nil {
		return nil, err
	}
	return &accounts, nil
}

// SaveAccounts writes the accounts document to path.
func SaveAccounts(path string, accounts *Accounts) error {
	if err := accounts.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal accounts: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write accounts file: %w", err)
	}
	return nil
}

// Validate checks the accounts document for structural problems.
func (a *Accounts) Validate() error {
	if len(a.Accounts) == 0 {
		return fmt.Errorf("no accounts configured")
	}
	if a.MainAccountIndex < 0 || a.MainAccountIndex >= len(a.Accounts) {
		return fmt.Errorf("main_account_index %d out of range", a.MainAccountIndex)
	}
	for i := range a.Accounts {
		acc := &a.Accounts[i]
		if acc.Name == "" {
			return fmt.Errorf("account %d: name is required", i)
		}
		if acc.Email == "" {
			return fmt.Errorf("account %s: email is required", acc.Name)
		}
		switch acc.Type {
		case AccountIMAP, "":
			if acc.IMAPServer == "" {
				return fmt.Errorf("account %s: imap_server is required", acc.Name)
			}
		case AccountExchange:
			if acc.ExchangeServer == "" {
				return fmt.Errorf("account %s: exchange_server is required", acc.Name)
			}
		default:
			return fmt.Errorf("account %s: unknown type %q", acc.Name, acc.Type)
		}
	}
	return nil
}

// Main returns the main account.
func (a *Accounts) Main() *Account {
	return &a.Accounts[a.MainAccountIndex]
}

// ByName finds an account by name.
func (a *Accounts) ByName(name string) (*Account, error) {
	for i := range a.Accounts {
		if a.Accounts[i].Name == name {
			return &a.Accounts[i], nil
		}
	}
	return nil, fmt.Errorf("account not found: %s", name)
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
