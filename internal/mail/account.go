package mail

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dzieju/dzieju-app2/internal/config"
)

// Account binds an account record to its protocol client.
type Account struct {
	Config *config.Account
	IMAP   *IMAPClient
}

// AccountManager holds the configured accounts and tracks which one is the
// main account.
type AccountManager struct {
	accounts map[string]*Account
	main     string
}

// NewAccountManager builds clients for every configured account. Exchange
// accounts are accepted in the document but have no client here.
func NewAccountManager(accounts *config.Accounts, logger *logrus.Logger) (*AccountManager, error) {
	manager := &AccountManager{
		accounts: make(map[string]*Account),
		main:     accounts.Main().Name,
	}

	for i := range accounts.Accounts {
		accCfg := &accounts.Accounts[i]
		account := &Account{Config: accCfg}
		if accCfg.Type == config.AccountIMAP || accCfg.Type == "" {
			account.IMAP = NewIMAPClient(accCfg)
			if logger != nil {
				account.IMAP.SetLogger(logger)
			}
		}
		manager.accounts[accCfg.Name] = account
	}

	return manager, nil
}

// GetAccount returns an account by name; the empty name selects the main
// account.
func (m *AccountManager) GetAccount(name string) (*Account, error) {
	if name == "" {
		name = m.main
	}
	account, exists := m.accounts[name]
	if !exists {
		return nil, fmt.Errorf("account not found: %s", name)
	}
	return account, nil
}

// MainAccount returns the main account.
func (m *AccountManager) MainAccount() *Account {
	return m.accounts[m.main]
}

// ListAccounts returns all account names.
func (m *AccountManager) ListAccounts() []string {
	names := make([]string, 0, len(m.accounts))
	for name := range m.accounts {
		names = append(names, name)
	}
	return names
}

// Close closes all account connections.
func (m *AccountManager) Close() error {
	for _, account := range m.accounts {
		if account.IMAP != nil {
			account.IMAP.Close() //nolint:errcheck
		}
	}
	return nil
}
