// Package mail binds configured accounts to their protocol clients and keeps
// the local cache in sync with the server.
package mail

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dzieju/dzieju-app2/internal/cache"
	"github.com/dzieju/dzieju-app2/internal/config"
	"github.com/dzieju/dzieju-app2/internal/folders"
	"github.com/dzieju/dzieju-app2/internal/search"
	"github.com/dzieju/dzieju-app2/pkg/types"
)

// Manager manages mail operations across the configured accounts.
type Manager struct {
	accountManager *AccountManager
	store          *cache.Store
	logger         *logrus.Logger
}

// NewManager creates a new mail manager.
func NewManager(accounts *config.Accounts, cacheStore *cache.Store, logger *logrus.Logger) (*Manager, error) {
	accountManager, err := NewAccountManager(accounts, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create account manager: %w", err)
	}

	return &Manager{
		accountManager: accountManager,
		store:          cacheStore,
		logger:         logger,
	}, nil
}

// Source returns a live message source for the named account, suitable for
// driving a search run. The empty name selects the main account.
func (m *Manager) Source(accountName string) (search.Source, error) {
	account, err := m.accountManager.GetAccount(accountName)
	if err != nil {
		return nil, err
	}
	if account.IMAP == nil {
		return nil, fmt.Errorf("account %s has no IMAP client", account.Config.Name)
	}
	return &imapSource{client: account.IMAP}, nil
}

// imapSource adapts an IMAP client to the search engine's source contract.
type imapSource struct {
	client *IMAPClient
}

func (s *imapSource) ListFolders() ([]*folders.Folder, error) {
	return s.client.ListFolders()
}

func (s *imapSource) Messages(folder string) ([]*search.Message, error) {
	return s.client.FetchMessages(folder)
}

// TestConnection verifies credentials for the named account.
func (m *Manager) TestConnection(accountName string) error {
	account, err := m.accountManager.GetAccount(accountName)
	if err != nil {
		return err
	}
	if account.IMAP == nil {
		return fmt.Errorf("account %s has no IMAP client", account.Config.Name)
	}
	return account.IMAP.TestConnection()
}

// ListFolders fetches the account's folders from the server and refreshes
// the cached copies.
func (m *Manager) ListFolders(accountName string) ([]*folders.Folder, error) {
	account, err := m.accountManager.GetAccount(accountName)
	if err != nil {
		return nil, err
	}
	if account.IMAP == nil {
		return nil, fmt.Errorf("account %s has no IMAP client", account.Config.Name)
	}

	list, err := account.IMAP.ListFolders()
	if err != nil {
		return nil, err
	}

	if m.store != nil {
		accountID, err := m.ensureAccount(account)
		if err != nil {
			m.logger.WithError(err).Warn("Failed to cache account")
			return list, nil
		}
		for _, f := range list {
			if _, err := m.store.UpsertFolder(accountID, f); err != nil {
				m.logger.WithError(err).WithField("folder", f.Name).Warn("Failed to cache folder")
			}
		}
	}

	return list, nil
}

// SyncAccount syncs messages from the server into the cache, either for one
// folder or for all of them when folderName is empty.
func (m *Manager) SyncAccount(accountName, folderName string) error {
	account, err := m.accountManager.GetAccount(accountName)
	if err != nil {
		return err
	}
	if account.IMAP == nil {
		return fmt.Errorf("account %s has no IMAP client", account.Config.Name)
	}

	accountID, err := m.ensureAccount(account)
	if err != nil {
		return err
	}

	if folderName == "" {
		list, err := account.IMAP.ListFolders()
		if err != nil {
			return fmt.Errorf("failed to list folders: %w", err)
		}
		for _, folder := range list {
			if err := m.syncFolder(account, accountID, folder); err != nil {
				m.logger.WithError(err).WithField("folder", folder.Name).Warn("Failed to sync folder")
			}
		}
		return nil
	}

	list, err := account.IMAP.ListFolders()
	if err != nil {
		return fmt.Errorf("failed to list folders: %w", err)
	}
	for _, folder := range list {
		if folder.Name == folderName {
			return m.syncFolder(account, accountID, folder)
		}
	}
	return fmt.Errorf("folder not found: %s", folderName)
}

// syncFolder syncs a single folder into the cache.
func (m *Manager) syncFolder(account *Account, accountID int, folder *folders.Folder) error {
	folderID, err := m.store.UpsertFolder(accountID, folder)
	if err != nil {
		return fmt.Errorf("failed to upsert folder: %w", err)
	}

	messages, err := account.IMAP.FetchMessages(folder.Name)
	if err != nil {
		return fmt.Errorf("failed to fetch messages: %w", err)
	}

	for _, msg := range messages {
		email := messageToEmail(msg, accountID, folderID)
		if err := m.store.UpsertEmail(email); err != nil {
			m.logger.WithError(err).WithField("uid", msg.UID).Warn("Failed to cache email")
		}
	}

	m.logger.WithFields(logrus.Fields{
		"account": account.Config.Name,
		"folder":  folder.Name,
		"count":   len(messages),
	}).Info("Synced folder")

	return nil
}

// ensureAccount makes sure the account row exists and returns its ID.
func (m *Manager) ensureAccount(account *Account) (int, error) {
	accountID, err := m.store.GetAccountID(account.Config.Name)
	if err == nil {
		return accountID, nil
	}
	accountID, err = m.store.UpsertAccount(account.Config)
	if err != nil {
		return 0, fmt.Errorf("failed to create account in cache: %w", err)
	}
	return accountID, nil
}

// messageToEmail flattens a fetched message into the cached email shape.
// Attachment names are materialized here so cached searches can filter on
// them without another server round trip.
func messageToEmail(msg *search.Message, accountID, folderID int) *types.Email {
	email := &types.Email{
		AccountID:      accountID,
		FolderID:       folderID,
		FolderPath:     msg.Folder,
		UID:            msg.UID,
		Subject:        msg.Subject,
		SenderName:     msg.SenderName,
		SenderEmail:    msg.SenderEmail,
		Date:           msg.ReceivedAt,
		BodyText:       msg.Body,
		IsRead:         !msg.Unread,
		HasAttachments: msg.HasAttachments,
	}
	if msg.Attachments != nil {
		if atts, err := msg.Attachments(); err == nil {
			for _, a := range atts {
				email.AttachmentNames = append(email.AttachmentNames, a.Filename)
			}
		}
	}
	return email
}

// GetAccount returns an account by name.
func (m *Manager) GetAccount(name string) (*Account, error) {
	return m.accountManager.GetAccount(name)
}

// ListAccounts returns all configured account names.
func (m *Manager) ListAccounts() []string {
	return m.accountManager.ListAccounts()
}

// Close closes all connections.
func (m *Manager) Close() error {
	return m.accountManager.Close()
}
