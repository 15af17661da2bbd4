package cache

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dzieju/dzieju-app2/internal/config"
	"github.com/dzieju/dzieju-app2/internal/folders"
	"github.com/dzieju/dzieju-app2/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	c, err := NewCache(filepath.Join(t.TempDir(), "cache.db"), logger)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return NewStore(c, logger)
}

func testAccount() *config.Account {
	return &config.Account{
		Name:       "work",
		Type:       config.AccountIMAP,
		Email:      "user@example.com",
		Username:   "user",
		IMAPServer: "imap.example.com",
		IMAPPort:   993,
	}
}

func seedEmail(t *testing.T, s *Store, accountID, folderID int, uid uint32, subject string, date time.Time, read, hasAtt bool) {
	t.Helper()
	err := s.UpsertEmail(&types.Email{
		AccountID:      accountID,
		FolderID:       folderID,
		UID:            uid,
		MessageID:      "<msg>",
		Subject:        subject,
		SenderName:     "Play",
		SenderEmail:    "billing@play.pl",
		Date:           date,
		BodyText:       "e-korekta do pobrania",
		IsRead:         read,
		HasAttachments: hasAtt,
	})
	if err != nil {
		t.Fatalf("UpsertEmail() error = %v", err)
	}
}

func TestAccountAndFolderUpsert(t *testing.T) {
	s := newTestStore(t)

	accountID, err := s.UpsertAccount(testAccount())
	if err != nil {
		t.Fatalf("UpsertAccount() error = %v", err)
	}

	got, err := s.GetAccountID("work")
	if err != nil || got != accountID {
		t.Fatalf("GetAccountID() = %d, %v; want %d", got, err, accountID)
	}

	folder := folders.New("INBOX", "INBOX", 12, 4096, []string{`\HasNoChildren`}, "/")
	folderID, err := s.UpsertFolder(accountID, folder)
	if err != nil {
		t.Fatalf("UpsertFolder() error = %v", err)
	}

	// Upserting again must update in place, not duplicate.
	folder.MessageCount = 15
	againID, err := s.UpsertFolder(accountID, folder)
	if err != nil {
		t.Fatalf("second UpsertFolder() error = %v", err)
	}
	if againID != folderID {
		t.Errorf("second upsert ID = %d, want %d", againID, folderID)
	}

	list, err := s.ListFolders(accountID)
	if err != nil {
		t.Fatalf("ListFolders() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d folders, want 1", len(list))
	}
	if list[0].MessageCount != 15 {
		t.Errorf("MessageCount = %d, want 15", list[0].MessageCount)
	}
	if list[0].Role != folders.RoleInbox {
		t.Errorf("Role = %q, want inbox", list[0].Role)
	}
	if list[0].SizeBytes != 4096 {
		t.Errorf("SizeBytes = %d, want 4096", list[0].SizeBytes)
	}
}

func TestEmailRoundTrip(t *testing.T) {
	s := newTestStore(t)
	accountID, _ := s.UpsertAccount(testAccount())
	folderID, _ := s.UpsertFolder(accountID, folders.New("INBOX", "INBOX", 1, 0, nil, "/"))

	date := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	err := s.UpsertEmail(&types.Email{
		AccountID:       accountID,
		FolderID:        folderID,
		UID:             42,
		MessageID:       "<abc@play.pl>",
		Subject:         "Play - e-korekta do pobrania",
		SenderEmail:     "billing@play.pl",
		Date:            date,
		BodyText:        "NIP: 123-456-789",
		HasAttachments:  true,
		AttachmentNames: []string{"KOREKTA-K_00025405_10_25-KONTO_12629296.pdf"},
	})
	if err != nil {
		t.Fatalf("UpsertEmail() error = %v", err)
	}

	var id int64
	if err := s.cache.DB().QueryRow("SELECT id FROM emails WHERE uid = 42").Scan(&id); err != nil {
		t.Fatalf("lookup failed: %v", err)
	}

	email, err := s.GetEmail(id)
	if err != nil {
		t.Fatalf("GetEmail() error = %v", err)
	}
	if email.Subject != "Play - e-korekta do pobrania" || !email.HasAttachments {
		t.Errorf("email = %+v", email)
	}
	if !email.Date.Equal(date) {
		t.Errorf("Date = %v, want %v", email.Date, date)
	}
	if len(email.AttachmentNames) != 1 {
		t.Errorf("AttachmentNames = %v", email.AttachmentNames)
	}
	if email.FolderPath != "INBOX" || email.AccountName != "work" {
		t.Errorf("join fields = %q, %q", email.FolderPath, email.AccountName)
	}
}

func TestSearchFilters(t *testing.T) {
	s := newTestStore(t)
	accountID, _ := s.UpsertAccount(testAccount())
	folderID, _ := s.UpsertFolder(accountID, folders.New("INBOX", "INBOX", 3, 0, nil, "/"))

	june := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	seedEmail(t, s, accountID, folderID, 1, "Faktura za maj", june, false, true)
	seedEmail(t, s, accountID, folderID, 2, "Newsletter", june.AddDate(0, 0, 5), true, false)
	seedEmail(t, s, accountID, folderID, 3, "Faktura za kwiecień", june.AddDate(0, -2, 0), true, true)

	t.Run("subject substring", func(t *testing.T) {
		subject := "faktura"
		got, err := s.Search(SearchOptions{Subject: &subject})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d results, want 2", len(got))
		}
	})

	t.Run("unread only", func(t *testing.T) {
		unread := true
		got, err := s.Search(SearchOptions{Unread: &unread})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(got) != 1 || got[0].Subject != "Faktura za maj" {
			t.Errorf("results = %+v", got)
		}
	})

	t.Run("has attachments", func(t *testing.T) {
		has := true
		got, err := s.Search(SearchOptions{HasAttachments: &has})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d results, want 2", len(got))
		}
	})

	t.Run("date window", func(t *testing.T) {
		from := june.AddDate(0, 0, -1)
		got, err := s.Search(SearchOptions{DateFrom: &from})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d results, want 2", len(got))
		}
		// Newest first.
		if len(got) == 2 && got[0].Subject != "Newsletter" {
			t.Errorf("order = %q, %q", got[0].Subject, got[1].Subject)
		}
	})

	t.Run("fts body", func(t *testing.T) {
		got, err := s.SearchFTS("korekta", nil, 10)
		if err != nil {
			t.Fatalf("SearchFTS() error = %v", err)
		}
		if len(got) != 3 {
			t.Errorf("got %d results, want 3", len(got))
		}
		for _, r := range got {
			if r.Snippet == "" {
				t.Errorf("%s: empty snippet", r.Subject)
			}
		}
	})
}

func TestHasEmails(t *testing.T) {
	s := newTestStore(t)
	accountID, _ := s.UpsertAccount(testAccount())

	ok, err := s.HasEmails(accountID)
	if err != nil || ok {
		t.Fatalf("HasEmails() = %v, %v; want false", ok, err)
	}

	folderID, _ := s.UpsertFolder(accountID, folders.New("INBOX", "INBOX", 1, 0, nil, "/"))
	seedEmail(t, s, accountID, folderID, 1, "hello", time.Now(), false, false)

	ok, err = s.HasEmails(accountID)
	if err != nil || !ok {
		t.Fatalf("HasEmails() = %v, %v; want true", ok, err)
	}
	any, err := s.HasAnyEmails()
	if err != nil || !any {
		t.Fatalf("HasAnyEmails() = %v, %v; want true", any, err)
	}
}
