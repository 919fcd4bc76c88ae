// Package lastpass adapts the LastPass backend to the vault model used by
// the reporting core.
//
// The Authenticator owns the login conversation, including re-prompting
// for whichever credential the backend rejected, and hands out a Client.
// The Client retrieves and decrypts the vault once, on first use, and
// serves the secret list and folder tree from that snapshot.
package lastpass

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	lastpassgo "github.com/ansd/lastpass-go"

	"github.com/schubergphilis/lastpassreportingcli/internal/logging"
	"github.com/schubergphilis/lastpassreportingcli/pkg/vault"
)

// LastPass marks non-password vault items with well-known URLs.
const (
	secureNoteURL   = "http://sn"
	folderMarkerURL = "http://group"
)

// Backend is the slice of the upstream client the reporting core needs.
// *lastpassgo.Client satisfies it.
type Backend interface {
	Accounts(ctx context.Context) ([]*lastpassgo.Account, error)
	Logout(ctx context.Context) error
}

// Client implements vault.Client on top of an authenticated LastPass
// session. The vault is fetched once; Secrets and Folders serve the same
// snapshot and are safe for concurrent use.
type Client struct {
	backend Backend
	logger  *logging.Logger

	fetchOnce sync.Once
	fetchErr  error
	secrets   []*vault.Secret
	folders   []*vault.Folder
}

// New wraps an authenticated backend session.
func New(backend Backend, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.New(logging.LevelInfo, true)
	}
	return &Client{backend: backend, logger: logger}
}

// Secrets returns every secret of the vault as a flat list.
func (c *Client) Secrets(ctx context.Context) ([]*vault.Secret, error) {
	if err := c.fetch(ctx); err != nil {
		return nil, err
	}
	return c.secrets, nil
}

// Folders returns the vault folder tree ordered by full path. The personal
// root folder is always present.
func (c *Client) Folders(ctx context.Context) ([]*vault.Folder, error) {
	if err := c.fetch(ctx); err != nil {
		return nil, err
	}
	return c.folders, nil
}

// Logout invalidates the backend session.
func (c *Client) Logout(ctx context.Context) error {
	return c.backend.Logout(ctx)
}

func (c *Client) fetch(ctx context.Context) error {
	c.fetchOnce.Do(func() {
		accounts, err := c.backend.Accounts(ctx)
		if err != nil {
			c.fetchErr = fmt.Errorf("failed to retrieve accounts: %w", err)
			return
		}
		c.secrets, c.folders = mapVault(accounts)
		c.logger.Debug("retrieved %d accounts in %d folders from Lastpass", len(c.secrets), len(c.folders))
	})
	return c.fetchErr
}

// mapVault turns the flat upstream account list into the secret list and
// folder tree of the vault model. Folder-marker accounts only create their
// folder and are dropped from the secret list.
func mapVault(accounts []*lastpassgo.Account) ([]*vault.Secret, []*vault.Folder) {
	folders := newFolderSet()
	secrets := make([]*vault.Secret, 0, len(accounts))
	for _, account := range accounts {
		if account.URL == folderMarkerURL {
			folders.ensure(account.Share, account.Group)
			continue
		}
		secret := mapAccount(account)
		folders.ensure(account.Share, account.Group).Add(secret)
		secrets = append(secrets, secret)
	}
	return secrets, folders.sorted()
}

func mapAccount(account *lastpassgo.Account) *vault.Secret {
	secret := &vault.Secret{
		ID:           account.ID,
		Name:         account.Name,
		URL:          account.URL,
		Kind:         classifyKind(account),
		Username:     account.Username,
		Password:     account.Password,
		Notes:        account.Notes,
		Share:        account.Share,
		Group:        account.Group,
		LastModified: parseUnixSeconds(account.LastModifiedGMT),
		LastTouched:  parseUnixSeconds(account.LastTouch),
	}
	// The backend does not expose a separate password-change timestamp,
	// so the item modification time stands in for it.
	secret.LastPasswordChange = secret.LastModified
	return secret
}

func classifyKind(account *lastpassgo.Account) vault.Kind {
	if account.URL == secureNoteURL {
		return vault.KindSecureNote
	}
	return vault.KindPassword
}

// parseUnixSeconds reads the epoch-second strings the backend uses for
// timestamps. Unset or unparsable values map to the zero time.
func parseUnixSeconds(value string) time.Time {
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil || seconds <= 0 {
		return time.Time{}
	}
	return time.Unix(seconds, 0).UTC()
}

// folderSet builds the folder tree, creating missing ancestors as paths
// are observed. The personal root folder always exists.
type folderSet struct {
	byPath map[string]*vault.Folder
	order  []*vault.Folder
}

func newFolderSet() *folderSet {
	root := &vault.Folder{Name: vault.RootPath, Personal: true, Root: true}
	return &folderSet{
		byPath: map[string]*vault.Folder{vault.RootPath: root},
		order:  []*vault.Folder{root},
	}
}

// ensure returns the folder for the given share and group, creating it and
// every ancestor on first sight. Personal secrets without a group belong
// to the personal root.
func (fs *folderSet) ensure(share, group string) *vault.Folder {
	if share == "" && group == "" {
		return fs.byPath[vault.RootPath]
	}

	var segments []string
	if share != "" {
		segments = append(segments, share)
	}
	if group != "" {
		segments = append(segments, strings.Split(group, vault.PathSeparator)...)
	}

	personal := share == ""
	path := ""
	var folder *vault.Folder
	for _, name := range segments {
		full := name
		if path != "" {
			full = path + vault.PathSeparator + name
		}
		f, ok := fs.byPath[full]
		if !ok {
			f = &vault.Folder{Name: name, Path: path, Personal: personal, Root: path == ""}
			fs.byPath[full] = f
			fs.order = append(fs.order, f)
		}
		folder = f
		path = full
	}
	return folder
}

func (fs *folderSet) sorted() []*vault.Folder {
	sort.Slice(fs.order, func(i, j int) bool {
		return fs.order[i].FullPath() < fs.order[j].FullPath()
	})
	return fs.order
}
