// Package vault defines the domain model and client boundary for vault
// backends in lastpassreportingcli.
//
// The reporting core never talks to LastPass directly. It consumes the types
// in this package - Secret, Folder and the Client interface - and leaves
// authentication, retrieval and decryption to whatever implements Client
// (the production implementation lives in internal/lastpass and wraps
// github.com/ansd/lastpass-go).
//
// # Folder paths
//
// LastPass separates folder segments with a backslash. The personal root of
// the vault is addressed by the path marker RootPath ("\"); shared folders
// are addressed by their share name with no leading marker. A folder's full
// path is its parent path joined to its name with PathSeparator.
//
// # Error handling
//
// Authentication failures are reported as *AuthError carrying one of the
// AuthFailure kinds, so callers can decide which credential to ask for
// again. Everything else is a plain error.
package vault

import (
	"context"
	"time"
)

// PathSeparator joins folder path segments, matching the separator LastPass
// itself uses in group names.
const PathSeparator = `\`

// RootPath is the full path of the personal root folder. Secrets that live
// directly in the vault, outside any folder, belong to it.
const RootPath = `\`

// Kind classifies a secret by what it stores.
type Kind int

const (
	// KindPassword is a site credential with username and password fields.
	KindPassword Kind = iota

	// KindSecureNote stores free-form text instead of a credential.
	KindSecureNote

	// KindOther covers vault items that are neither of the above, such as
	// applications or attachments.
	KindOther
)

// String returns the lowercase name of the kind. It doubles as the username
// placeholder in CSV exports for kinds without a username field.
func (k Kind) String() string {
	switch k {
	case KindPassword:
		return "password"
	case KindSecureNote:
		return "secure-note"
	default:
		return "other"
	}
}

// Secret is a single decrypted vault item together with the metadata the
// rotation report is computed from. Instances are read-only to the reporting
// core; only the implementation of Client constructs them.
type Secret struct {
	// ID is the backend's unique identifier for the item.
	ID string

	// Name is the display name of the item.
	Name string

	// URL is the site address, or one of the LastPass marker URLs for
	// non-password items.
	URL string

	// Kind tells what the item stores. Only KindPassword items take part
	// in password-specific checks such as the warning predicate.
	Kind Kind

	// Username and Password are the credential fields. Both are empty for
	// kinds that do not carry a credential.
	Username string
	Password string

	// Notes holds the free-form notes field, the body for secure notes.
	Notes string

	// Share is the name of the shared folder the item lives in, empty for
	// personal items.
	Share string

	// Group is the folder path inside the vault or inside the share, empty
	// for items at the top level.
	Group string

	// LastModified is when any field of the item last changed.
	LastModified time.Time

	// LastTouched is when the item was last opened or used.
	LastTouched time.Time

	// LastPasswordChange is when the password field last changed. Backends
	// that do not track the password field separately report the item
	// modification time here.
	LastPasswordChange time.Time
}

// Shared reports whether the secret lives in a shared folder.
func (s *Secret) Shared() bool {
	return s.Share != ""
}

// FolderPath returns the full path of the folder owning the secret:
// the share name joined with Group for shared items, Group or RootPath for
// personal ones.
func (s *Secret) FolderPath() string {
	if s.Shared() {
		if s.Group == "" {
			return s.Share
		}
		return s.Share + PathSeparator + s.Group
	}
	if s.Group == "" {
		return RootPath
	}
	return s.Group
}

// Folder is one node of the vault's folder tree, holding the secrets placed
// directly inside it (not those of nested folders).
type Folder struct {
	// Name is the last path segment, or RootPath for the personal root.
	Name string

	// Path is the full path of the parent folder, empty for folders at the
	// top level.
	Path string

	// Personal is true for folders of the private vault, false for shared
	// folders.
	Personal bool

	// Root marks top-level folders: the personal root itself, folders
	// directly below it, and share roots.
	Root bool

	// Secrets are the items placed directly in this folder, in backend
	// order.
	Secrets []*Secret
}

// FullPath joins Path and Name with PathSeparator. Top-level folders return
// their name as-is.
func (f *Folder) FullPath() string {
	if f.Path == "" {
		return f.Name
	}
	return f.Path + PathSeparator + f.Name
}

// Add appends a secret to the folder.
func (f *Folder) Add(s *Secret) {
	f.Secrets = append(f.Secrets, s)
}

// Client is the boundary to a vault backend. Implementations authenticate
// up front and expose the decrypted vault as a flat list of secrets plus the
// folder tree those secrets live in.
//
// Both views describe the same retrieval: every secret in Secrets appears in
// exactly one folder of Folders, and implementations are expected to fetch
// once and serve both views from the same snapshot. Implementations must be
// safe for concurrent use.
//
// Example usage:
//
//	secrets, err := client.Secrets(ctx)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve secrets: %w", err)
//	}
//	folders, err := client.Folders(ctx)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve folders: %w", err)
//	}
type Client interface {
	// Secrets returns every secret of the vault as a flat list.
	Secrets(ctx context.Context) ([]*Secret, error)

	// Folders returns the vault's folder tree ordered by full path. The
	// personal root folder is always present, even when empty.
	Folders(ctx context.Context) ([]*Folder, error)
}

// AuthFailure classifies why an authentication attempt was rejected.
type AuthFailure int

const (
	// AuthFailureOther is any failure the backend did not attribute to a
	// specific credential, including network errors.
	AuthFailureOther AuthFailure = iota

	// AuthFailureUnknownUsername means the backend does not know the
	// account.
	AuthFailureUnknownUsername

	// AuthFailureInvalidPassword means the master password was rejected.
	AuthFailureInvalidPassword

	// AuthFailureInvalidOTP means the one-time passcode was rejected,
	// missing or expired.
	AuthFailureInvalidOTP
)

// String returns a short name for the failure kind, used in log output.
func (f AuthFailure) String() string {
	switch f {
	case AuthFailureUnknownUsername:
		return "unknown username"
	case AuthFailureInvalidPassword:
		return "invalid password"
	case AuthFailureInvalidOTP:
		return "invalid or missing one-time passcode"
	default:
		return "authentication failure"
	}
}

// AuthError reports a failed authentication attempt against the backend.
// Kind tells which credential was rejected, when the backend said so.
type AuthError struct {
	// Kind classifies the failure.
	Kind AuthFailure

	// Err is the underlying backend error.
	Err error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

// Unwrap returns the underlying backend error.
func (e *AuthError) Unwrap() error {
	return e.Err
}
