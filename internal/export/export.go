// Package export writes the full vault inventory as CSV for offline
// auditing. Unlike the report tables, the export is never aggregated:
// every folder including nested ones contributes one row per secret.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/schubergphilis/lastpassreportingcli/internal/metrics"
	"github.com/schubergphilis/lastpassreportingcli/pkg/vault"
)

// header names the exported columns, in order.
var header = []string{
	"full_path",
	"id",
	"name",
	"url",
	"username",
	"last_modified",
	"last_touched",
	"last_password_modified",
	"status",
	"warning",
}

const (
	statusOK    = "OK"
	statusNotOK = "NOT_OK"
)

// WriteCSV writes the header and one row per secret to w. The status
// column reflects whether the password field was rotated after the cutoff;
// the warning column carries the same predicate the report counts.
func WriteCSV(w io.Writer, folders []*vault.Folder, cutoff time.Time, whitelist metrics.Whitelist) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, folder := range folders {
		for _, secret := range folder.Secrets {
			if err := cw.Write(row(folder, secret, cutoff, whitelist)); err != nil {
				return fmt.Errorf("failed to write CSV row for secret %s: %w", secret.ID, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToFile writes the CSV export to path, replacing an existing file.
func ToFile(path string, folders []*vault.Folder, cutoff time.Time, whitelist metrics.Whitelist) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close export file %s: %w", path, closeErr)
		}
	}()
	return WriteCSV(f, folders, cutoff, whitelist)
}

func row(folder *vault.Folder, s *vault.Secret, cutoff time.Time, whitelist metrics.Whitelist) []string {
	// Kinds without a credential report their kind name in the username
	// column, mirroring what the vault shows for such items.
	username := s.Username
	if s.Kind != vault.KindPassword {
		username = s.Kind.String()
	}
	status := statusOK
	if s.LastPasswordChange.Before(cutoff) {
		status = statusNotOK
	}
	return []string{
		folder.FullPath(),
		s.ID,
		s.Name,
		s.URL,
		username,
		s.LastModified.Format(time.RFC3339),
		s.LastTouched.Format(time.RFC3339),
		s.LastPasswordChange.Format(time.RFC3339),
		status,
		strconv.FormatBool(metrics.SecretInWarning(s, cutoff, whitelist)),
	}
}
