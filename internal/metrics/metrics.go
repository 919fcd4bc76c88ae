// Package metrics derives rotation progress numbers from vault folders.
//
// A FolderMetrics wraps one folder together with the incident cutoff date
// and the warning whitelist; every count and percentage is computed on read
// from the folder's current secret list, never cached and never mutating
// the folder. The aggregation that decides which folders exist in the first
// place (rollup versus detailed) lives in this package too, see Build.
package metrics

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/schubergphilis/lastpassreportingcli/pkg/vault"
)

// Whitelist holds secret ids exempted from warning checks.
type Whitelist map[string]struct{}

// NewWhitelist builds a whitelist from a list of secret ids.
func NewWhitelist(ids []string) Whitelist {
	w := make(Whitelist, len(ids))
	for _, id := range ids {
		w[id] = struct{}{}
	}
	return w
}

// Contains reports whether the id is whitelisted.
func (w Whitelist) Contains(id string) bool {
	_, ok := w[id]
	return ok
}

// SecretInWarning reports whether a secret looks updated without its
// password actually having been rotated. All of the following must hold:
// the modification and password-change timestamps differ, the password
// changed before the cutoff, the secret was modified at or after the
// cutoff, it is a password secret with a non-empty password, and its id is
// not whitelisted.
func SecretInWarning(s *vault.Secret, cutoff time.Time, whitelist Whitelist) bool {
	return !s.LastModified.Equal(s.LastPasswordChange) &&
		s.LastPasswordChange.Before(cutoff) &&
		!s.LastModified.Before(cutoff) &&
		s.Kind == vault.KindPassword && s.Password != "" &&
		!whitelist.Contains(s.ID)
}

// WarningSecret pairs a flagged secret with the name of the folder it was
// found in.
type WarningSecret struct {
	FolderName string
	Secret     *vault.Secret
}

// String renders the warning detail line shown under a report table.
func (w WarningSecret) String() string {
	return fmt.Sprintf("%s: '%s' (%s) last modified '%s', but secret field last modified '%s' (id:'%s')",
		w.FolderName,
		w.Secret.Name,
		w.Secret.URL,
		w.Secret.LastModified.Format(time.RFC3339),
		w.Secret.LastPasswordChange.Format(time.RFC3339),
		w.Secret.ID)
}

// WarningSnapshot is the machine-readable shape of one warning.
type WarningSnapshot struct {
	FolderName         string `json:"folder_name" yaml:"folder_name"`
	Name               string `json:"name" yaml:"name"`
	URL                string `json:"url" yaml:"url"`
	LastModified       string `json:"last_modified" yaml:"last_modified"`
	LastPasswordChange string `json:"last_password_change" yaml:"last_password_change"`
	ID                 string `json:"id" yaml:"id"`
}

// Snapshot returns the warning as plain values for JSON or YAML encoding.
func (w WarningSecret) Snapshot() WarningSnapshot {
	return WarningSnapshot{
		FolderName:         w.FolderName,
		Name:               w.Secret.Name,
		URL:                w.Secret.URL,
		LastModified:       w.Secret.LastModified.Format(time.RFC3339),
		LastPasswordChange: w.Secret.LastPasswordChange.Format(time.RFC3339),
		ID:                 w.Secret.ID,
	}
}

// FolderMetrics wraps one folder with the cutoff date and warning
// whitelist. All fields are derived on read; the wrapped folder is never
// mutated.
type FolderMetrics struct {
	folder    *vault.Folder
	cutoff    time.Time
	whitelist Whitelist
}

// New wraps a folder for metric computation.
func New(folder *vault.Folder, cutoff time.Time, whitelist Whitelist) *FolderMetrics {
	return &FolderMetrics{folder: folder, cutoff: cutoff, whitelist: whitelist}
}

// Name returns the wrapped folder's name.
func (m *FolderMetrics) Name() string {
	return m.folder.Name
}

// FullPath returns the wrapped folder's full path.
func (m *FolderMetrics) FullPath() string {
	return m.folder.FullPath()
}

// Root reports whether the folder is a top-level folder.
func (m *FolderMetrics) Root() bool {
	return m.folder.Root
}

// Personal reports whether the folder belongs to the private vault.
func (m *FolderMetrics) Personal() bool {
	return m.folder.Personal
}

// SecretCount is the number of secrets in the folder.
func (m *FolderMetrics) SecretCount() int {
	return len(m.folder.Secrets)
}

// UpdatedCount is the number of secrets modified after the cutoff date.
// Any field change counts, not just the password; the warning predicate
// exists to flag that difference.
func (m *FolderMetrics) UpdatedCount() int {
	count := 0
	for _, s := range m.folder.Secrets {
		if s.LastModified.After(m.cutoff) {
			count++
		}
	}
	return count
}

// RemainingCount is the number of secrets still awaiting rotation.
func (m *FolderMetrics) RemainingCount() int {
	return m.SecretCount() - m.UpdatedCount()
}

// PercentageDone is the share of updated secrets rounded to two decimals.
// A folder without secrets reports 100; values above 100 clamp to 100.
func (m *FolderMetrics) PercentageDone() float64 {
	total := m.SecretCount()
	if total == 0 {
		return 100
	}
	percentage := round2(float64(m.UpdatedCount()) / float64(total) * 100)
	if percentage >= 100 {
		return 100
	}
	return percentage
}

// PercentageLeft is the share of secrets still to update, computed
// independently of PercentageDone. A folder without secrets reports 0.
func (m *FolderMetrics) PercentageLeft() float64 {
	total := m.SecretCount()
	if total == 0 {
		return 0
	}
	return round2(100 - float64(m.UpdatedCount())/float64(total)*100)
}

// Completed reports whether the folder is fully rotated.
func (m *FolderMetrics) Completed() bool {
	return m.PercentageDone() == 100
}

// InProgress reports whether any secret in the folder still needs rotation.
func (m *FolderMetrics) InProgress() bool {
	return !m.Completed()
}

// SecretInWarning applies the warning predicate with the wrapped cutoff and
// whitelist.
func (m *FolderMetrics) SecretInWarning(s *vault.Secret) bool {
	return SecretInWarning(s, m.cutoff, m.whitelist)
}

// Warnings returns a WarningSecret for every flagged secret in the folder.
func (m *FolderMetrics) Warnings() []WarningSecret {
	var warnings []WarningSecret
	for _, s := range m.folder.Secrets {
		if m.SecretInWarning(s) {
			warnings = append(warnings, WarningSecret{FolderName: m.folder.Name, Secret: s})
		}
	}
	return warnings
}

// WarningCount is the number of flagged secrets in the folder.
func (m *FolderMetrics) WarningCount() int {
	return len(m.Warnings())
}

// HasWarnings reports whether any secret in the folder is flagged.
func (m *FolderMetrics) HasWarnings() bool {
	return m.WarningCount() > 0
}

// Snapshot is the machine-readable shape of one folder's metrics.
type Snapshot struct {
	Path                    string  `json:"path" yaml:"path"`
	PercentageDone          float64 `json:"percentage_done" yaml:"percentage_done"`
	NumberOfSecrets         int     `json:"number_of_secrets" yaml:"number_of_secrets"`
	NumberOfUpdatedSecrets  int     `json:"number_of_updated_secrets" yaml:"number_of_updated_secrets"`
	NumberOfSecretsToUpdate int     `json:"number_of_secrets_to_update" yaml:"number_of_secrets_to_update"`
	Warnings                int     `json:"warnings" yaml:"warnings"`
}

// Snapshot returns the folder metrics as plain values for JSON or YAML
// encoding.
func (m *FolderMetrics) Snapshot() Snapshot {
	return Snapshot{
		Path:                    m.FullPath(),
		PercentageDone:          m.PercentageDone(),
		NumberOfSecrets:         m.SecretCount(),
		NumberOfUpdatedSecrets:  m.UpdatedCount(),
		NumberOfSecretsToUpdate: m.RemainingCount(),
		Warnings:                m.WarningCount(),
	}
}

// String summarizes the folder's progress on one line.
func (m *FolderMetrics) String() string {
	return fmt.Sprintf("%s %s%% rotated. (%d/%d) %d left, warnings: %d",
		m.FullPath(),
		FormatPercentage(m.PercentageDone()),
		m.UpdatedCount(),
		m.SecretCount(),
		m.RemainingCount(),
		m.WarningCount())
}

// FormatPercentage renders a percentage without trailing zeros, so a fully
// rotated folder shows "100" and a partial one "98.73".
func FormatPercentage(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
