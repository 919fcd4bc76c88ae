package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schubergphilis/lastpassreportingcli/pkg/vault"
)

var testCutoff = time.Date(2022, 9, 22, 0, 0, 0, 0, time.UTC)

// rotatedSecret was fully rotated after the cutoff.
func rotatedSecret(id, name string) *vault.Secret {
	changed := testCutoff.AddDate(0, 1, 0)
	return &vault.Secret{
		ID:                 id,
		Name:               name,
		URL:                "https://example.com",
		Kind:               vault.KindPassword,
		Password:           "s3cret",
		LastModified:       changed,
		LastPasswordChange: changed,
	}
}

// staleSecret was never touched after the cutoff.
func staleSecret(id, name string) *vault.Secret {
	changed := testCutoff.AddDate(-1, 0, 0)
	return &vault.Secret{
		ID:                 id,
		Name:               name,
		URL:                "https://example.com",
		Kind:               vault.KindPassword,
		Password:           "s3cret",
		LastModified:       changed,
		LastPasswordChange: changed,
	}
}

// suspiciousSecret looks updated but its password field was never rotated.
func suspiciousSecret(id, name string) *vault.Secret {
	return &vault.Secret{
		ID:                 id,
		Name:               name,
		URL:                "https://example.com",
		Kind:               vault.KindPassword,
		Password:           "s3cret",
		LastModified:       testCutoff.AddDate(0, 2, 0),
		LastPasswordChange: testCutoff.AddDate(-1, 0, 0),
	}
}

func TestFolderMetricsCounts(t *testing.T) {
	t.Parallel()

	folder := &vault.Folder{Name: "Shared-Ops", Root: true}
	folder.Add(rotatedSecret("111111111111111111", "db password"))
	folder.Add(staleSecret("222222222222222222", "api token"))

	m := New(folder, testCutoff, nil)

	assert.Equal(t, 2, m.SecretCount())
	assert.Equal(t, 1, m.UpdatedCount())
	assert.Equal(t, 1, m.RemainingCount())
	assert.Equal(t, 50.0, m.PercentageDone())
	assert.Equal(t, 50.0, m.PercentageLeft())
	assert.False(t, m.Completed())
	assert.True(t, m.InProgress())
}

func TestFolderMetricsPercentages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rotated  int
		stale    int
		wantDone float64
		wantLeft float64
	}{
		{
			name:     "empty folder counts as done",
			rotated:  0,
			stale:    0,
			wantDone: 100,
			wantLeft: 0,
		},
		{
			name:     "fully rotated",
			rotated:  2,
			stale:    0,
			wantDone: 100,
			wantLeft: 0,
		},
		{
			name:     "nothing rotated",
			rotated:  0,
			stale:    2,
			wantDone: 0,
			wantLeft: 100,
		},
		{
			name:     "half rotated",
			rotated:  1,
			stale:    1,
			wantDone: 50,
			wantLeft: 50,
		},
		{
			name:     "one third rotated rounds to two decimals",
			rotated:  1,
			stale:    2,
			wantDone: 33.33,
			wantLeft: 66.67,
		},
		{
			name:     "two thirds rotated rounds to two decimals",
			rotated:  2,
			stale:    1,
			wantDone: 66.67,
			wantLeft: 33.33,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			folder := &vault.Folder{Name: "Shared-Ops", Root: true}
			for i := 0; i < tc.rotated; i++ {
				folder.Add(rotatedSecret("111111111111111111", "rotated"))
			}
			for i := 0; i < tc.stale; i++ {
				folder.Add(staleSecret("222222222222222222", "stale"))
			}

			m := New(folder, testCutoff, nil)

			assert.Equal(t, tc.wantDone, m.PercentageDone())
			assert.Equal(t, tc.wantLeft, m.PercentageLeft())
			assert.LessOrEqual(t, m.PercentageDone(), 100.0)
			assert.GreaterOrEqual(t, m.PercentageLeft(), 0.0)
		})
	}
}

func TestSecretInWarning(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		secret    *vault.Secret
		whitelist Whitelist
		want      bool
	}{
		{
			name:   "touched after cutoff with stale password",
			secret: suspiciousSecret("111111111111111111", "db password"),
			want:   true,
		},
		{
			name: "modified exactly at the cutoff still counts",
			secret: &vault.Secret{
				ID:                 "111111111111111111",
				Kind:               vault.KindPassword,
				Password:           "s3cret",
				LastModified:       testCutoff,
				LastPasswordChange: testCutoff.AddDate(-1, 0, 0),
			},
			want: true,
		},
		{
			name:   "rotated secret with matching timestamps",
			secret: rotatedSecret("111111111111111111", "db password"),
			want:   false,
		},
		{
			name:   "stale secret never touched",
			secret: staleSecret("111111111111111111", "db password"),
			want:   false,
		},
		{
			name: "password rotated after cutoff",
			secret: &vault.Secret{
				ID:                 "111111111111111111",
				Kind:               vault.KindPassword,
				Password:           "s3cret",
				LastModified:       testCutoff.AddDate(0, 2, 0),
				LastPasswordChange: testCutoff.AddDate(0, 1, 0),
			},
			want: false,
		},
		{
			name: "secure note is never flagged",
			secret: &vault.Secret{
				ID:                 "111111111111111111",
				Kind:               vault.KindSecureNote,
				LastModified:       testCutoff.AddDate(0, 2, 0),
				LastPasswordChange: testCutoff.AddDate(-1, 0, 0),
			},
			want: false,
		},
		{
			name: "password item with empty password field",
			secret: &vault.Secret{
				ID:                 "111111111111111111",
				Kind:               vault.KindPassword,
				Password:           "",
				LastModified:       testCutoff.AddDate(0, 2, 0),
				LastPasswordChange: testCutoff.AddDate(-1, 0, 0),
			},
			want: false,
		},
		{
			name:      "whitelisted id is exempt",
			secret:    suspiciousSecret("111111111111111111", "db password"),
			whitelist: NewWhitelist([]string{"111111111111111111"}),
			want:      false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, SecretInWarning(tc.secret, testCutoff, tc.whitelist))
		})
	}
}

func TestWarnings(t *testing.T) {
	t.Parallel()

	folder := &vault.Folder{Name: "Shared-Ops", Root: true}
	flagged := suspiciousSecret("111111111111111111", "db password")
	folder.Add(flagged)
	folder.Add(rotatedSecret("222222222222222222", "api token"))

	m := New(folder, testCutoff, nil)

	warnings := m.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "Shared-Ops", warnings[0].FolderName)
	assert.Same(t, flagged, warnings[0].Secret)
	assert.Equal(t, 1, m.WarningCount())
	assert.True(t, m.HasWarnings())
}

func TestWarningSecretString(t *testing.T) {
	t.Parallel()

	w := WarningSecret{
		FolderName: "Shared-Ops",
		Secret: &vault.Secret{
			ID:                 "111111111111111111",
			Name:               "db password",
			URL:                "https://db.example.com",
			LastModified:       time.Date(2022, 11, 1, 12, 0, 0, 0, time.UTC),
			LastPasswordChange: time.Date(2021, 3, 15, 8, 30, 0, 0, time.UTC),
		},
	}

	want := "Shared-Ops: 'db password' (https://db.example.com) " +
		"last modified '2022-11-01T12:00:00Z', " +
		"but secret field last modified '2021-03-15T08:30:00Z' (id:'111111111111111111')"
	assert.Equal(t, want, w.String())
}

func TestFolderMetricsSnapshot(t *testing.T) {
	t.Parallel()

	folder := &vault.Folder{Name: "Shared-Ops", Root: true}
	folder.Add(rotatedSecret("111111111111111111", "db password"))
	folder.Add(staleSecret("222222222222222222", "api token"))
	folder.Add(suspiciousSecret("333333333333333333", "service account"))

	snapshot := New(folder, testCutoff, nil).Snapshot()

	assert.Equal(t, Snapshot{
		Path:                    "Shared-Ops",
		PercentageDone:          66.67,
		NumberOfSecrets:         3,
		NumberOfUpdatedSecrets:  2,
		NumberOfSecretsToUpdate: 1,
		Warnings:                1,
	}, snapshot)
}

func TestFolderMetricsString(t *testing.T) {
	t.Parallel()

	folder := &vault.Folder{Name: "Shared-Ops", Root: true}
	folder.Add(rotatedSecret("111111111111111111", "db password"))
	folder.Add(staleSecret("222222222222222222", "api token"))

	m := New(folder, testCutoff, nil)

	assert.Equal(t, "Shared-Ops 50% rotated. (1/2) 1 left, warnings: 0", m.String())
}

func TestFormatPercentage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value float64
		want  string
	}{
		{value: 100, want: "100"},
		{value: 98.73, want: "98.73"},
		{value: 50, want: "50"},
		{value: 33.33, want: "33.33"},
		{value: 0, want: "0"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.want, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, FormatPercentage(tc.value))
		})
	}
}

func TestWhitelist(t *testing.T) {
	t.Parallel()

	w := NewWhitelist([]string{"111111111111111111", "222222222222222222"})

	assert.True(t, w.Contains("111111111111111111"))
	assert.False(t, w.Contains("999999999999999999"))
	assert.False(t, Whitelist(nil).Contains("111111111111111111"))
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	first := &vault.Folder{Name: "Shared-Ops", Root: true}
	first.Add(rotatedSecret("111111111111111111", "db password"))
	first.Add(staleSecret("222222222222222222", "api token"))
	first.Add(staleSecret("333333333333333333", "service account"))
	second := &vault.Folder{Name: vault.RootPath, Personal: true, Root: true}
	second.Add(rotatedSecret("444444444444444444", "private key"))

	totals := Summarize([]*FolderMetrics{
		New(first, testCutoff, nil),
		New(second, testCutoff, nil),
	})

	assert.Equal(t, Totals{
		Folders:         2,
		Secrets:         4,
		UpdatedSecrets:  2,
		SecretsToUpdate: 2,
		PercentageDone:  50,
		PercentageLeft:  50,
	}, totals)
}

func TestSummarizeWithoutSecrets(t *testing.T) {
	t.Parallel()

	totals := Summarize([]*FolderMetrics{
		New(&vault.Folder{Name: "Shared-Ops", Root: true}, testCutoff, nil),
	})

	assert.Equal(t, 0.0, totals.PercentageDone)
	assert.Equal(t, 0.0, totals.PercentageLeft)
	assert.Equal(t, 1, totals.Folders)
}
