package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schubergphilis/lastpassreportingcli/internal/metrics"
	"github.com/schubergphilis/lastpassreportingcli/pkg/vault"
)

var exportCutoff = time.Date(2022, 9, 22, 0, 0, 0, 0, time.UTC)

func testExportFolders() []*vault.Folder {
	after := exportCutoff.AddDate(0, 1, 0)
	before := exportCutoff.AddDate(-1, 0, 0)

	root := &vault.Folder{Name: vault.RootPath, Personal: true, Root: true}
	root.Add(&vault.Secret{
		ID:                 "111111111111111111",
		Name:               "private key",
		URL:                "https://example.com",
		Kind:               vault.KindPassword,
		Username:           "me@example.com",
		Password:           "s3cret",
		LastModified:       after,
		LastTouched:        after,
		LastPasswordChange: after,
	})
	root.Add(&vault.Secret{
		ID:                 "222222222222222222",
		Name:               "recovery codes",
		URL:                "http://sn",
		Kind:               vault.KindSecureNote,
		LastModified:       before,
		LastTouched:        before,
		LastPasswordChange: before,
	})

	nested := &vault.Folder{Name: "Infra", Path: "Shared-Ops"}
	nested.Add(&vault.Secret{
		ID:                 "333333333333333333",
		Name:               "db password",
		URL:                "https://db.example.com",
		Kind:               vault.KindPassword,
		Username:           "admin",
		Password:           "s3cret",
		Share:              "Shared-Ops",
		Group:              "Infra",
		LastModified:       after,
		LastTouched:        after,
		LastPasswordChange: before,
	})

	return []*vault.Folder{root, nested}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testExportFolders(), exportCutoff, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{
		"full_path", "id", "name", "url", "username",
		"last_modified", "last_touched", "last_password_modified",
		"status", "warning",
	}, records[0])

	rotated := records[1]
	assert.Equal(t, vault.RootPath, rotated[0])
	assert.Equal(t, "111111111111111111", rotated[1])
	assert.Equal(t, "private key", rotated[2])
	assert.Equal(t, "me@example.com", rotated[4])
	assert.Equal(t, "2022-10-22T00:00:00Z", rotated[5])
	assert.Equal(t, "OK", rotated[8])
	assert.Equal(t, "false", rotated[9])

	note := records[2]
	assert.Equal(t, "secure-note", note[4])
	assert.Equal(t, "NOT_OK", note[8])
	assert.Equal(t, "false", note[9])

	stale := records[3]
	assert.Equal(t, `Shared-Ops\Infra`, stale[0])
	assert.Equal(t, "NOT_OK", stale[8])
	assert.Equal(t, "true", stale[9])
}

func TestWriteCSVWhitelistSuppressesWarning(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	whitelist := metrics.NewWhitelist([]string{"333333333333333333"})
	require.NoError(t, WriteCSV(&buf, testExportFolders(), exportCutoff, whitelist))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "false", records[3][9])
	// Status is unaffected by the whitelist, only the warning flag is.
	assert.Equal(t, "NOT_OK", records[3][8])
}

func TestWriteCSVQuotesFieldsWithCommas(t *testing.T) {
	t.Parallel()

	folder := &vault.Folder{Name: "Shared-Ops", Root: true}
	folder.Add(&vault.Secret{
		ID:                 "444444444444444444",
		Name:               "db, primary",
		Kind:               vault.KindPassword,
		Username:           "admin",
		Password:           "s3cret",
		LastModified:       exportCutoff,
		LastTouched:        exportCutoff,
		LastPasswordChange: exportCutoff,
	})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []*vault.Folder{folder}, exportCutoff, nil))

	assert.Contains(t, buf.String(), `"db, primary"`)

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "db, primary", records[1][2])
}

func TestToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, ToFile(path, testExportFolders(), exportCutoff, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "full_path,id,name,url,username")
	assert.Contains(t, string(data), "111111111111111111")
}

func TestToFileReplacesExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale content\n"), 0600))

	require.NoError(t, ToFile(path, testExportFolders(), exportCutoff, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale content")
	assert.Contains(t, string(data), "full_path,id")
}

func TestToFileReportsUnwritablePath(t *testing.T) {
	t.Parallel()

	err := ToFile(filepath.Join(t.TempDir(), "missing", "export.csv"), nil, exportCutoff, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create export file")
}
