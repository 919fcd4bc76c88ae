package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/schubergphilis/lastpassreportingcli/pkg/vault"
)

// Options control how folder metrics are assembled from the raw vault
// contents.
type Options struct {
	// Details keeps the vault folder tree as is, one metrics entry per
	// folder including nested ones. When false, secrets are rolled up
	// into their top-level folders.
	Details bool

	// FilterPrefixes keeps only folders whose full path starts with one
	// of the given prefixes. Empty means no filtering.
	FilterPrefixes []string

	// Cutoff is the rotation deadline applied to every folder.
	Cutoff time.Time

	// Whitelist exempts secret ids from warning detection.
	Whitelist Whitelist
}

// UnknownShareError reports a shared secret whose share name matches no
// top-level shared folder. It signals inconsistent vault data, not a bug
// in the caller.
type UnknownShareError struct {
	Share      string
	SecretID   string
	SecretName string
}

func (e *UnknownShareError) Error() string {
	return fmt.Sprintf("secret %q (id %s) belongs to shared folder %q which is not among the top-level folders",
		e.SecretName, e.SecretID, e.Share)
}

// Build turns the raw vault contents into folder metrics, sorted by full
// path. In rollup mode every secret is counted against its top-level
// folder, with all personal secrets pooled under the root folder marker.
// In details mode the vault folder tree is measured as is.
func Build(secrets []*vault.Secret, folders []*vault.Folder, opts Options) ([]*FolderMetrics, error) {
	selected := folders
	if !opts.Details {
		rolled, err := rollUp(secrets, folders)
		if err != nil {
			return nil, err
		}
		selected = rolled
	}
	selected = filterByPrefix(selected, opts.FilterPrefixes)

	out := make([]*FolderMetrics, 0, len(selected))
	for _, folder := range selected {
		out = append(out, New(folder, opts.Cutoff, opts.Whitelist))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullPath() < out[j].FullPath() })
	return out, nil
}

// rollUp builds one empty aggregate folder per top-level vault folder and
// assigns every secret to the aggregate matching its share name. Personal
// secrets have no share name and all land in the personal root folder.
func rollUp(secrets []*vault.Secret, folders []*vault.Folder) ([]*vault.Folder, error) {
	aggregates := make(map[string]*vault.Folder)
	order := make([]*vault.Folder, 0, len(folders))
	for _, folder := range folders {
		if !folder.Root {
			continue
		}
		aggregate := &vault.Folder{
			Name:     folder.Name,
			Path:     folder.Path,
			Personal: folder.Personal,
			Root:     true,
		}
		aggregates[aggregate.FullPath()] = aggregate
		order = append(order, aggregate)
	}

	for _, secret := range secrets {
		key := vault.RootPath
		if secret.Shared() {
			key = secret.Share
		}
		folder, ok := aggregates[key]
		if !ok {
			if secret.Shared() {
				return nil, &UnknownShareError{
					Share:      secret.Share,
					SecretID:   secret.ID,
					SecretName: secret.Name,
				}
			}
			return nil, fmt.Errorf("vault reported no personal root folder for secret %q (id %s)",
				secret.Name, secret.ID)
		}
		folder.Add(secret)
	}
	return order, nil
}

func filterByPrefix(folders []*vault.Folder, prefixes []string) []*vault.Folder {
	if len(prefixes) == 0 {
		return folders
	}
	kept := make([]*vault.Folder, 0, len(folders))
	for _, folder := range folders {
		for _, prefix := range prefixes {
			if strings.HasPrefix(folder.FullPath(), prefix) {
				kept = append(kept, folder)
				break
			}
		}
	}
	return kept
}
