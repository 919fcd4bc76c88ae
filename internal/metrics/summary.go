package metrics

// Totals aggregates counts across a set of folder metrics for the report
// summary. Percentages are rounded to two decimals; a selection without
// secrets reports zero for both.
type Totals struct {
	Folders         int     `json:"folders" yaml:"folders"`
	Secrets         int     `json:"number_of_secrets" yaml:"number_of_secrets"`
	UpdatedSecrets  int     `json:"number_of_updated_secrets" yaml:"number_of_updated_secrets"`
	SecretsToUpdate int     `json:"number_of_secrets_to_update" yaml:"number_of_secrets_to_update"`
	PercentageDone  float64 `json:"percentage_done" yaml:"percentage_done"`
	PercentageLeft  float64 `json:"percentage_left" yaml:"percentage_left"`
}

// Summarize totals the counts of the given folders.
func Summarize(folders []*FolderMetrics) Totals {
	t := Totals{Folders: len(folders)}
	for _, m := range folders {
		t.Secrets += m.SecretCount()
		t.UpdatedSecrets += m.UpdatedCount()
		t.SecretsToUpdate += m.RemainingCount()
	}
	if t.Secrets == 0 {
		return t
	}
	t.PercentageDone = round2(float64(t.UpdatedSecrets) / float64(t.Secrets) * 100)
	t.PercentageLeft = round2(float64(t.SecretsToUpdate) / float64(t.Secrets) * 100)
	return t
}
