package seed

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var sample = []Record{
	{Id: "informatica", Name: "Informatica", Code: "8009/000"},
	{Id: "ingegneria-informatica", Name: "Ingegneria e Scienze Informatiche", Code: "9254/000"},
	{Id: "artificial-intelligence", Name: "Artificial Intelligence Master", Code: "9063/000"},
}

func TestValidate(t *testing.T) {
	cases := []struct {
		record Record
		fields []string
	}{
		{record: Record{Id: "a", Name: "b", Code: "c"}},
		{record: Record{Name: "b", Code: "c"}, fields: []string{"id"}},
		{record: Record{Id: "a", Code: "c"}, fields: []string{"name"}},
		{record: Record{Id: "a", Name: "b"}, fields: []string{"code"}},
		{record: Record{Id: " ", Name: "", Code: "c"}, fields: []string{"id", "name"}},
	}

	for _, test := range cases {
		err := test.record.Validate()
		if test.fields == nil {
			require.NoError(t, err)
			continue
		}
		var validation ValidationError
		require.True(t, errors.As(err, &validation))
		require.Equal(t, test.fields, validation.Fields)
	}
}

func TestPartition(t *testing.T) {
	records := []Record{
		sample[0],
		{Id: "broken", Name: "", Code: "1/000"},
		sample[1],
	}
	valid, invalid := Partition(records)
	require.Equal(t, []Record{sample[0], sample[1]}, valid)
	require.Len(t, invalid, 1)
}

func TestLoadJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "degrees.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": "informatica", "name": "Informatica", "code": "8009/000"},
		{"id": "", "name": "Missing id", "code": "1/000"}
	]`), 0600))

	records, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []Record{
		sample[0],
		{Id: "", Name: "Missing id", Code: "1/000"},
	}, records)
}

func TestLoadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "degrees.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- id: informatica
  name: Informatica
  code: "8009/000"
`), 0600))

	records, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []Record{sample[0]}, records)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "degrees.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "a list"}`), 0600))
	_, err = Load(path)
	require.Error(t, err)
}

func TestFilter(t *testing.T) {
	all, err := Filter(sample, "")
	require.NoError(t, err)
	require.Equal(t, sample, all)

	exact, err := Filter(sample, "ingegneria-informatica")
	require.NoError(t, err)
	require.Equal(t, []Record{sample[1]}, exact)

	fuzzy, err := Filter(sample, "informatika")
	require.NoError(t, err)
	require.Equal(t, []Record{sample[0]}, fuzzy)

	_, err = Filter(sample, "medicina veterinaria")
	require.ErrorIs(t, err, ErrNoMatch)
}
