package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabels(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"empty", "", ""},
		{"single", "env=prod", `{env="prod"}`},
		{"multiple sorted", "instance=db01,env=prod", `{env="prod",instance="db01"}`},
		{"malformed entries skipped", "env=prod,oops,=novalue", `{env="prod"}`},
		{"name sanitized", "bad-name!=x", `{bad_name_="x"}`},
		{"value escaped", `quote="hi"`, `{quote="\"hi\""}`},
		{"whitespace trimmed", " env = prod , a=b ", `{a="b",env="prod"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLabels(tt.csv).String())
		})
	}
}

func TestLabelSet_Merge(t *testing.T) {
	ls := ParseLabels("env=prod")

	merged := ls.Merge(Label{Name: "user", Value: "bob"}, Label{Name: "db", Value: "billing"})
	assert.Equal(t, `{db="billing",env="prod",user="bob"}`, merged.String())
	assert.Equal(t, `{env="prod"}`, ls.String(), "merge does not mutate the receiver")

	overwritten := ls.Merge(Label{Name: "env", Value: "staging"})
	assert.Equal(t, `{env="staging"}`, overwritten.String())
}

func TestLabelSet_NamesValues(t *testing.T) {
	ls := ParseLabels("b=2,a=1")
	assert.Equal(t, []string{"a", "b"}, ls.Names())
	assert.Equal(t, []string{"1", "2"}, ls.Values())
}

func TestReadLabelsFile(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "labels.yaml")
		require.NoError(t, os.WriteFile(path, []byte("env: prod\ninstance: db01\n"), 0644))

		ls, err := ReadLabelsFile(path)
		require.NoError(t, err)
		assert.Equal(t, `{env="prod",instance="db01"}`, ls.String())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadLabelsFile(filepath.Join(t.TempDir(), "nonexistent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "labels.yaml")
		require.NoError(t, os.WriteFile(path, []byte("- not\n- a\n- mapping\n"), 0644))

		_, err := ReadLabelsFile(path)
		assert.Error(t, err)
	})
}
