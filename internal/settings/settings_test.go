package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInitials(t *testing.T) {
	tests := map[string]string{
		"":                   "",
		"   ":                "",
		"madonna":            "MA",
		"x":                  "X",
		"Ada Lovelace":       "AL",
		"  jean  luc picard": "JP",
		"émile zola":         "ÉZ",
	}
	for in, want := range tests {
		assert.Equal(t, want, GenerateInitials(in), "GenerateInitials(%q)", in)
	}
}

func TestApply(t *testing.T) {
	name := "Grace Hopper"
	s := Settings{}.Apply(Patch{UserName: &name})
	assert.Equal(t, Settings{UserName: name, UserInitials: "GH"}, s)

	initials := "G."
	s = s.Apply(Patch{UserInitials: &initials})
	assert.Equal(t, Settings{UserName: name, UserInitials: "G."}, s, "explicit initials kept")

	other := "Alan Turing"
	s = s.Apply(Patch{UserName: &other, UserInitials: &initials})
	assert.Equal(t, "G.", s.UserInitials, "explicit initials win over generated ones")
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir)

	s, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, Settings{}, s)

	want := Settings{UserName: "Ada Lovelace", UserInitials: "AL"}
	require.NoError(t, fs.Save(want))
	got, err := NewFileStore(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("user_name: [oops"), 0o600))
	_, err = fs.Load()
	assert.Error(t, err, "parse error")
}
