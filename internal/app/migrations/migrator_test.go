package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_OrdersByVersionAndSkipsNonSQL(t *testing.T) {
	files := fstest.MapFS{
		"002_ratings.sql": {Data: []byte("SELECT 1;")},
		"001_init.sql":    {Data: []byte("SELECT 1;")},
		"README.md":       {Data: []byte("notes")},
	}

	migs, err := List(files)
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, Migration{Version: "001", Name: "001_init.sql"}, migs[0])
	assert.Equal(t, "002", migs[1].Version)
}

func TestList_RejectsDuplicateVersion(t *testing.T) {
	files := fstest.MapFS{
		"001_init.sql":  {Data: []byte("SELECT 1;")},
		"001_other.sql": {Data: []byte("SELECT 1;")},
	}

	_, err := List(files)
	assert.ErrorContains(t, err, "duplicate migration version 001")
}

func TestEmbeddedSchema(t *testing.T) {
	migs, err := List(Files())
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, "001_init.sql", migs[0].Name)
}
