package geoip

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilReaderResolvesNothing(t *testing.T) {
	var r *Reader
	assert.Equal(t, "", r.Country("8.8.8.8"))
	assert.NoError(t, r.Close())

	var locator Locator = r
	assert.Equal(t, "", locator.Country("not-an-ip"))
}

func TestOpenMissingDatabase(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "GeoLite2-Country.mmdb"))
	require.Error(t, err)
}
