package race

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/carbon/pkg/models"
)

func TestStoreKeepsInsertionOrder(t *testing.T) {
	s := NewStore()
	s.Set("US", models.Series{rec(2000, 1)})
	s.Set("FR", nil)
	s.Set("DE", models.Series{})
	s.Set("US", models.Series{rec(2000, 2)})

	assert.Equal(t, []string{"US", "FR", "DE"}, s.Names())
	assert.Equal(t, 3, s.Len())

	us, ok := s.Get("US")
	require.True(t, ok)
	assert.Equal(t, 2.0, *us[0].Carbon)

	fr, ok := s.Get("FR")
	require.True(t, ok)
	assert.NotNil(t, fr)
	assert.Empty(t, fr)
}

func TestStoreEntriesRoundTrip(t *testing.T) {
	s := storeOf(
		"US", models.Series{rec(2000, 10), rec(2001, 11)},
		"FR", models.Series{},
	)

	rebuilt := FromEntries(s.Entries())
	assert.Equal(t, s.Names(), rebuilt.Names())
	assert.Equal(t, s.Entries(), rebuilt.Entries())
	assert.Equal(t, 2, rebuilt.Records())
}

func TestStoreBounds(t *testing.T) {
	_, _, ok := NewStore().Bounds()
	assert.False(t, ok)

	_, _, ok = storeOf("FR", models.Series{}).Bounds()
	assert.False(t, ok)

	s := storeOf(
		"US", models.Series{rec(1995, 1), nullRec(2014)},
		"FR", models.Series{rec(1961, 3)},
	)
	minYear, maxYear, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, 1961, minYear)
	assert.Equal(t, 2014, maxYear)
}
