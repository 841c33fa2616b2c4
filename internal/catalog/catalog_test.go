package catalog

import (
	"testing"

	"github.com/jueunk617/subscription-keep-or-cut/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		unit model.UsageUnit
		ref  int
		typ  model.CategoryType
	}{
		{"OTT", model.UnitMinutes, 1800, model.TypeContent},
		{"MUSIC", model.UnitMinutes, 1500, model.TypeContent},
		{"EBOOK", model.UnitMinutes, 300, model.TypeContent},
		{"AI_TOOL", model.UnitDays, 12, model.TypeProductivity},
		{"WORK_TOOL", model.UnitDays, 20, model.TypeProductivity},
		{"CLOUD", model.UnitDays, 25, model.TypeProductivity},
	}
	for _, tt := range tests {
		c, err := Lookup(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.unit, c.Unit, tt.name)
		assert.Equal(t, tt.ref, c.ReferenceValue, tt.name)
		assert.Equal(t, tt.typ, c.Type, tt.name)
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("GAMING")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	require.Len(t, all, 6)
	all[0].ReferenceValue = 1

	c, err := Lookup("OTT")
	require.NoError(t, err)
	assert.Equal(t, 1800, c.ReferenceValue)
}

func TestVerify(t *testing.T) {
	assert.NoError(t, Verify(All()))

	tampered := All()
	tampered[3].ReferenceValue = 15
	assert.Error(t, Verify(tampered))

	unknown := append(All(), model.Category{ID: 7, Name: "GAMING"})
	assert.ErrorIs(t, Verify(unknown), ErrUnknownCategory)

	assert.Error(t, Verify(All()[:5]))
}
