package config

import (
	"testing"

	"github.com/finpath/projection-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleProfiles_Reproducible(t *testing.T) {
	first, err := SampleProfiles(42, 5)
	require.NoError(t, err)
	second, err := SampleProfiles(42, 5)
	require.NoError(t, err)
	require.Len(t, first, 5)

	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.True(t, first[i].Income().Equal(second[i].Income()))
		assert.True(t, first[i].TotalDebt.Equal(second[i].TotalDebt))
	}
	assert.NotEqual(t, first[0].ID, first[1].ID)
}

func TestSampleProfiles_Ranges(t *testing.T) {
	profiles, err := SampleProfiles(7, 200)
	require.NoError(t, err)

	parser := NewProfileParser()
	for _, p := range profiles {
		require.NoError(t, parser.ValidateProfile(p), p.ID)
		assert.GreaterOrEqual(t, p.Age, 22)
		assert.LessOrEqual(t, p.Age, 65)
		assert.True(t, p.Income().GreaterThanOrEqual(decimal.NewFromInt(2000)), p.ID)
		assert.Len(t, p.Expenses, len(sampleCategories))

		share := p.TotalExpenses().Div(p.Income()).InexactFloat64()
		assert.InDelta(t, 0.775, share, 0.176, "expense share for %s", p.ID)

		if p.TotalDebt.IsZero() {
			assert.Equal(t, domain.DebtTypeNone, p.DebtType())
		} else {
			assert.NotEqual(t, domain.DebtTypeNone, p.DebtType())
			require.NotNil(t, p.PrimaryDebtAPR)
			assert.True(t, p.PrimaryDebtAPR.GreaterThanOrEqual(decimal.NewFromInt(3)))
		}
	}
}

func TestSampleProfile_EncodesAndParses(t *testing.T) {
	profiles, err := SampleProfiles(3, 1)
	require.NoError(t, err)

	parser := NewProfileParser()
	data, err := parser.Encode(profiles[0])
	require.NoError(t, err)

	parsed, err := parser.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, profiles[0].ID, parsed.ID)
	assert.True(t, profiles[0].TotalExpenses().Equal(parsed.TotalExpenses()))
}

func TestSampleProfiles_InvalidCount(t *testing.T) {
	_, err := SampleProfiles(1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)
}
