package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caregraph/caregraph/internal/domain"
)

func testConditions() []domain.Condition {
	return []domain.Condition{
		{ID: "hypertension", Label: "Hypertension", Category: domain.CategoryCardiovascular, BaselineIncidence: 0.04},
		{ID: "type_2_diabetes", Label: "Type 2 Diabetes", Category: domain.CategoryMetabolic, BaselineIncidence: 0.009},
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	dup := append(testConditions(), domain.Condition{ID: "hypertension", Label: "Again", BaselineIncidence: 0.1})
	_, err := New(dup)
	assert.Error(t, err)
}

func TestNewRejectsInvalidEntry(t *testing.T) {
	_, err := New([]domain.Condition{{ID: "", Label: "x"}})
	assert.Error(t, err)
}

func TestRegistryLookups(t *testing.T) {
	reg, err := New(testConditions())
	require.NoError(t, err)

	c, ok := reg.Lookup("hypertension")
	assert.True(t, ok)
	assert.Equal(t, domain.CategoryCardiovascular, c.Category)

	_, ok = reg.Lookup("gout")
	assert.False(t, ok, "unknown ids are expected input, not errors")

	assert.True(t, reg.Contains("type_2_diabetes"))
	assert.Equal(t, 2, reg.Len())
}

func TestLabelFallsBackToID(t *testing.T) {
	reg, err := New(testConditions())
	require.NoError(t, err)
	assert.Equal(t, "Hypertension", reg.Label("hypertension"))
	assert.Equal(t, "gout", reg.Label("gout"))
}

func TestBaselineIncidenceUnknownIsZero(t *testing.T) {
	reg, err := New(testConditions())
	require.NoError(t, err)
	assert.Equal(t, 0.009, reg.BaselineIncidence("type_2_diabetes"))
	assert.Equal(t, 0.0, reg.BaselineIncidence("gout"))
}

func TestAllSortedByID(t *testing.T) {
	reg, err := New(testConditions())
	require.NoError(t, err)
	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, "hypertension", all[0].ID)
	assert.Equal(t, "type_2_diabetes", all[1].ID)
}
