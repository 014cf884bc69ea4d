package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolMass(Te *testing.T) {
	m, ok := SymbolMass("O")
	assert.True(Te, ok)
	assert.Equal(Te, 16.0, m)
	_, ok = SymbolMass("Xx")
	assert.False(Te, ok)
}

func TestTopology(Te *testing.T) {
	_, err := NewTopology(nil, "none")
	assert.Error(Te, err)
	ats := []*Atom{
		{Name: "OW", ID: 1, Symbol: "O", Mass: 16},
		{Name: "HW1", ID: 2, Symbol: "H", Mass: 1},
		{Name: "MW", ID: 3},
	}
	T, err := NewTopology(ats, "tip4p")
	require.NoError(Te, err)
	assert.Equal(Te, 3, T.Len())
	assert.Equal(Te, "HW1", T.Atom(1).Name)
	assert.Panics(Te, func() { T.Atom(3) })
	m, unknown := T.Mass()
	assert.Equal(Te, 17.0, m)
	assert.Equal(Te, 1, unknown)

	c := T.Atom(0).Copy()
	c.Name = "O"
	assert.Equal(Te, "OW", T.Atom(0).Name)
	assert.Equal(Te, 16.0, c.Mass)
}
