package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeededIsReproducible(t *testing.T) {
	a, b := NewSeeded(7), NewSeeded(7)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Intn(100), b.Intn(100))
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestSeededIntnNonPositive(t *testing.T) {
	s := NewSeeded(1)
	assert.Equal(t, 0, s.Intn(0))
	assert.Equal(t, 0, s.Intn(-3))
}

func TestNilClientFallsBack(t *testing.T) {
	var c *Client
	assert.Nil(t, NewClient(""))
	assert.False(t, c.Enabled())
	assert.Positive(t, c.Seed())
	assert.Positive(t, CryptoSeed())
}
