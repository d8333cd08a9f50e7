package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	p, l := NormalizePage(0, 0)
	assert.Equal(t, 1, p)
	assert.Equal(t, 20, l)

	p, l = NormalizePage(3, 500)
	assert.Equal(t, 3, p)
	assert.Equal(t, 100, l)
}

func TestOffsetAndTotalPages(t *testing.T) {
	assert.Equal(t, 40, Offset(3, 20))
	assert.Equal(t, 1, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
}
