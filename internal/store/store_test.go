package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Normalize(t *testing.T) {
	f := Filter{}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultLimit, f.Limit)

	f = Filter{Page: -3, Limit: -1}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultLimit, f.Limit)

	f = Filter{Page: 4, Limit: 10000}.Normalize()
	assert.Equal(t, 4, f.Page)
	assert.Equal(t, MaxLimit, f.Limit)

	f = Filter{Page: 2, Limit: 25}.Normalize()
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 25, f.Limit)
}
