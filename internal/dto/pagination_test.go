package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampPage(t *testing.T) {
	cases := []struct {
		name          string
		page, limit   int
		total         int64
		wantCur, want int
	}{
		{"first page", 1, 10, 25, 1, 3},
		{"beyond end clamps to last", 9, 10, 25, 3, 3},
		{"no rows", 4, 10, 0, 1, 0},
		{"zero page", 0, 10, 5, 1, 1},
		{"exact multiple", 2, 5, 10, 2, 2},
		{"limit defaulted", 2, 0, 15, 2, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cur, pages := ClampPage(tc.page, tc.limit, tc.total)
			assert.Equal(t, tc.wantCur, cur)
			assert.Equal(t, tc.want, pages)
		})
	}
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, MaxLimit, NormalizeLimit(5000))
	assert.Equal(t, 25, NormalizeLimit(25))
}

func TestNewPageMetaURLs(t *testing.T) {
	meta := NewPageMeta("http://api/v1/stocks", 30, 2, 3, 10,
		QueryParam{"name", "water 600"},
		QueryParam{"movementType", "OUT"},
		QueryParam{"date", ""},
	)

	require.NotNil(t, meta.NextPageURL)
	require.NotNil(t, meta.PrevPageURL)
	assert.Equal(t, "http://api/v1/stocks?page=3&limit=10&name=water+600&movementType=OUT", *meta.NextPageURL)
	assert.Equal(t, "http://api/v1/stocks?page=1&limit=10&name=water+600&movementType=OUT", *meta.PrevPageURL)
}

func TestNewPageMetaEdges(t *testing.T) {
	meta := NewPageMeta("http://api/v1/stocks", 3, 1, 1, 10)
	assert.Nil(t, meta.NextPageURL)
	assert.Nil(t, meta.PrevPageURL)
}
