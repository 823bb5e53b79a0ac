package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(3, 20)
	assert.Equal(t, uint64(40), offset)
	assert.Equal(t, uint64(20), limit)

	offset, limit = CalculateOffsetLimit(0, 1000)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, uint64(DefaultPageSize), limit)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(25, 2, 10)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, int64(25), info.TotalItems)

	empty := NewPaginationInfo(0, 1, 10)
	assert.Equal(t, 1, empty.TotalPages)
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query      string
		page, size int
	}{
		{"", 1, 10},
		{"?page=4&size=25", 4, 25},
		{"?page=-1&size=500", 1, 10},
		{"?page=abc&size=x", 1, 10},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/students"+tt.query, nil)
		page, size := ParsePaginationParams(c)
		assert.Equal(t, tt.page, page, tt.query)
		assert.Equal(t, tt.size, size, tt.query)
	}
}

func TestParseOptionalInt64Query(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/students?groupId=12&tutorId=zero", nil)

	v, ok := ParseOptionalInt64Query(c, "groupId")
	require.True(t, ok)
	assert.Equal(t, int64(12), *v)

	_, ok = ParseOptionalInt64Query(c, "tutorId")
	assert.False(t, ok)

	v, ok = ParseOptionalInt64Query(c, "disciplineId")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestSQLHelpers(t *testing.T) {
	blank := "   "
	name := " Lucía "
	assert.Nil(t, NullIfEmpty(nil))
	assert.Nil(t, NullIfEmpty(&blank))
	assert.Equal(t, "Lucía", *NullIfEmpty(&name))

	assert.Equal(t, `%50\%\_off%`, LikePattern(" 50%_off "))
	assert.Equal(t, []int64{3, 1, 2}, DedupeIDs([]int64{3, 1, 3, 2, 1}))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", FormatDate(d))

	_, err = ParseDate("09/03/2024")
	assert.Error(t, err)

	none, err := ParseOptionalDate("")
	assert.NoError(t, err)
	assert.Nil(t, none)
}
