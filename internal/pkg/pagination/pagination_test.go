package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestFromQuery(t *testing.T) {
	cases := []struct {
		query string
		want  Params
	}{
		{"", Params{Page: 1, Limit: 6}},
		{"page=3&limit=10", Params{Page: 3, Limit: 10}},
		{"page=-1&limit=abc", Params{Page: 1, Limit: 6}},
		{"limit=1000", Params{Page: 1, Limit: maxLimit}},
		{"page=9223372036854775807&limit=100", Params{Page: maxPage, Limit: maxLimit}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FromQuery(contextWithQuery(tc.query), 6), tc.query)
	}
}

func TestOffsetAndResult(t *testing.T) {
	p := Params{Page: 3, Limit: 10}
	assert.Equal(t, 20, p.Offset())

	huge := FromQuery(contextWithQuery("page=9223372036854775807&limit=100"), 6)
	assert.Equal(t, (maxPage-1)*maxLimit, huge.Offset())
	assert.Positive(t, huge.Offset())

	r := NewResult[int](nil, 0, p)
	assert.NotNil(t, r.Results)
	assert.Empty(t, r.Results)
}
