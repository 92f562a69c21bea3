package utils

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-06-01T14:00:00+07:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("01/06/2024")
	assert.Error(t, err)
	_, err = ParseDate(" ")
	assert.Error(t, err)
}

func TestDayBounds(t *testing.T) {
	start, end := DayBounds(time.Date(2024, 6, 1, 17, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), end)
}

func TestGenerateReferenceCode(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z2-9]{4}-[A-Z2-9]{4}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateReferenceCode()
		require.NoError(t, err)
		assert.Regexp(t, re, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 45)

	_, err := GenerateCode(0)
	assert.Error(t, err)
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitCSV(" a, ,b ,"))
	assert.Empty(t, SplitCSV(""))
}

func TestEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	JSONError(c, http.StatusNotFound, "room not found")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"room not found"}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	JSONPage(c, http.StatusOK, []int{1}, NewPageMeta(2, 10, 21))
	assert.JSONEq(t, `{"success":true,"data":[1],"meta":{"page":2,"limit":10,"total":21,"pages":3}}`, w.Body.String())
}
