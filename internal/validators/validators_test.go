package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTimeRange(t *testing.T) {
	valid := []string{
		"09:00-17:00",
		"9:00-17:00",
		"16:30-22:15",
		"22:00-02:00", // overnight shift
		"0:00-23:59",
		" 09:00-17:00 ",
	}
	for _, tc := range valid {
		assert.True(t, ValidTimeRange(tc), "expected %q to be valid", tc)
	}

	invalid := []string{
		"25:00-02:00",
		"09:00-24:30",
		"0900-1700",
		"09:00 - 17:00",
		"09:60-17:00",
		"nine to five",
		"",
	}
	for _, tc := range invalid {
		assert.False(t, ValidTimeRange(tc), "expected %q to be invalid", tc)
	}
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("0512345678"))
	assert.True(t, ValidPhone("0598765432"))
	assert.True(t, ValidPhone(" 0512345678 "))

	assert.False(t, ValidPhone("1234567890"), "must start with 05")
	assert.False(t, ValidPhone("051234567"), "too short")
	assert.False(t, ValidPhone("05123456789"), "too long")
	assert.False(t, ValidPhone("05x2345678"))
	assert.False(t, ValidPhone(""))
}

func TestSplitMulti(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, SplitMulti("1,2,3"))
	assert.Equal(t, []string{"1", "2", "3"}, SplitMulti("1 2 3"))
	assert.Equal(t, []string{"1", "2", "3"}, SplitMulti("1-2.3"))
	assert.Equal(t, []string{"1", "2"}, SplitMulti("1,, 2,"))
	assert.Empty(t, SplitMulti(""))
	assert.Empty(t, SplitMulti(" ,,, "))
}

func TestPickFromTable(t *testing.T) {
	table := map[string]string{"1": "instagram", "2": "snapchat"}

	assert.Equal(t, []string{"instagram", "snapchat"}, PickFromTable([]string{"1", "2"}, table))
	assert.Equal(t, []string{"snapchat"}, PickFromTable([]string{"9", "2"}, table), "unknown tokens are dropped")
	assert.Empty(t, PickFromTable([]string{"7", "8"}, table))
	assert.Empty(t, PickFromTable(nil, table))
}

func TestLooksLikeLink(t *testing.T) {
	assert.True(t, LooksLikeLink("https://maps.app.goo.gl/abc"))
	assert.True(t, LooksLikeLink("http://example.com"))
	assert.True(t, LooksLikeLink("HTTPS://MAPS.GOOGLE.COM/x"))

	assert.False(t, LooksLikeLink("maps.google.com/x"))
	assert.False(t, LooksLikeLink("/9j/4AAQSkZJRgABAhttp"), "base64 image data is not a link")
	assert.False(t, LooksLikeLink(""))
}

func TestMinLen(t *testing.T) {
	assert.True(t, MinLen("ab", 2))
	assert.True(t, MinLen("مط", 2), "counts runes, not bytes")
	assert.True(t, MinLen("  ok  ", 2))

	assert.False(t, MinLen("a", 2))
	assert.False(t, MinLen("   ", 2))
}
