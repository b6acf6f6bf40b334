package web

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	price, small := 1250000, 0

	assert.Equal(t, "1,250,000원", FormatPrice(&price))
	assert.Equal(t, "0원", FormatPrice(&small))
	assert.Equal(t, "", FormatPrice(nil))
}

func TestInstagramURL(t *testing.T) {
	assert.Equal(t, "https://instagram.com/hyrox_seoul", InstagramURL("@hyrox_seoul "))
}

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{"index.html", "admin_dashboard.html", "admin_regions.html", "admin_boxes.html", "signup.html", "login.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestStatic(t *testing.T) {
	for _, name := range []string{"/listing.js", "/admin.js", "/style.css"} {
		f, err := Static().Open(name)
		require.NoError(t, err, name)
		body, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.NotEmpty(t, body)
		f.Close()
	}
}
