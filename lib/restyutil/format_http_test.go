package restyutil

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedactUrl(t *testing.T) {
	require.Equal(
		t,
		"https://example.com/mailman/admin/test/members?adminpw=%3Credacted%3E&letter=a",
		RedactUrl("https://example.com/mailman/admin/test/members?letter=a&adminpw=secret"),
	)
	require.Equal(t, "https://example.com/mailman/admin", RedactUrl("https://example.com/mailman/admin"))
}

func TestRedactForm(t *testing.T) {
	require.Equal(
		t,
		"changepw=Change+My+Password&confpw=%3Credacted%3E&newpw=%3Credacted%3E",
		RedactForm("newpw=hunter2&confpw=hunter2&changepw=Change+My+Password"),
	)
	require.Equal(t, "findmember=james", RedactForm("findmember=james"))
}

func TestFormatHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("User-Agent", "mailman-cli")
	headers.Set("Cookie", "test+admin=123456")
	require.Equal(t, "Cookie: <redacted>\nUser-Agent: mailman-cli", formatHeaders(headers))
}
