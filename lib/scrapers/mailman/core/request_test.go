package core

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	lists := map[string]string{"test": "password"}
	b := NewBuilder(lists)
	lists["test"] = "changed"

	type built struct {
		req Request
		err error
	}
	wrap := func(req Request, err error) built {
		return built{req: req, err: err}
	}

	testCases := []struct {
		name     string
		built    built
		expected Request
	}{
		{
			name:     "lists",
			built:    built{req: b.Lists()},
			expected: Request{Method: http.MethodGet, Path: "/admin"},
		},
		{
			name:  "find member",
			built: wrap(b.FindMember("test", "james")),
			expected: Request{
				Method: http.MethodGet,
				Path:   "/admin/test/members",
				Query: url.Values{
					"findmember": {"james"},
					"adminpw":    {"password"},
				},
			},
		},
		{
			name:  "members",
			built: wrap(b.Members("test", "")),
			expected: Request{
				Method: http.MethodGet,
				Path:   "/admin/test/members",
				Query:  url.Values{"adminpw": {"password"}},
			},
		},
		{
			name:  "members by letter",
			built: wrap(b.Members("test", "q")),
			expected: Request{
				Method: http.MethodGet,
				Path:   "/admin/test/members",
				Query:  url.Values{"adminpw": {"password"}, "letter": {"q"}},
			},
		},
		{
			name:  "unsubscribe",
			built: wrap(b.Unsubscribe("test", "a@example.net")),
			expected: Request{
				Method: http.MethodGet,
				Path:   "/admin/test/members/remove",
				Query: url.Values{
					"send_unsub_ack_to_this_batch":           {"0"},
					"send_unsub_notifications_to_list_owner": {"0"},
					"unsubscribees":                          {"a@example.net"},
					"adminpw":                                {"password"},
				},
			},
		},
		{
			name:  "invite",
			built: wrap(b.Subscribe("test", "a@example.net", true)),
			expected: Request{
				Method: http.MethodGet,
				Path:   "/admin/test/members/add",
				Query: url.Values{
					"subscribe_or_invite":              {"1"},
					"send_welcome_msg_to_this_batch":   {"0"},
					"send_notifications_to_list_owner": {"0"},
					"subscribees":                      {"a@example.net"},
					"adminpw":                          {"password"},
				},
			},
		},
		{
			name:  "change",
			built: wrap(b.Change("test", "a@example.net", "b@example.net")),
			expected: Request{
				Method: http.MethodGet,
				Path:   "/admin/test/members/change",
				Query: url.Values{
					"change_from": {"a@example.net"},
					"change_to":   {"b@example.net"},
					"notice_old":  {"0"},
					"notice_new":  {"0"},
					"adminpw":     {"password"},
				},
			},
		},
		{
			name:  "version",
			built: wrap(b.Version("test")),
			expected: Request{
				Method: http.MethodGet,
				Path:   "/admin/test/",
				Query:  url.Values{"adminpw": {"password"}},
			},
		},
		{
			name:     "admin login",
			built:    built{req: b.AdminLogin("test")},
			expected: Request{Method: http.MethodGet, Path: "/admin/test"},
		},
		{
			name:     "roster",
			built:    built{req: b.Roster("test")},
			expected: Request{Method: http.MethodGet, Path: "/roster/test"},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			require.NoError(t, test.built.err)
			diff := cmp.Diff(test.expected, test.built.req)
			if diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestBuilderUnknownList(t *testing.T) {
	b := NewBuilder(map[string]string{"test": "password"})

	_, err := b.Members("other", "")
	require.ErrorIs(t, err, ErrUserInput)
	_, _, err = b.SetOption("other", "a@example.net", "digest", "1")
	require.ErrorIs(t, err, ErrUserInput)
	_, err = b.Password("other")
	require.ErrorIs(t, err, ErrUserInput)
}

func TestBuilderSetOption(t *testing.T) {
	b := NewBuilder(map[string]string{"test": "password"})

	req, opt, err := b.SetOption("test", "james.smith@example.co.uk", "newpw", "hunter2")
	require.NoError(t, err)
	require.Equal(t, ExtractValue, opt.Mode)
	require.Equal(t, "/options/test/james.smith--at--example.co.uk", req.Path)
	require.Equal(t, url.Values{
		"newpw":    {"hunter2"},
		"confpw":   {"hunter2"},
		"changepw": {"Change My Password"},
		"adminpw":  {"password"},
	}, req.Query)

	req, opt, err = b.SetOption("test", "james.smith@example.co.uk", "new-address", "james@example.co.uk")
	require.NoError(t, err)
	require.Equal(t, "james@example.co.uk", req.Query.Get("new-address"))
	require.Equal(t, "james@example.co.uk", req.Query.Get("confirm-address"))
	require.Equal(t, "Change My Address and Name", req.Query.Get("change-of-address"))

	req, opt, err = b.SetOption("test", "james.smith@example.co.uk", "conceal", "1")
	require.NoError(t, err)
	require.Equal(t, ExtractChecked, opt.Mode)
	require.Equal(t, "Submit My Changes", req.Query.Get("options-submit"))
}

func TestLookupOption(t *testing.T) {
	for _, name := range OptionNames() {
		opt, err := LookupOption(name)
		require.NoError(t, err)
		require.Equal(t, name, opt.Name)
	}
	require.Len(t, OptionNames(), 12)

	_, err := LookupOption("nodupe")
	require.ErrorIs(t, err, ErrInvalidOption)
	require.Contains(t, err.Error(), `did you mean "nodupes"`)

	_, err = LookupOption("xyzzy")
	require.ErrorIs(t, err, ErrInvalidOption)
	require.Equal(t, "Invalid option", err.Error())
}

func TestAdminCookieName(t *testing.T) {
	require.Equal(t, "test+admin", AdminCookieName("test"))
}

func TestQuoteAddress(t *testing.T) {
	require.Equal(t, "james.smith%40example.co.uk", QuoteAddress("james.smith@example.co.uk"))
	require.Equal(t, "t%7Eest%2Bmail%40example.com", QuoteAddress("t~est+mail@example.com"))
	require.Equal(t, "first_last-1%40example.com", QuoteAddress("first_last-1@example.com"))
}
