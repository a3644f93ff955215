package extract

import (
	"bytes"
	"errors"
	"mailman-admin/lib/scrapers/mailman/core"
	"mailman-admin/lib/scrapers/mailman/fixtures"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func parse(t testing.TB, page []byte) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestLists(t *testing.T) {
	lists, err := Lists(parse(t, fixtures.Overview))
	require.NoError(t, err)

	expected := []ListSummary{
		{Path: "edge-users_cpanel.net", Name: "Edge-Users", Description: "Users of the EDGE release tier"},
		{Path: "news_cpanel.net", Name: "News", Description: "cPanel News"},
		{Path: "release-tiers_cpanel.net", Name: "Release-Tiers", Description: "[no description available]"},
		{Path: "security_cpanel.net", Name: "Security", Description: "cPanel Security Advisories"},
	}
	diff := cmp.Diff(expected, lists)
	if diff != "" {
		t.Fatal(diff)
	}

	_, err = Lists(parse(t, fixtures.Roster))
	require.ErrorIs(t, err, core.ErrHtmlParse)
}

func TestMemberRecords(t *testing.T) {
	members, err := MemberRecords(parse(t, fixtures.FindMemberJames))
	require.NoError(t, err)

	expected := []MemberRecord{
		{
			Address:      "james.smith@example.co.uk",
			RealName:     "James Smith",
			Moderated:    "off",
			Hidden:       "off",
			NoMail:       "off",
			Acknowledge:  "off",
			NotMeToo:     "off",
			NoDuplicates: "on",
			Digest:       "off",
			PlainText:    "on",
			Language:     "en",
		},
		{
			Address:      "james.jones@example.co.uk",
			RealName:     "James Jones",
			Moderated:    "on",
			Hidden:       "off",
			NoMail:       "off",
			Acknowledge:  "off",
			NotMeToo:     "off",
			NoDuplicates: "off",
			Digest:       "on",
			PlainText:    "off",
			Language:     "fr",
		},
	}
	diff := cmp.Diff(expected, members)
	if diff != "" {
		t.Fatal(diff)
	}

	_, err = MemberRecords(parse(t, fixtures.FindMemberFail))
	require.ErrorIs(t, err, core.ErrNoMatch)
}

func TestMembers(t *testing.T) {
	page := Members(parse(t, fixtures.MembersShort))
	require.Equal(t, []string{"test@example.com"}, page.Addresses)
	require.Equal(t, []string{"Test Person"}, page.Names)

	page = Members(parse(t, fixtures.MembersEmpty))
	require.NotNil(t, page.Addresses)
	require.Empty(t, page.Addresses)
	require.Empty(t, page.Names)

	page = Members(parse(t, fixtures.MembersLetters))
	require.Equal(t, []string{"a2000@example.com"}, page.Addresses)
	require.Equal(t, []string{""}, page.Names)
}

func TestLetters(t *testing.T) {
	letters := Letters(parse(t, fixtures.MembersLetters))
	require.Len(t, letters, 26)
	require.Equal(t, "a", letters[0])
	require.Equal(t, "z", letters[25])

	require.Nil(t, Letters(parse(t, fixtures.MembersShort)))
	require.Nil(t, Letters(parse(t, fixtures.FindMemberJames)))
}

func TestSubscribe(t *testing.T) {
	ok, err := Subscribe(parse(t, fixtures.SubscribeSuccess))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = Subscribe(parse(t, fixtures.SubscribeInvited))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = Subscribe(parse(t, fixtures.SubscribeFail))
	require.False(t, ok)
	require.ErrorIs(t, err, core.ErrUserInput)
	require.Equal(t, "Error subscribing: a@example.net -- Bad/Invalid email address", err.Error())

	ok, err = Subscribe(parse(t, fixtures.AdminLogin))
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = Subscribe(parse(t, []byte(`<html><body><h5>Error subscribing:</h5></body></html>`)))
	require.False(t, ok)
	require.ErrorIs(t, err, core.ErrUserInput)
	require.Equal(t, "Error subscribing:", err.Error())
}

func TestUnsubscribe(t *testing.T) {
	require.NoError(t, Unsubscribe(parse(t, fixtures.UnsubscribeSuccess)))

	err := Unsubscribe(parse(t, fixtures.UnsubscribeFail))
	require.ErrorIs(t, err, core.ErrHtmlParse)
	require.Equal(t, "Cannot unsubscribe non-members", err.Error())

	err = Unsubscribe(parse(t, fixtures.Overview))
	require.ErrorIs(t, err, core.ErrHtmlParse)
}

func TestChange(t *testing.T) {
	require.NoError(t, Change(fixtures.ChangeSuccess, "james@example.co.uk"))

	for _, page := range [][]byte{fixtures.ChangeNotMember, fixtures.ChangeAlreadyMember} {
		err := Change(page, "james.jones@example.co.uk")
		require.ErrorIs(t, err, core.ErrUserInput)
		require.Equal(t, "james.jones@example.co.uk is already a list member", err.Error())
	}
}

func TestOptionValue(t *testing.T) {
	doc := parse(t, fixtures.OptionsMember)

	testCases := []struct {
		option   string
		expected string
	}{
		{option: "digest", expected: "1"},
		{option: "disablemail", expected: "0"},
		{option: "nodupes", expected: "1"},
		{option: "fullname", expected: "James Smith"},
		{option: "newpw", expected: ""},
	}
	for _, test := range testCases {
		opt, err := core.LookupOption(test.option)
		require.NoError(t, err)
		value, err := OptionValue(doc, opt)
		require.NoError(t, err, test.option)
		require.Equal(t, test.expected, value, test.option)
	}

	opt, err := core.LookupOption("digest")
	require.NoError(t, err)
	_, err = OptionValue(parse(t, fixtures.OptionsLogin), opt)
	require.True(t, errors.Is(err, core.ErrHtmlParse))
}

func TestVersion(t *testing.T) {
	for _, page := range [][]byte{fixtures.Overview, fixtures.AdminGeneral, fixtures.MembersShort} {
		version, err := Version(parse(t, page))
		require.NoError(t, err)
		require.Equal(t, "2.1.20", version)
	}

	_, err := Version(parse(t, fixtures.AdminLogin))
	require.ErrorIs(t, err, core.ErrHtmlParse)
}

func TestRoster(t *testing.T) {
	members := Roster(parse(t, fixtures.Roster))
	require.Equal(t, []string{
		"test2@subnets.org",
		"james.smith@example.co.uk",
		"james.jones@example.co.uk",
	}, members)

	require.Empty(t, Roster(parse(t, fixtures.Overview)))
}

func TestApplyKeySkipsRows(t *testing.T) {
	doc := parse(t, []byte(`<table>
		<tr><td><b>header</b></td></tr>
		<tr><td><a href="/a">one</a></td></tr>
		<tr><td>no anchor</td></tr>
		<tr><td><a href="/b">two</a></td></tr>
	</table>`))
	records := Apply(doc.Selection, Rule{
		Row: "tr",
		Key: "name",
		Fields: []FieldRule{
			{Field: "name", Selector: "a", Mode: ModeText},
			{Field: "href", Selector: "a", Mode: ModeAttr, Attr: "href"},
		},
	})
	diff := cmp.Diff([]Record{
		{"name": "one", "href": "/a"},
		{"name": "two", "href": "/b"},
	}, records)
	if diff != "" {
		t.Fatal(diff)
	}
}
