package core

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Request is a request against one of mailman's admin endpoints,
// Path is relative to the configured base url.
type Request struct {
	Method string
	Path   string
	Query  url.Values
}

// Builder turns an admin action into the request mailman's own web forms
// would have sent. Every list scoped request carries the list's admin
// password as `adminpw`.
type Builder struct {
	credentials map[string]string
}

func NewBuilder(lists map[string]string) Builder {
	credentials := make(map[string]string, len(lists))
	for list, password := range lists {
		credentials[list] = password
	}
	return Builder{credentials: credentials}
}

func (b Builder) Password(list string) (string, error) {
	password, ok := b.credentials[list]
	if !ok {
		return "", Errorf(ErrUserInput, "No admin password registered for list %q", list)
	}
	return password, nil
}

func (b Builder) withPassword(list string, query url.Values) (url.Values, error) {
	password, err := b.Password(list)
	if err != nil {
		return nil, err
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("adminpw", password)
	return query, nil
}

func (b Builder) get(list, path string, query url.Values) (Request, error) {
	query, err := b.withPassword(list, query)
	if err != nil {
		return Request{}, err
	}
	return Request{Method: http.MethodGet, Path: path, Query: query}, nil
}

func adminPath(list string, rest ...string) string {
	return "/admin/" + list + strings.Join(rest, "")
}

func (b Builder) Lists() Request {
	return Request{Method: http.MethodGet, Path: "/admin"}
}

// the search form also names `setmemberopts_btn`, but without a value,
// which drops it from the encoded query.
func (b Builder) FindMember(list, query string) (Request, error) {
	return b.get(list, adminPath(list, "/members"), url.Values{
		"findmember": {query},
	})
}

// letter is empty for the first (or only) page of the member listing.
func (b Builder) Members(list, letter string) (Request, error) {
	query := url.Values{}
	if letter != "" {
		query.Set("letter", letter)
	}
	return b.get(list, adminPath(list, "/members"), query)
}

func (b Builder) Unsubscribe(list, email string) (Request, error) {
	return b.get(list, adminPath(list, "/members/remove"), url.Values{
		"send_unsub_ack_to_this_batch":           {"0"},
		"send_unsub_notifications_to_list_owner": {"0"},
		"unsubscribees":                          {email},
	})
}

func (b Builder) Subscribe(list, email string, invite bool) (Request, error) {
	subscribeOrInvite := 0
	if invite {
		subscribeOrInvite = 1
	}
	return b.get(list, adminPath(list, "/members/add"), url.Values{
		"subscribe_or_invite":              {strconv.Itoa(subscribeOrInvite)},
		"send_welcome_msg_to_this_batch":   {"0"},
		"send_notifications_to_list_owner": {"0"},
		"subscribees":                      {email},
	})
}

func (b Builder) Change(list, from, to string) (Request, error) {
	return b.get(list, adminPath(list, "/members/change"), url.Values{
		"change_from": {from},
		"change_to":   {to},
		"notice_old":  {"0"},
		"notice_new":  {"0"},
	})
}

// QuoteAddress quotes email the way mailman does when it names the per
// member fields of the membership form: everything except letters,
// digits and `_.-/` is percent encoded, `~` included.
func QuoteAddress(email string) string {
	const hex = "0123456789ABCDEF"
	var out strings.Builder
	for i := 0; i < len(email); i++ {
		c := email[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
			out.WriteByte(c)
		case c == '_' || c == '.' || c == '-' || c == '/':
			out.WriteByte(c)
		default:
			out.WriteByte('%')
			out.WriteByte(hex[c>>4])
			out.WriteByte(hex[c&15])
		}
	}
	return out.String()
}

// OptionsPath is the per member options page, mailman spells the member
// address with `--at--` in place of `@`.
func OptionsPath(list, email string) string {
	return "/options/" + list + "/" + strings.ReplaceAll(email, "@", "--at--")
}

func (b Builder) SetOption(list, email, name, value string) (Request, Option, error) {
	opt, err := LookupOption(name)
	if err != nil {
		return Request{}, Option{}, err
	}
	req, err := b.get(list, OptionsPath(list, email), opt.Payload(value))
	if err != nil {
		return Request{}, Option{}, err
	}
	return req, opt, nil
}

func (b Builder) Version(list string) (Request, error) {
	return b.get(list, adminPath(list, "/"), nil)
}

// AdminLogin fetches the admin login form, it deliberately carries no
// password so that mailman renders the form instead of logging in.
func (b Builder) AdminLogin(list string) Request {
	return Request{Method: http.MethodGet, Path: adminPath(list)}
}

func (b Builder) Roster(list string) Request {
	return Request{Method: http.MethodGet, Path: "/roster/" + list}
}

// AdminCookieName is the cookie mailman sets after a successful admin login.
func AdminCookieName(list string) string {
	return list + "+admin"
}
