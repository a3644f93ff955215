package extract

import (
	"bytes"
	"mailman-admin/lib/scrapers/mailman/core"
	"mailman-admin/lib/textutil"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type ListSummary struct {
	Path        string
	Name        string
	Description string
}

// MemberRecord is one row of the membership management page. The flags
// are kept as the "on"/"off" mailman renders into each checkbox.
type MemberRecord struct {
	Address      string
	RealName     string
	Moderated    string
	Hidden       string
	NoMail       string
	Acknowledge  string
	NotMeToo     string
	NoDuplicates string
	Digest       string
	PlainText    string
	Language     string
}

// MembersPage holds the addresses and display names of a member
// listing, aligned by index.
type MembersPage struct {
	Addresses []string
	Names     []string
}

func Lists(doc *goquery.Document) ([]ListSummary, error) {
	records := Apply(doc.Selection, Rules[ActionLists])
	if len(records) == 0 {
		return nil, core.NewError(core.ErrHtmlParse, "")
	}
	lists := make([]ListSummary, len(records))
	for i, r := range records {
		lists[i] = ListSummary{
			Path:        r["path"],
			Name:        r["name"],
			Description: r["description"],
		}
	}
	return lists, nil
}

func memberRecord(r Record) MemberRecord {
	return MemberRecord{
		Address:      r["address"],
		RealName:     r["realname"],
		Moderated:    r["mod"],
		Hidden:       r["hide"],
		NoMail:       r["nomail"],
		Acknowledge:  r["ack"],
		NotMeToo:     r["notmetoo"],
		NoDuplicates: r["nodupes"],
		Digest:       r["digest"],
		PlainText:    r["plain"],
		Language:     r["language"],
	}
}

// MemberRecords reads the rows of a member search result.
func MemberRecords(doc *goquery.Document) ([]MemberRecord, error) {
	records := Apply(doc.Selection, Rules[ActionMemberSearch])
	if len(records) == 0 {
		return nil, core.NewError(core.ErrNoMatch, "")
	}
	members := make([]MemberRecord, len(records))
	for i, r := range records {
		members[i] = memberRecord(r)
	}
	return members, nil
}

// Members reads the addresses and names of one page of the member listing.
func Members(doc *goquery.Document) MembersPage {
	records := Apply(doc.Selection, Rules[ActionMembers])
	page := MembersPage{
		Addresses: make([]string, len(records)),
		Names:     make([]string, len(records)),
	}
	for i, r := range records {
		page.Addresses[i] = r["address"]
		page.Names[i] = r["realname"]
	}
	return page
}

// Letters returns the letters of the member listing navigation, nil
// when the listing fits on a single page.
func Letters(doc *goquery.Document) []string {
	records := Apply(doc.Selection, Rules[ActionLetters])
	if len(records) == 0 {
		return nil
	}
	letters := make([]string, len(records))
	for i, r := range records {
		letters[i] = textutil.LetterFromLink(r["letter"])
	}
	return letters
}

var subscribeSuccess = []string{
	"Successfully subscribed:",
	"Successfully invited:",
}

// Subscribe has three outcomes: true on a success heading, a UserInput
// error on any other heading and false without an error when the page
// has no heading at all.
func Subscribe(doc *goquery.Document) (bool, error) {
	r := First(doc.Selection, Rules[ActionSubscribe])
	heading := r["heading"]
	if heading == "" {
		return false, nil
	}
	for _, s := range subscribeSuccess {
		if heading == s {
			return true, nil
		}
	}
	message := heading
	if detail := r["detail"]; detail != "" {
		message += " " + detail
	}
	return false, core.NewError(core.ErrUserInput, message)
}

// Unsubscribe reports mailman's error heading (ex. "Cannot unsubscribe
// non-members") as a parse failure carrying the heading text.
func Unsubscribe(doc *goquery.Document) error {
	r := First(doc.Selection, Rules[ActionUnsubscribe])
	if r["heading"] == "Successfully Unsubscribed:" {
		return nil
	}
	if message, ok := r["error"]; ok {
		return core.NewError(core.ErrHtmlParse, strings.Trim(message, ":"))
	}
	return core.NewError(core.ErrHtmlParse, "")
}

var changeFailures = [][]byte{
	[]byte("is not a member"),
	[]byte("is already a list member"),
}

// Change only looks for mailman's two failure messages, both are
// reported as the new address already being a member.
func Change(body []byte, to string) error {
	for _, failure := range changeFailures {
		if bytes.Contains(body, failure) {
			return core.NewError(core.ErrUserInput, to+" is already a list member")
		}
	}
	return nil
}

// OptionRule addresses where the options page renders the current value
// of opt.
func OptionRule(opt core.Option) Rule {
	selector := `input[name="` + opt.Name + `"]`
	if opt.Mode == core.ExtractChecked {
		selector += "[checked]"
	}
	return Rule{
		Fields: []FieldRule{
			{Field: "value", Selector: selector, Mode: ModeAttr, Attr: "value"},
		},
	}
}

func OptionValue(doc *goquery.Document, opt core.Option) (string, error) {
	r := First(doc.Selection, OptionRule(opt))
	value, ok := r["value"]
	if !ok {
		return "", core.NewError(core.ErrHtmlParse, "")
	}
	return value, nil
}

var versionPattern = regexp.MustCompile(`(?is)version ([\d.-]+)`)

func Version(doc *goquery.Document) (string, error) {
	r := First(doc.Selection, Rules[ActionVersion])
	match := versionPattern.FindStringSubmatch(r["footer"])
	if match == nil {
		return "", core.NewError(core.ErrHtmlParse, "")
	}
	return match[1], nil
}

func Roster(doc *goquery.Document) []string {
	records := Apply(doc.Selection, Rules[ActionRoster])
	members := make([]string, len(records))
	for i, r := range records {
		members[i] = textutil.DeobfuscateAddress(r["address"])
	}
	return members
}
