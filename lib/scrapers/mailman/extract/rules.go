package extract

import (
	"mailman-admin/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

type Mode int

const (
	// normalized text content of the node
	ModeText Mode = iota
	// value of the attribute named by FieldRule.Attr
	ModeAttr
	// last path segment of the node's href
	ModeBasename
)

type FieldRule struct {
	Field string
	// relative to the row, empty selects the row itself
	Selector string
	Mode     Mode
	Attr     string
	// take the last match instead of the first
	Last bool
}

// Rule addresses the parts of a page one action reads. With Row set,
// every node Row matches yields a record and Fields are evaluated
// relative to it, otherwise the whole document yields a single record.
type Rule struct {
	Row string
	// rows where this field did not match are skipped
	Key    string
	Fields []FieldRule
}

// Record maps a field to its extracted value, fields that matched
// nothing are absent.
type Record map[string]string

type Action string

const (
	ActionLists        Action = "lists"
	ActionMemberSearch Action = "member_search"
	ActionMembers      Action = "members"
	ActionLetters      Action = "letters"
	ActionSubscribe    Action = "subscribe"
	ActionUnsubscribe  Action = "unsubscribe"
	ActionVersion      Action = "version"
	ActionRoster       Action = "roster"
)

const memberTable = "body > form > center:first-of-type > table"

// the columns of a member row on the membership management page
func memberFields() []FieldRule {
	column := func(field, n string) FieldRule {
		return FieldRule{
			Field:    field,
			Selector: "td:nth-child(" + n + ") > center > input",
			Mode:     ModeAttr,
			Attr:     "value",
		}
	}
	return []FieldRule{
		{Field: "address", Selector: "td:nth-child(2) > a", Mode: ModeText},
		{Field: "realname", Selector: "td:nth-child(2) > input", Mode: ModeAttr, Attr: "value"},
		column("mod", "3"),
		column("hide", "4"),
		column("nomail", "5"),
		column("ack", "6"),
		column("notmetoo", "7"),
		column("nodupes", "8"),
		column("digest", "9"),
		column("plain", "10"),
		{
			Field:    "language",
			Selector: "td:nth-child(11) > center > select > option[selected]",
			Mode:     ModeAttr,
			Attr:     "value",
		},
	}
}

var Rules = map[Action]Rule{
	ActionLists: {
		Row: "body > table:first-of-type tr",
		Key: "name",
		Fields: []FieldRule{
			{Field: "path", Selector: "td:first-child > a", Mode: ModeBasename},
			{Field: "name", Selector: "td:first-child > a > strong", Mode: ModeText},
			{Field: "description", Selector: "td:nth-child(2)", Mode: ModeText},
		},
	},
	ActionMemberSearch: {
		Row:    "body > form > center > table tr",
		Key:    "address",
		Fields: memberFields(),
	},
	ActionMembers: {
		Row:    memberTable + " tr",
		Key:    "address",
		Fields: memberFields(),
	},
	ActionLetters: {
		Row: memberTable + " tr:nth-child(2) > td > center > a",
		Key: "letter",
		Fields: []FieldRule{
			{Field: "letter", Mode: ModeText},
		},
	},
	ActionSubscribe: {
		Fields: []FieldRule{
			{Field: "heading", Selector: "body > h5", Mode: ModeText},
			{Field: "detail", Selector: "body > ul > li", Mode: ModeText},
		},
	},
	ActionUnsubscribe: {
		Fields: []FieldRule{
			{Field: "heading", Selector: "body > h5", Mode: ModeText},
			{Field: "error", Selector: "body > h3", Mode: ModeText},
		},
	},
	ActionVersion: {
		Fields: []FieldRule{
			{Field: "footer", Selector: "table", Mode: ModeText, Last: true},
		},
	},
	ActionRoster: {
		Row: "li > a",
		Key: "address",
		Fields: []FieldRule{
			{Field: "address", Mode: ModeText},
		},
	},
}

func (f FieldRule) evaluate(scope *goquery.Selection) (string, bool) {
	sel := scope
	if f.Selector != "" {
		sel = scope.Find(f.Selector)
	}
	if f.Last {
		sel = sel.Last()
	} else {
		sel = sel.First()
	}
	if sel.Length() == 0 {
		return "", false
	}

	switch f.Mode {
	case ModeAttr:
		return sel.Attr(f.Attr)
	case ModeBasename:
		if _, ok := sel.Attr("href"); !ok {
			return "", false
		}
		return htmlutil.NewAnchor(sel.Get(0)).Basename(), true
	default:
		return htmlutil.NormalizeText(htmlutil.GetText(sel.Get(0))), true
	}
}

// Apply evaluates rule against the document or selection in scope.
func Apply(scope *goquery.Selection, rule Rule) []Record {
	rows := scope
	if rule.Row != "" {
		rows = scope.Find(rule.Row)
	}

	records := []Record{}
	rows.Each(func(_ int, row *goquery.Selection) {
		record := Record{}
		for _, field := range rule.Fields {
			value, ok := field.evaluate(row)
			if ok {
				record[field.Field] = value
			}
		}
		if rule.Key != "" {
			if _, ok := record[rule.Key]; !ok {
				return
			}
		}
		records = append(records, record)
	})
	return records
}

// First is Apply for rules that address a single record.
func First(scope *goquery.Selection, rule Rule) Record {
	records := Apply(scope, rule)
	if len(records) == 0 {
		return Record{}
	}
	return records[0]
}
