package core

import (
	"net/url"
	"sort"

	"github.com/antzucaro/matchr"
)

type ExtractMode int

const (
	// read the value attribute of the input named after the option
	ExtractValue ExtractMode = iota
	// read the value attribute of the checked input named after the option
	ExtractChecked
)

// Option describes how the user options page (/options/<list>/<member>)
// changes one setting and where the new value is read back from.
type Option struct {
	Name        string
	Fields      []string
	SubmitField string
	SubmitValue string
	Mode        ExtractMode
}

const (
	submitAddress  = "change-of-address"
	submitPassword = "changepw"
	submitOptions  = "options-submit"
)

func toggle(name string) Option {
	return Option{
		Name:        name,
		Fields:      []string{name},
		SubmitField: submitOptions,
		SubmitValue: "Submit My Changes",
		Mode:        ExtractChecked,
	}
}

var options = map[string]Option{
	"new-address": {
		Name:        "new-address",
		Fields:      []string{"new-address", "confirm-address"},
		SubmitField: submitAddress,
		SubmitValue: "Change My Address and Name",
		Mode:        ExtractValue,
	},
	"fullname": {
		Name:        "fullname",
		Fields:      []string{"fullname"},
		SubmitField: submitAddress,
		SubmitValue: "Change My Address and Name",
		Mode:        ExtractValue,
	},
	"newpw": {
		Name:        "newpw",
		Fields:      []string{"newpw", "confpw"},
		SubmitField: submitPassword,
		SubmitValue: "Change My Password",
		Mode:        ExtractValue,
	},
	"disablemail": toggle("disablemail"),
	"digest":      toggle("digest"),
	"mime":        toggle("mime"),
	"dontreceive": toggle("dontreceive"),
	"ackposts":    toggle("ackposts"),
	"remind":      toggle("remind"),
	"conceal":     toggle("conceal"),
	"rcvtopic":    toggle("rcvtopic"),
	"nodupes":     toggle("nodupes"),
}

// OptionNames returns the recognized option names, sorted.
func OptionNames() []string {
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func LookupOption(name string) (Option, error) {
	opt, ok := options[name]
	if ok {
		return opt, nil
	}

	closest := ""
	closestScore := 0.0
	for _, candidate := range OptionNames() {
		score := matchr.JaroWinkler(name, candidate, false)
		if score > closestScore {
			closestScore = score
			closest = candidate
		}
	}
	if closestScore >= 0.8 {
		return Option{}, Errorf(ErrInvalidOption, "Invalid option %q, did you mean %q?", name, closest)
	}
	return Option{}, NewError(ErrInvalidOption, "")
}

// Payload is the query an options page submission carries for value.
func (o Option) Payload(value string) url.Values {
	query := url.Values{}
	for _, f := range o.Fields {
		query.Set(f, value)
	}
	query.Set(o.SubmitField, o.SubmitValue)
	return query
}
