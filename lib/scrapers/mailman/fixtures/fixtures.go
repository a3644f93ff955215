// Package fixtures holds pages saved from a Mailman 2.1 installation
// using the default theme.
package fixtures

import (
	_ "embed"
)

var (
	//go:embed overview.html
	Overview []byte
	//go:embed admin_general.html
	AdminGeneral []byte
	//go:embed admin_login.html
	AdminLogin []byte

	//go:embed findmember_james.html
	FindMemberJames []byte
	//go:embed findmember_fail.html
	FindMemberFail []byte

	// the "a" page of a listing split by letter, every other letter page
	// is this one with a2000 swapped for <letter>2000
	//go:embed members_letters.html
	MembersLetters []byte
	//go:embed members_empty.html
	MembersEmpty []byte
	//go:embed members_short.html
	MembersShort []byte

	//go:embed subscribe_success.html
	SubscribeSuccess []byte
	//go:embed subscribe_invited.html
	SubscribeInvited []byte
	//go:embed subscribe_fail.html
	SubscribeFail []byte

	//go:embed unsubscribe_success.html
	UnsubscribeSuccess []byte
	//go:embed unsubscribe_fail.html
	UnsubscribeFail []byte

	//go:embed change_success.html
	ChangeSuccess []byte
	//go:embed change_not_member.html
	ChangeNotMember []byte
	//go:embed change_already_member.html
	ChangeAlreadyMember []byte

	//go:embed options_member.html
	OptionsMember []byte
	//go:embed options_login.html
	OptionsLogin []byte

	//go:embed roster.html
	Roster []byte
)
