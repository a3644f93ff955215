package admin

import (
	"context"
	"errors"
	"log/slog"
	"mailman-admin/lib/scrapers/mailman/core"
	"mailman-admin/lib/scrapers/mailman/extract"
	"mailman-admin/lib/textutil"
	"regexp"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Client exposes one method per administrative action. It shares the
// session of Core, so like core.Client it must not be used concurrently.
type Client struct {
	Core *core.Client
}

func NewClient(opts core.ClientOptions) (Client, error) {
	coreClient, err := core.NewClient(opts)
	if err != nil {
		return Client{}, err
	}
	return Client{Core: coreClient}, nil
}

func failed(span trace.Span, err error, status string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, status)
	return err
}

func (c Client) fetch(ctx context.Context, span trace.Span, req core.Request, err error) (core.Page, error) {
	if err != nil {
		return core.Page{}, failed(span, err, "failed to build request")
	}
	page, err := c.Core.Do(ctx, req)
	if err != nil {
		return core.Page{}, failed(span, err, "failed to fetch")
	}
	return page, nil
}

func (c Client) Lists(ctx context.Context) ([]extract.ListSummary, error) {
	ctx, span := tracer.Start(ctx, "client:Lists")
	defer span.End()

	page, err := c.fetch(ctx, span, c.Core.Requests.Lists(), nil)
	if err != nil {
		return nil, err
	}
	lists, err := extract.Lists(page.Doc)
	if err != nil {
		return nil, failed(span, err, "failed to parse list overview")
	}
	span.SetAttributes(attribute.Int("count", len(lists)))
	return lists, nil
}

// Member runs mailman's member search, query is matched by mailman as a
// case insensitive regular expression.
func (c Client) Member(ctx context.Context, list, query string) ([]extract.MemberRecord, error) {
	ctx, span := tracer.Start(ctx, "client:Member")
	defer span.End()
	span.SetAttributes(attribute.String("list", list))

	req, err := c.Core.Requests.FindMember(list, query)
	page, err := c.fetch(ctx, span, req, err)
	if err != nil {
		return nil, err
	}
	members, err := extract.MemberRecords(page.Doc)
	if err != nil {
		return nil, failed(span, err, "no members found")
	}
	return members, nil
}

// Members returns every address and name of list, walking the letter
// pages when mailman splits the listing.
func (c Client) Members(ctx context.Context, list string) (extract.MembersPage, error) {
	ctx, span := tracer.Start(ctx, "client:Members")
	defer span.End()
	span.SetAttributes(attribute.String("list", list))

	req, err := c.Core.Requests.Members(list, "")
	page, err := c.fetch(ctx, span, req, err)
	if err != nil {
		return extract.MembersPage{}, err
	}

	letters := extract.Letters(page.Doc)
	if len(letters) == 0 {
		return extract.Members(page.Doc), nil
	}

	members := extract.MembersPage{
		Addresses: []string{},
		Names:     []string{},
	}
	for _, letter := range letters {
		slog.DebugContext(ctx, "fetching member page", "list", list, "letter", letter)

		req, err := c.Core.Requests.Members(list, letter)
		page, err := c.fetch(ctx, span, req, err)
		if err != nil {
			return extract.MembersPage{}, err
		}
		letterPage := extract.Members(page.Doc)
		members.Addresses = append(members.Addresses, letterPage.Addresses...)
		members.Names = append(members.Names, letterPage.Names...)
	}
	span.SetAttributes(attribute.Int("count", len(members.Addresses)))
	return members, nil
}

// Subscribe adds (or with invite, invites) email to list. A false result
// without an error means mailman's response could not be classified.
func (c Client) Subscribe(ctx context.Context, list, email string, invite bool) (bool, error) {
	ctx, span := tracer.Start(ctx, "client:Subscribe")
	defer span.End()
	span.SetAttributes(
		attribute.String("list", list),
		attribute.Bool("invite", invite),
	)

	req, err := c.Core.Requests.Subscribe(list, email, invite)
	page, err := c.fetch(ctx, span, req, err)
	if err != nil {
		return false, err
	}
	ok, err := extract.Subscribe(page.Doc)
	if err != nil {
		return false, failed(span, err, "subscription rejected")
	}
	if !ok {
		slog.WarnContext(ctx, "subscribe response has no result heading", "list", list, "email", email)
		span.SetStatus(codes.Error, "unclassified response")
	}
	return ok, nil
}

func (c Client) Unsubscribe(ctx context.Context, list, email string) error {
	ctx, span := tracer.Start(ctx, "client:Unsubscribe")
	defer span.End()
	span.SetAttributes(attribute.String("list", list))

	req, err := c.Core.Requests.Unsubscribe(list, email)
	page, err := c.fetch(ctx, span, req, err)
	if err != nil {
		return err
	}
	err = extract.Unsubscribe(page.Doc)
	if err != nil {
		return failed(span, err, "unsubscribe rejected")
	}
	return nil
}

// Change moves the membership of from over to the address to.
func (c Client) Change(ctx context.Context, list, from, to string) error {
	ctx, span := tracer.Start(ctx, "client:Change")
	defer span.End()
	span.SetAttributes(attribute.String("list", list))

	req, err := c.Core.Requests.Change(list, from, to)
	page, err := c.fetch(ctx, span, req, err)
	if err != nil {
		return err
	}
	err = extract.Change(page.Body, to)
	if err != nil {
		return failed(span, err, "change rejected")
	}
	return nil
}

// SetOption changes a member option through the member's options page
// and returns the value mailman renders afterwards.
func (c Client) SetOption(ctx context.Context, list, email, name, value string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:SetOption")
	defer span.End()
	span.SetAttributes(
		attribute.String("list", list),
		attribute.String("option", name),
	)

	req, opt, err := c.Core.Requests.SetOption(list, email, name, value)
	page, err := c.fetch(ctx, span, req, err)
	if err != nil {
		return "", err
	}
	result, err := extract.OptionValue(page.Doc, opt)
	if err != nil {
		return "", failed(span, err, "failed to read option value")
	}
	slog.DebugContext(ctx, "member option set", "list", list, "option", name, "result", result)
	return result, nil
}

func (c Client) SetDigest(ctx context.Context, list, email string, on bool) (string, error) {
	value := "0"
	if on {
		value = "1"
	}
	return c.SetOption(ctx, list, email, "digest", value)
}

func modValue(on bool) string {
	if on {
		return "1"
	}
	return "0"
}

// ModAll sets the moderation bit of every member of list, through the
// membership page's own form.
func (c Client) ModAll(ctx context.Context, list string, on bool) error {
	ctx, span := tracer.Start(ctx, "client:ModAll")
	defer span.End()
	span.SetAttributes(
		attribute.String("list", list),
		attribute.Bool("on", on),
	)

	req, err := c.Core.Requests.Members(list, "")
	page, err := c.fetch(ctx, span, req, err)
	if err != nil {
		return err
	}
	form, err := core.ParseForm(page, "allmodbit_btn")
	if err != nil {
		return failed(span, err, "failed to find moderation form")
	}
	err = form.Set("allmodbit_val", modValue(on))
	if err != nil {
		return failed(span, err, "failed to set moderation bit")
	}
	_, err = c.Core.Submit(ctx, form)
	if err != nil {
		return failed(span, err, "failed to submit moderation form")
	}
	return nil
}

// ModSubscriber sets the moderation bit of a single member, it fails
// with core.ErrNoMatch when the membership page has no row for email.
func (c Client) ModSubscriber(ctx context.Context, list, email string, on bool) error {
	ctx, span := tracer.Start(ctx, "client:ModSubscriber")
	defer span.End()
	span.SetAttributes(
		attribute.String("list", list),
		attribute.Bool("on", on),
	)

	req, err := c.Core.Requests.Members(list, "")
	page, err := c.fetch(ctx, span, req, err)
	if err != nil {
		return err
	}
	if len(extract.Letters(page.Doc)) > 0 {
		letter := textutil.FirstLetter(email)
		slog.DebugContext(ctx, "fetching member page", "list", list, "letter", letter)

		req, err := c.Core.Requests.Members(list, letter)
		page, err = c.fetch(ctx, span, req, err)
		if err != nil {
			return err
		}
	}

	form, err := core.ParseForm(page, "setmemberopts_btn")
	if err != nil {
		return failed(span, err, "failed to find membership form")
	}

	quoted := core.QuoteAddress(email)
	if !form.Has(quoted + "_realname") {
		return failed(
			span,
			core.Errorf(core.ErrNoMatch, "No such subscriber %q", email),
			"no row for subscriber",
		)
	}
	if on {
		err = form.Tick(quoted + "_mod")
	} else {
		err = form.Untick(quoted + "_mod")
	}
	if err != nil {
		return failed(span, err, "failed to toggle moderation")
	}
	err = form.Set("user", quoted)
	if err != nil {
		return failed(span, err, "failed to select subscriber")
	}

	_, err = c.Core.Submit(ctx, form)
	if err != nil {
		return failed(span, err, "failed to submit membership form")
	}
	return nil
}

func (c Client) Version(ctx context.Context, list string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:Version")
	defer span.End()
	span.SetAttributes(attribute.String("list", list))

	req, err := c.Core.Requests.Version(list)
	page, err := c.fetch(ctx, span, req, err)
	if err != nil {
		return "", err
	}
	version, err := extract.Version(page.Doc)
	if err != nil {
		return "", failed(span, err, "failed to find version")
	}
	return version, nil
}

// Roster returns the member addresses on the roster page of list, it
// logs into the list's admin interface first if the session has not.
func (c Client) Roster(ctx context.Context, list string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "client:Roster")
	defer span.End()
	span.SetAttributes(attribute.String("list", list))

	err := c.Core.EnsureAdminSession(ctx, list)
	if err != nil {
		return nil, failed(span, err, "failed to log in")
	}
	page, err := c.fetch(ctx, span, c.Core.Requests.Roster(list), nil)
	if err != nil {
		return nil, err
	}
	return extract.Roster(page.Doc), nil
}

// IsSubscribed reports whether email is a member of list, comparing
// addresses case insensitively.
func (c Client) IsSubscribed(ctx context.Context, list, email string) (bool, error) {
	ctx, span := tracer.Start(ctx, "client:IsSubscribed")
	defer span.End()
	span.SetAttributes(attribute.String("list", list))

	members, err := c.Member(ctx, list, regexp.QuoteMeta(email))
	if errors.Is(err, core.ErrNoMatch) {
		return false, nil
	}
	if err != nil {
		return false, failed(span, err, "member search failed")
	}
	for _, m := range members {
		if textutil.SameAddress(m.Address, email) {
			return true, nil
		}
	}
	return false, nil
}
