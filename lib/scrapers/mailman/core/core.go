package core

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mailman-admin/lib/restyutil"
	"mailman-admin/lib/telemetry"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

// Page is a fetched and parsed html response.
type Page struct {
	Url  *url.URL
	Body []byte
	Doc  *goquery.Document
}

// Client is a session against one mailman installation. It owns the
// cookie jar, so the admin login state persists for its lifetime.
//
// A Client is not meant to be shared between concurrent callers, the
// interleaved requests would corrupt the session state. Use one Client
// per caller.
type Client struct {
	BaseUrl  *url.URL
	Http     *resty.Client
	Requests Builder
}

type ClientOptions struct {
	// the mailman cgi root, ex. https://example.com/mailman
	BaseUrl string
	// list name -> admin password
	Lists map[string]string

	Timeout           time.Duration
	RequestsPerSecond float64
	UserAgent         string
	CloudflareBypass  bool
	// optional, receives a dump of every http exchange
	Instrument restyutil.InstrumentOutput
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(strings.TrimRight(opts.BaseUrl, "/"))
	if err != nil {
		return nil, err
	}
	if !baseUrl.IsAbs() {
		return nil, fmt.Errorf("base url must be absolute: %q", opts.BaseUrl)
	}

	client := resty.New()
	client.SetBaseURL(baseUrl.String())
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client.SetHeader("user-agent", userAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}
	client.SetTimeout(timeout)

	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(client, "scrapers/mailman/http")
	restyutil.InstrumentClient(client, opts.Instrument)

	return &Client{
		BaseUrl:  baseUrl,
		Http:     client,
		Requests: NewBuilder(opts.Lists),
	}, nil
}

func (c *Client) toPage(ctx context.Context, res *resty.Response) (Page, error) {
	pageUrl := c.BaseUrl
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		pageUrl = res.RawResponse.Request.URL
	}
	if res.StatusCode() != http.StatusOK {
		return Page{}, &StatusError{
			Method: res.Request.Method,
			Url:    pageUrl.String(),
			Status: res.StatusCode(),
		}
	}

	body := res.Body()
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return Page{}, fmt.Errorf("parse html: %w", err)
	}
	return Page{Url: pageUrl, Body: body, Doc: doc}, nil
}

// Do sends a built request, GET requests carry the payload in the query
// string and POST requests as a urlencoded body.
func (c *Client) Do(ctx context.Context, req Request) (Page, error) {
	ctx, span := tracer.Start(ctx, "client:Do")
	defer span.End()
	span.SetAttributes(
		attribute.String("method", req.Method),
		attribute.String("path", req.Path),
	)

	r := c.Http.R().SetContext(ctx)
	var (
		res *resty.Response
		err error
	)
	switch req.Method {
	case http.MethodPost:
		res, err = r.SetFormDataFromValues(req.Query).Post(req.Path)
	default:
		res, err = r.SetQueryParamsFromValues(req.Query).Get(req.Path)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return Page{}, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	page, err := c.toPage(ctx, res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad response")
		return Page{}, err
	}
	return page, nil
}

// Submit sends a (possibly patched) form back to where it points to.
func (c *Client) Submit(ctx context.Context, form *Form) (Page, error) {
	ctx, span := tracer.Start(ctx, "client:Submit")
	defer span.End()

	target := *form.Action
	span.SetAttributes(
		attribute.String("method", form.Method),
		attribute.String("path", target.Path),
	)

	r := c.Http.R().SetContext(ctx)
	var (
		res *resty.Response
		err error
	)
	switch form.Method {
	case http.MethodPost:
		res, err = r.SetFormDataFromValues(form.Values()).Post(target.String())
	default:
		query := target.Query()
		for key, values := range form.Values() {
			query[key] = values
		}
		target.RawQuery = query.Encode()
		res, err = r.Get(target.String())
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit form")
		return Page{}, fmt.Errorf("submit form %s %s: %w", form.Method, target.Path, err)
	}

	page, err := c.toPage(ctx, res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad response")
		return Page{}, err
	}
	return page, nil
}

func (c *Client) adminUrl(list string) *url.URL {
	return c.BaseUrl.JoinPath("admin", list)
}

// HasAdminCookie reports whether the session holds the admin cookie
// mailman hands out for list.
func (c *Client) HasAdminCookie(list string) bool {
	jar := c.Http.GetClient().Jar
	if jar == nil {
		return false
	}
	name := AdminCookieName(list)
	for _, cookie := range jar.Cookies(c.adminUrl(list)) {
		if cookie.Name == name {
			return true
		}
	}
	return false
}

// EnsureAdminSession logs into the admin interface of list through its
// login form, unless the session already holds the admin cookie. The
// login uses the admin password registered for list, not a shared one.
func (c *Client) EnsureAdminSession(ctx context.Context, list string) error {
	if c.HasAdminCookie(list) {
		return nil
	}

	ctx, span := tracer.Start(ctx, "client:EnsureAdminSession")
	defer span.End()

	password, err := c.Requests.Password(list)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unknown list")
		return err
	}

	slog.DebugContext(ctx, "logging into admin interface", "list", list)

	page, err := c.Do(ctx, c.Requests.AdminLogin(list))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch login form")
		return err
	}
	form, err := ParseForm(page, "admlogin")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to find login form")
		return err
	}
	err = form.Set("adminpw", password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login form has no password field")
		return err
	}
	_, err = c.Submit(ctx, form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit login form")
		return err
	}

	if !c.HasAdminCookie(list) {
		err := Errorf(ErrUserInput, "Admin login for list %q was rejected", list)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
