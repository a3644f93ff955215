package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
)

const redacted = "<redacted>"

// fields that hold list or member passwords
var secretFields = []string{"adminpw", "newpw", "confpw"}

func redactValues(values url.Values) url.Values {
	out := url.Values{}
	for k, v := range values {
		out[k] = v
	}
	for _, field := range secretFields {
		if _, ok := out[field]; ok {
			out.Set(field, redacted)
		}
	}
	return out
}

// RedactUrl replaces password query parameters in rawUrl.
func RedactUrl(rawUrl string) string {
	parsed, err := url.Parse(rawUrl)
	if err != nil {
		return rawUrl
	}
	if parsed.RawQuery == "" {
		return rawUrl
	}
	parsed.RawQuery = redactValues(parsed.Query()).Encode()
	return parsed.String()
}

// RedactForm replaces password fields in a urlencoded body.
func RedactForm(body string) string {
	values, err := url.ParseQuery(body)
	if err != nil {
		return body
	}
	return redactValues(values).Encode()
}

func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out strings.Builder
	for _, k := range keys {
		for _, v := range headers[k] {
			if strings.EqualFold(k, "cookie") || strings.EqualFold(k, "set-cookie") {
				v = redacted
			}
			out.WriteString(fmt.Sprintf("%s: %s\n", k, v))
		}
	}
	return strings.TrimSuffix(out.String(), "\n")
}

func formatRequestBody(req *http.Request) string {
	if req.GetBody == nil {
		return ""
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("failed to get request body: %s", err.Error())
	}
	if body == nil {
		return ""
	}
	readBody, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("failed to read request body: %s", err.Error())
	}
	return RedactForm(string(readBody))
}

// 1: request method
// 2: request url
// 3: request headers in ("Key: Value" format)
// 4: request body
// 5: response status
// 6: response url
// 7: response headers in ("Key: Value" format)
// 8: response body
const messageInfoTemplate = `---- REQUEST ----

%s %s

%s

%s

---- RESPONSE ----

%s %s

%s

%s`

func formatHttpMessage(res *resty.Response) string {
	requestUrl := res.Request.URL
	requestHeaders := ""
	requestBody := ""
	if raw := res.Request.RawRequest; raw != nil {
		requestUrl = raw.URL.String()
		requestHeaders = formatHeaders(raw.Header)
		requestBody = formatRequestBody(raw)
	}

	responseUrl := requestUrl
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		responseUrl = res.RawResponse.Request.URL.String()
	}

	return fmt.Sprintf(
		messageInfoTemplate,

		res.Request.Method, RedactUrl(requestUrl),
		requestHeaders,
		requestBody,

		strconv.Itoa(res.StatusCode()), RedactUrl(responseUrl),
		formatHeaders(res.Header()),
		res.String(),
	)
}
