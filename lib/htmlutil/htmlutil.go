package htmlutil

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// GetText concatenates every text node under node.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// NormalizeText drops non printable runes, trims the ends and collapses
// whitespace runs into a single space.
func NormalizeText(s string) string {
	s = removeNonPrintable(s)
	s = strings.TrimSpace(s)
	return innerWhitespace.ReplaceAllString(s, " ")
}

// Anchor is a link as it appears on a page, Name is its normalized text.
type Anchor struct {
	Name string
	Href string
}

// NewAnchor reads an anchor off an <a> node.
func NewAnchor(node *html.Node) Anchor {
	href := ""
	for _, a := range node.Attr {
		if a.Key == "href" {
			href = a.Val
			break
		}
	}
	return Anchor{Name: NormalizeText(GetText(node)), Href: href}
}

// Basename is the last path segment of the anchor's target.
func (a Anchor) Basename() string {
	link, err := url.Parse(a.Href)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.TrimRight(link.Path, "/"), "/")
	return segments[len(segments)-1]
}
