// Package fragment extracts listbox options from a server-rendered markup
// fragment.
package fragment

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/oakwood-commons/combox/internal/combobox"
)

// CountID is the id of the element whose data-total attribute carries the
// server-side result count.
const CountID = "search-result-count"

// ErrEncoding is returned for fragments that are not valid UTF-8.
var ErrEncoding = errors.New("fragment is not valid UTF-8")

var optionIDPattern = regexp.MustCompile(`^` + regexp.QuoteMeta(combobox.OptionIDPrefix) + `\d+$`)

// Parser returns Parse as a combobox.Parser.
func Parser() combobox.Parser {
	return combobox.ParserFunc(Parse)
}

// Parse reads the options and the result count out of body. Options are
// elements with role="option" or an id of the form result-item-N. Options
// are not searched for nested options.
func Parse(body []byte) (combobox.SuggestionSet, error) {
	if !utf8.Valid(body) {
		return combobox.SuggestionSet{}, ErrEncoding
	}
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(bytes.NewReader(body), root)
	if err != nil {
		return combobox.SuggestionSet{}, fmt.Errorf("parsing fragment: %w", err)
	}

	set := combobox.SuggestionSet{Markup: string(body)}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr(n, "id") == CountID {
				set.Total = leadingInt(attr(n, "data-total"))
			}
			if isOption(n) {
				set.Items = append(set.Items, option(n, len(set.Items)))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return set, nil
}

func isOption(n *html.Node) bool {
	return attr(n, "role") == "option" || optionIDPattern.MatchString(attr(n, "id"))
}

func option(n *html.Node, index int) combobox.Suggestion {
	s := combobox.Suggestion{
		ID:   attr(n, "id"),
		Text: text(n),
		Href: href(n),
	}
	if s.ID == "" {
		s.ID = combobox.OptionID(index)
	}
	return s
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
		case html.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// href returns the link target of the option itself or of its first
// descendant anchor.
func href(n *html.Node) string {
	if h := attr(n, "href"); h != "" {
		return h
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.A {
			if h := attr(c, "href"); h != "" {
				return h
			}
		}
		if h := href(c); h != "" {
			return h
		}
	}
	return ""
}

// leadingInt parses the leading decimal digits of s, ignoring surrounding
// space. It returns 0 when there are none.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return v
}
