// Package extract turns clipboard text into the list of URLs to open.
package extract

import (
	"regexp"
	"strings"

	"github.com/entrhq/tabcopy/pkg/types"
	"golang.org/x/net/html"
)

// urlPattern matches the URL schemes recognised by regex extraction.
var urlPattern = regexp.MustCompile(`(?i)(?:(?:https?|ftp|ssh)://|mailto:)[a-z0-9/:%_+.,#?!@&=~;\-]+`)

// Extract parses text into URLs using the given mode.
// Unknown modes fall back to line splitting.
func Extract(text string, mode types.PasteMode) []string {
	if mode == types.ModeRegexExtract {
		return Matches(text)
	}
	return Lines(text)
}

// Lines splits text on newlines, unwraps HTML anchors and drops blank lines.
// Order and duplicates are preserved.
func Lines(text string) []string {
	urls := []string{}
	for _, segment := range strings.Split(text, "\n") {
		if href, ok := anchorHref(segment); ok {
			segment = href
		}
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		urls = append(urls, segment)
	}
	return urls
}

// Matches returns every non-overlapping URL-shaped substring of text in order.
func Matches(text string) []string {
	found := urlPattern.FindAllString(text, -1)
	if found == nil {
		return []string{}
	}
	return found
}

// anchorHref returns the href of the first <a> element carrying one.
// An empty href still unwraps, leaving nothing to open.
func anchorHref(segment string) (string, bool) {
	if !strings.Contains(segment, "<") {
		return "", false
	}

	tokenizer := html.NewTokenizer(strings.NewReader(segment))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return "", false

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := tokenizer.TagName()
			if string(name) != "a" || !hasAttr {
				continue
			}
			for {
				key, val, more := tokenizer.TagAttr()
				if string(key) == "href" {
					return string(val), true
				}
				if !more {
					break
				}
			}
		}
	}
}
