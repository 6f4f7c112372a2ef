// Copyright 2024-2026 Aiku AI

// Package markdownv2 converts a small Markdown dialect to Telegram
// MarkdownV2. Recognized constructs are line-initial "# " and "## "
// headings, inline **bold** spans, and bare http(s) URLs; everything
// else is treated as literal text and escaped. Telegram parses
// MarkdownV2 strictly: a single unescaped reserved character makes it
// reject the whole message, so escaping correctness is the point of
// this package.
package markdownv2

import (
	"regexp"
	"strings"
)

// reserved is the MarkdownV2 character set that must be backslash-escaped
// when meant literally.
const reserved = "_*[]()~`>#+-=|{}.!\\"

var (
	escaper = newEscaper(reserved)

	// Link targets have their own context: only the backslash and the
	// closing parenthesis are special inside [...](...).
	linkTargetEscaper = newEscaper("\\)")

	// tokenRe matches the two inline constructs: **bold** (non-greedy,
	// non-empty inner) and bare http(s) URLs. Bold is listed first so it
	// wins when both alternatives could start at the same offset.
	tokenRe = regexp.MustCompile(`(?i)\*\*(.+?)\*\*|https?://\S+`)
)

func newEscaper(chars string) *strings.Replacer {
	pairs := make([]string, 0, len(chars)*2)
	for _, c := range chars {
		pairs = append(pairs, string(c), `\`+string(c))
	}
	return strings.NewReplacer(pairs...)
}

// Escape backslash-escapes every MarkdownV2 reserved character in text.
func Escape(text string) string {
	return escaper.Replace(text)
}

// Format converts text to Telegram MarkdownV2. It is total and
// deterministic: any input yields a valid MarkdownV2 string, unknown
// markup is escaped as literal text, and identical input always yields
// identical output. It is not idempotent — feeding already-formatted
// output back in double-escapes it.
func Format(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text) * 2)
	for _, line := range strings.SplitAfter(text, "\n") {
		b.WriteString(formatLine(line))
	}
	return b.String()
}

// formatLine applies the line-start heading markers, then the inline
// pass, preserving the line's original terminator.
func formatLine(line string) string {
	content, eol := line, ""
	if strings.HasSuffix(content, "\n") {
		content, eol = content[:len(content)-1], "\n"
		if strings.HasSuffix(content, "\r") {
			content, eol = content[:len(content)-1], "\r\n"
		}
	}

	switch {
	case strings.HasPrefix(content, "# "):
		// Top-level heading: bold+underline, preceded by a blank line
		// for visual separation.
		inner := formatInline(strings.TrimLeft(content[2:], " \t"))
		return "\n__*" + inner + "*__" + eol
	case strings.HasPrefix(content, "## "):
		inner := formatInline(strings.TrimLeft(content[3:], " \t"))
		return "*" + inner + "*" + eol
	default:
		return formatInline(content) + eol
	}
}

// formatInline walks the line left to right, replacing **bold** spans
// and bare URLs and escaping every gap in between. An unterminated **
// never matches, so it falls into a gap and gets escaped like any other
// literal text.
func formatInline(text string) string {
	matches := tokenRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return escaper.Replace(text)
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > last {
			b.WriteString(escaper.Replace(text[last:start]))
		}
		if m[2] >= 0 {
			// **bold** — group 1 is the inner text.
			b.WriteString("*")
			b.WriteString(escaper.Replace(text[m[2]:m[3]]))
			b.WriteString("*")
		} else {
			url, tail := trimURL(text[start:end])
			b.WriteString("[")
			b.WriteString(escaper.Replace(url))
			b.WriteString("](")
			b.WriteString(linkTargetEscaper.Replace(url))
			b.WriteString(")")
			if tail != "" {
				b.WriteString(escaper.Replace(tail))
			}
		}
		last = end
	}
	if last < len(text) {
		b.WriteString(escaper.Replace(text[last:]))
	}
	return b.String()
}

// trimURL splits trailing punctuation off a URL candidate. Sentence
// punctuation is always trimmed; a closing paren or bracket is trimmed
// only while the run holds more closers than openers of that pair, so
// https://en.wikipedia.org/wiki/Go_(game) keeps its final paren while
// the paren in "(see https://example.com)" does not stick to the URL.
func trimURL(s string) (url, tail string) {
	url = s
	for len(url) > 0 {
		switch url[len(url)-1] {
		case '.', ',', ':', ';', '!', '?':
			url = url[:len(url)-1]
		case ')':
			if strings.Count(url, "(") >= strings.Count(url, ")") {
				return url, s[len(url):]
			}
			url = url[:len(url)-1]
		case ']':
			if strings.Count(url, "[") >= strings.Count(url, "]") {
				return url, s[len(url):]
			}
			url = url[:len(url)-1]
		default:
			return url, s[len(url):]
		}
	}
	return url, s
}
