// Package normalize turns scraped, HTML-contaminated posting text into plain
// text that keeps only a small set of structural tags.
//
// Normalize is pure and total: it never fails, never panics, and is
// idempotent, so Normalize(Normalize(x)) == Normalize(x).
package normalize

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// allowed is the tag allow-list. Everything else is flattened to its text.
var allowed = map[atom.Atom]bool{
	atom.P:      true,
	atom.Ul:     true,
	atom.Li:     true,
	atom.Ol:     true,
	atom.H1:     true,
	atom.H2:     true,
	atom.H3:     true,
	atom.H4:     true,
	atom.H5:     true,
	atom.H6:     true,
	atom.U:      true,
	atom.B:      true,
	atom.I:      true,
	atom.Strong: true,
	atom.Em:     true,
}

// dropped elements lose their content as well as their tags.
var dropped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// rawText elements hold unparsed text in the tokenizer, so tags inside them
// arrive as text. Their content is tokenized again on its own.
var rawText = map[atom.Atom]bool{
	atom.Title:     true,
	atom.Textarea:  true,
	atom.Xmp:       true,
	atom.Iframe:    true,
	atom.Noembed:   true,
	atom.Noframes:  true,
	atom.Plaintext: true,
}

// breaking elements flatten to their text plus a separating space, so that
// "<div>$80,000</div><div>401k</div>" does not fuse into one number.
var breaking = map[atom.Atom]bool{
	atom.Br:         true,
	atom.Div:        true,
	atom.Section:    true,
	atom.Article:    true,
	atom.Header:     true,
	atom.Footer:     true,
	atom.Aside:      true,
	atom.Main:       true,
	atom.Nav:        true,
	atom.Table:      true,
	atom.Thead:      true,
	atom.Tbody:      true,
	atom.Tr:         true,
	atom.Td:         true,
	atom.Th:         true,
	atom.Dl:         true,
	atom.Dt:         true,
	atom.Dd:         true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.Hr:         true,
	atom.Img:        true,
	atom.Address:    true,
	atom.Figure:     true,
	atom.Figcaption: true,
}

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// spaceReplacer maps no-break and zero-width space variants to a plain space
// before collapsing. U+00A0 and friends are also caught by strings.Fields,
// but the zero-width ones are not whitespace to unicode.IsSpace.
var spaceReplacer = strings.NewReplacer(
	"\u00a0", " ",
	"\u2007", " ",
	"\u202f", " ",
	"\u200b", " ",
	"\u2060", " ",
	"\ufeff", " ",
)

// Normalize decodes entities, flattens every element outside the allow-list
// into its text content, collapses whitespace and trims the result.
//
// Passes repeat until the text stops changing. A pass that changes the text
// removes an entity or a tag, or canonicalizes one, so the loop ends.
func Normalize(raw string) string {
	out := raw
	for {
		next := pass(out)
		if next == out {
			return out
		}
		out = next
	}
}

// PlainText is Normalize followed by flattening of the allow-listed tags:
// block tags turn into a space, inline tags disappear. The result has no
// markup at all and is what the extractors match against.
func PlainText(raw string) string {
	return collapse(plainReplacer.Replace(Normalize(raw)))
}

var plainReplacer = func() *strings.Replacer {
	var pairs []string
	for a := range allowed {
		repl := " "
		switch a {
		case atom.U, atom.B, atom.I, atom.Strong, atom.Em:
			repl = ""
		}
		name := a.String()
		pairs = append(pairs, "<"+name+">", repl, "</"+name+">", repl)
	}
	return strings.NewReplacer(pairs...)
}()

func pass(s string) string {
	s = decode(s)
	flat, ok := flatten(s)
	if !ok {
		flat = htmlTagRegex.ReplaceAllString(s, " ")
	}
	return collapse(flat)
}

// decode unescapes entities until the text stops changing, so double- or
// triple-encoded input ("&amp;amp;") comes out fully decoded.
//
// Each change either consumes an ampersand or, for "&amp;", shortens the
// text, so the loop ends.
func decode(s string) string {
	for strings.Contains(s, "&") {
		next := html.UnescapeString(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

// flatten walks the token stream, keeping bare allow-listed tags and the raw
// text of everything else. It reports false when the tokenizer fails for a
// reason other than end of input.
func flatten(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))
	if !flattenInto(&b, s) {
		return "", false
	}
	return b.String(), true
}

func flattenInto(b *strings.Builder, s string) bool {
	z := html.NewTokenizer(strings.NewReader(s))
	var skip atom.Atom
	inRaw := false
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return z.Err() == io.EOF

		case html.TextToken:
			switch {
			case skip != 0:
			case inRaw:
				if !flattenInto(b, string(z.Raw())) {
					return false
				}
			default:
				// Entities are already decoded; Raw avoids a second unescape.
				writeText(b, z.Raw())
			}

		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if skip != 0 {
				if tt == html.EndTagToken && a == skip {
					skip = 0
				}
				continue
			}
			inRaw = false
			switch {
			case allowed[a]:
				if tt == html.EndTagToken {
					b.WriteString("</" + a.String() + ">")
				} else {
					b.WriteString("<" + a.String() + ">")
				}
			case dropped[a]:
				// The tokenizer treats script, style and noscript content as
				// raw text even after a self-closing tag.
				if tt == html.StartTagToken || (tt == html.SelfClosingTagToken && a != atom.Template) {
					skip = a
				}
			case rawText[a]:
				inRaw = tt != html.EndTagToken
			case breaking[a]:
				b.WriteByte(' ')
			}

		case html.CommentToken, html.DoctypeToken:
			// dropped
		}
	}
}

// writeText appends text, separating a trailing "<" from text that would
// otherwise read as a tag once the two are joined.
func writeText(b *strings.Builder, text []byte) {
	if len(text) == 0 {
		return
	}
	if cur := b.String(); strings.HasSuffix(cur, "<") && opensTag(text[0]) {
		b.WriteByte(' ')
	}
	b.Write(text)
}

func opensTag(c byte) bool {
	return c == '/' || c == '!' || c == '?' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func collapse(s string) string {
	return strings.Join(strings.Fields(spaceReplacer.Replace(s)), " ")
}
