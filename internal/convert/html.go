package convert

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Diagnostic is a structural problem found in converted HTML.
type Diagnostic struct {
	Line    int    `json:"line" yaml:"line"`
	Message string `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s", d.Line, d.Message)
}

// ValidationError carries the diagnostics that stopped a conversion.
type ValidationError struct {
	Diagnostics []Diagnostic
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.String()
	}
	return "html validation failed: " + strings.Join(msgs, "; ")
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Elements whose end tag HTML allows to be omitted.
var optionalEnd = map[string]bool{
	"html": true, "head": true, "body": true, "p": true, "li": true,
	"dt": true, "dd": true, "tr": true, "td": true, "th": true,
	"thead": true, "tbody": true, "tfoot": true, "option": true,
	"optgroup": true, "colgroup": true, "caption": true, "rt": true, "rp": true,
}

type openElement struct {
	name string
	line int
}

// Validate tokenizes doc and reports end tags without a matching start tag
// and elements left open. Elements with optional end tags are closed implicitly.
func Validate(doc []byte) []Diagnostic {
	var diags []Diagnostic
	var stack []openElement

	z := html.NewTokenizer(bytes.NewReader(doc))
	line := 1
	for {
		tt := z.Next()
		tokenLine := line
		line += bytes.Count(z.Raw(), []byte("\n"))

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				diags = append(diags, Diagnostic{Line: tokenLine, Message: err.Error()})
			}
			for i := len(stack) - 1; i >= 0; i-- {
				if optionalEnd[stack[i].name] {
					continue
				}
				diags = append(diags, Diagnostic{
					Line:    stack[i].line,
					Message: fmt.Sprintf("missing </%s>", stack[i].name),
				})
			}
			return diags

		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if !voidElements[tag] {
				stack = append(stack, openElement{name: tag, line: tokenLine})
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if voidElements[tag] {
				continue
			}
			idx := -1
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].name == tag {
					idx = i
					break
				}
			}
			if idx < 0 {
				diags = append(diags, Diagnostic{
					Line:    tokenLine,
					Message: fmt.Sprintf("unexpected end tag </%s>", tag),
				})
				continue
			}
			for i := len(stack) - 1; i > idx; i-- {
				if optionalEnd[stack[i].name] {
					continue
				}
				diags = append(diags, Diagnostic{
					Line:    stack[i].line,
					Message: fmt.Sprintf("missing </%s> before </%s>", stack[i].name, tag),
				})
			}
			stack = stack[:idx]
		}
	}
}

// Normalize parses doc as HTML and renders it back as a complete document
// with a doctype, html, head and body.
func Normalize(doc []byte) ([]byte, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	hasDoctype := false
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			hasDoctype = true
			break
		}
	}
	if !hasDoctype {
		root.InsertBefore(&html.Node{Type: html.DoctypeNode, Data: "html"}, root.FirstChild)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
