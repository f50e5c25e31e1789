package writers

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// prettyIndent is the per-level indentation of Prettify.
const prettyIndent = " "

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// preformatted elements are re-rendered verbatim.
var preformatted = map[string]bool{
	"pre": true, "textarea": true,
}

// Prettify parses an HTML document and re-renders it with one node per
// line, children indented one level below their parent. Whitespace-only
// text is dropped and other text is trimmed, so the output is stable under
// repeated application.
func Prettify(src []byte) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var b bytes.Buffer
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := prettyNode(&b, c, 0); err != nil {
			return nil, err
		}
	}
	return b.Bytes(), nil
}

func prettyNode(b *bytes.Buffer, n *html.Node, depth int) error {
	indent := strings.Repeat(prettyIndent, depth)

	switch n.Type {
	case html.DoctypeNode:
		fmt.Fprintf(b, "<!DOCTYPE %s>\n", n.Data)

	case html.CommentNode:
		fmt.Fprintf(b, "%s<!--%s-->\n", indent, n.Data)

	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return nil
		}
		if p := n.Parent; p != nil && p.Type == html.ElementNode && (p.Data == "script" || p.Data == "style") {
			fmt.Fprintf(b, "%s%s\n", indent, text)
			return nil
		}
		fmt.Fprintf(b, "%s%s\n", indent, html.EscapeString(text))

	case html.ElementNode:
		if preformatted[n.Data] {
			b.WriteString(indent)
			if err := html.Render(b, n); err != nil {
				return err
			}
			b.WriteByte('\n')
			return nil
		}

		b.WriteString(indent)
		b.WriteByte('<')
		b.WriteString(n.Data)
		for _, a := range n.Attr {
			b.WriteByte(' ')
			if a.Namespace != "" {
				b.WriteString(a.Namespace)
				b.WriteByte(':')
			}
			b.WriteString(a.Key)
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(a.Val))
			b.WriteByte('"')
		}
		b.WriteString(">\n")

		if voidElements[n.Data] {
			return nil
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := prettyNode(b, c, depth+1); err != nil {
				return err
			}
		}
		fmt.Fprintf(b, "%s</%s>\n", indent, n.Data)
	}
	return nil
}
