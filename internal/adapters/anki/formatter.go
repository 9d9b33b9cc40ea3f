package anki

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const clozePlaceholder = "[...]"

// FormatCardContent normalises the HTML of an Anki card for display: style
// elements are dropped, active cloze deletions become a highlighted span and
// inactive ones are flattened to their text.
func FormatCardContent(content string) string {
	fragmentCtx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(content), fragmentCtx)
	if err != nil {
		return content
	}

	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	rewrite(container)

	var b strings.Builder
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return content
		}
	}
	return b.String()
}

// FormatCard returns the card with both sides formatted
func FormatCard(info CardInfo) Card {
	return Card{
		CardID:   info.CardID,
		Question: FormatCardContent(info.Question),
		Answer:   FormatCardContent(info.Answer),
	}
}

func rewrite(parent *html.Node) {
	for n := parent.FirstChild; n != nil; {
		next := n.NextSibling

		if n.Type == html.ElementNode {
			switch {
			case n.DataAtom == atom.Style:
				parent.RemoveChild(n)
			case hasClass(n, "cloze"):
				parent.InsertBefore(clozeHighlight(n), n)
				parent.RemoveChild(n)
			case hasClass(n, "cloze-inactive"):
				parent.InsertBefore(&html.Node{Type: html.TextNode, Data: textContent(n)}, n)
				parent.RemoveChild(n)
			default:
				rewrite(n)
			}
		}

		n = next
	}
}

func clozeHighlight(n *html.Node) *html.Node {
	text := clozePlaceholder
	if v, ok := attr(n, "data-cloze"); ok {
		text = v
	}

	span := &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
		Attr:     []html.Attribute{{Key: "class", Val: "cloze-highlight"}},
	}
	span.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return span
}

func hasClass(n *html.Node, class string) bool {
	v, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
