package dom

import (
	"strings"

	"datepicker/internal/host"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is an element found in markup: its click target plus its text.
type Node struct {
	host.Target
	Text string
}

// queryMarkup parses markup as the children of a <div> and returns up to
// limit matching elements in document order (limit < 0 means all).
func queryMarkup(markup string, sel selector, limit int) ([]Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	roots, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, err
	}
	var out []Node
	var visit func(n *html.Node) bool
	visit = func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			attrs := make(map[string]string, len(n.Attr))
			for _, a := range n.Attr {
				attrs[strings.ToLower(a.Key)] = a.Val
			}
			if sel.matches(n.Data, attrs) {
				out = append(out, Node{Target: host.NewTarget(n.Data, attrs), Text: strings.TrimSpace(textOf(n))})
				if limit >= 0 && len(out) >= limit {
					return false
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !visit(c) {
				return false
			}
		}
		return true
	}
	for _, r := range roots {
		if !visit(r) {
			break
		}
	}
	return out, nil
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textOf(c))
	}
	return b.String()
}
