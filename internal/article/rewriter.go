// Package article rewrites fetched article HTML for the legacy reader:
// every image element is extracted into a side-table and replaced in the
// markup by an inert positional marker the client splices against later.
package article

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"kobogate/internal/pocket"
)

// URLPolicy decides the final src recorded for an extracted image.
type URLPolicy func(originalSrc string) string

// PassthroughPolicy keeps image sources untouched.
func PassthroughPolicy(src string) string { return src }

// JPEGConversionPolicy routes non-JPEG sources through the proxy URL
// builder when enabled. Sources already ending in .jpg/.jpeg are never
// rewritten.
func JPEGConversionPolicy(enabled bool, proxyURL func(src string) string) URLPolicy {
	return func(src string) string {
		if !enabled || strings.HasSuffix(src, ".jpg") || strings.HasSuffix(src, ".jpeg") {
			return src
		}
		return proxyURL(src)
	}
}

// Rewrite parses doc, replaces each <img> that carries a src with a
// comment node of the form IMG_{i} (i being the element's zero-based
// position among all img elements, in document order) and records its
// policy-rewritten source. Images without a src are removed outright and
// leave no marker or entry; their position is still consumed.
//
// The parser tolerates malformed markup, so the returned document is
// always well-formed.
func Rewrite(doc string, policy URLPolicy) (map[string]pocket.ImageRef, string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, "", fmt.Errorf("parsing article: %w", err)
	}

	images := make(map[string]pocket.ImageRef)
	for i, img := range collectImages(root) {
		parent := img.Parent
		src, ok := findAttr(img, "src")
		if !ok {
			parent.RemoveChild(img)
			continue
		}

		key := strconv.Itoa(i)
		images[key] = pocket.ImageRef{ImageID: key, ItemID: key, Src: policy(src)}

		marker := &html.Node{Type: html.CommentNode, Data: fmt.Sprintf("IMG_%d", i)}
		parent.InsertBefore(marker, img)
		parent.RemoveChild(img)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, "", fmt.Errorf("rendering article: %w", err)
	}
	return images, buf.String(), nil
}

// collectImages returns every img element in document order.
func collectImages(root *html.Node) []*html.Node {
	var imgs []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			imgs = append(imgs, n)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return imgs
}

func findAttr(n *html.Node, name string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}
