package plist

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// entityReplacer undoes the entity forms some exporters leave behind after
// XML decoding has already run once.
var entityReplacer = strings.NewReplacer(
	"&#38;", "&",
	"&#39;", "'",
	"&quot;", "\"",
	"&lt;", "<",
	"&gt;", ">",
)

// Unescape converts the five residual entity forms to literal characters.
func Unescape(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return entityReplacer.Replace(s)
}

// Parse reads a property-list document and returns its top-level dict.
// Documents without a top-level dict fail with ErrStructural, as does nesting
// deeper than MaxDepth. <real> and <data> elements are skipped.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true

	var (
		root  *Node
		stack []*Node
	)
	top := func() *Node {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read plist: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			name := el.Name.Local
			switch name {
			case "plist":
				continue
			case "dict", "array":
				if len(stack) >= MaxDepth {
					return nil, fmt.Errorf("%w: nesting exceeds %d levels", ErrStructural, MaxDepth)
				}
				node := &Node{Kind: KindDict}
				if name == "array" {
					node.Kind = KindArray
				}
				if parent := top(); parent != nil {
					parent.Children = append(parent.Children, node)
				} else if root == nil && node.Kind == KindDict {
					root = node
				}
				stack = append(stack, node)
			case "key", "string", "integer", "date":
				var text string
				if err := dec.DecodeElement(&text, &el); err != nil {
					return nil, fmt.Errorf("read plist <%s>: %w", name, err)
				}
				addLeaf(top(), name, text)
			case "true", "false":
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("read plist <%s>: %w", name, err)
				}
				if parent := top(); parent != nil {
					if name == "true" {
						parent.Trues++
					} else {
						parent.Falses++
					}
				}
			default:
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("read plist <%s>: %w", name, err)
				}
			}
		case xml.EndElement:
			if name := el.Name.Local; (name == "dict" || name == "array") && len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no top-level dict", ErrStructural)
	}
	return root, nil
}

func addLeaf(parent *Node, element, text string) {
	if parent == nil {
		return
	}
	switch element {
	case "key":
		if parent.Kind == KindDict {
			parent.Keys = append(parent.Keys, text)
		}
	case "string":
		parent.Strings = append(parent.Strings, Unescape(text))
	case "integer":
		// Unparseable integers still occupy their slot so later integers keep
		// their positions.
		value, _ := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		parent.Integers = append(parent.Integers, value)
	case "date":
		parent.Dates = append(parent.Dates, strings.TrimSpace(text))
	}
}
