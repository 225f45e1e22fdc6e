package widget

import "strings"

// The renderer builds an explicit element tree and serializes it once, so every
// piece of user-supplied text passes through exactly one escaping path.

var htmlTextEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

var voidElementTags = map[string]struct{}{
	"img": {},
	"br":  {},
	"hr":  {},
}

// Attribute is a single name/value attribute pair on an element.
type Attribute struct {
	Name  string
	Value string
}

// Node is either an element (Tag set) or a text node (Tag empty, Text set).
// Text and attribute values are escaped during serialization, never before.
type Node struct {
	Tag        string
	Attributes []Attribute
	Text       string
	Children   []*Node
}

// NewElement creates an element node with the provided attributes.
func NewElement(tag string, attributes ...Attribute) *Node {
	return &Node{Tag: tag, Attributes: attributes}
}

// NewText creates a text node; its content is escaped at serialization time.
func NewText(text string) *Node {
	return &Node{Text: text}
}

// Attr builds an attribute pair.
func Attr(name string, value string) Attribute {
	return Attribute{Name: name, Value: value}
}

// Append attaches child nodes and returns the receiver for chaining.
func (node *Node) Append(children ...*Node) *Node {
	node.Children = append(node.Children, children...)
	return node
}

// AppendText attaches an escaped text child and returns the receiver.
func (node *Node) AppendText(text string) *Node {
	return node.Append(NewText(text))
}

// Render serializes the node tree to an HTML fragment in a single pass.
func (node *Node) Render() string {
	var builder strings.Builder
	node.writeTo(&builder)
	return builder.String()
}

func (node *Node) writeTo(builder *strings.Builder) {
	if node.Tag == "" {
		builder.WriteString(EscapeText(node.Text))
		return
	}

	builder.WriteString("<")
	builder.WriteString(node.Tag)
	for _, attribute := range node.Attributes {
		builder.WriteString(" ")
		builder.WriteString(attribute.Name)
		builder.WriteString(`="`)
		builder.WriteString(EscapeText(attribute.Value))
		builder.WriteString(`"`)
	}

	if _, isVoid := voidElementTags[node.Tag]; isVoid {
		builder.WriteString("/>")
		return
	}

	builder.WriteString(">")
	for _, child := range node.Children {
		child.writeTo(builder)
	}
	builder.WriteString("</")
	builder.WriteString(node.Tag)
	builder.WriteString(">")
}

// EscapeText maps the five HTML-significant characters to their entities.
func EscapeText(value string) string {
	return htmlTextEscaper.Replace(value)
}
