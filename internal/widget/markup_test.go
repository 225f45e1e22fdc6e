package widget_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/testimonial_svc/internal/widget"
)

func TestRenderEscapesTextContent(t *testing.T) {
	node := widget.NewElement("p").AppendText(`<script>alert("x&y")</script> 'quoted'`)

	rendered := node.Render()
	require.Equal(t, "<p>&lt;script&gt;alert(&quot;x&amp;y&quot;)&lt;/script&gt; &#39;quoted&#39;</p>", rendered)
}

func TestRenderEscapesAttributeValues(t *testing.T) {
	node := widget.NewElement("div", widget.Attr("data-name", `She said "hi" & left`))

	rendered := node.Render()
	require.Equal(t, `<div data-name="She said &quot;hi&quot; &amp; left"></div>`, rendered)
}

func TestRenderNestedChildren(t *testing.T) {
	node := widget.NewElement("div", widget.Attr("class", "outer")).
		Append(widget.NewElement("span", widget.Attr("class", "inner")).AppendText("hello"))

	require.Equal(t, `<div class="outer"><span class="inner">hello</span></div>`, node.Render())
}

func TestRenderVoidElementsSelfClose(t *testing.T) {
	node := widget.NewElement("img", widget.Attr("src", "https://example.com/a.png"), widget.Attr("alt", "A"))

	require.Equal(t, `<img src="https://example.com/a.png" alt="A"/>`, node.Render())
}

func TestEscapeText(t *testing.T) {
	require.Equal(t, "&amp;&lt;&gt;&quot;&#39;", widget.EscapeText(`&<>"'`))
	require.Equal(t, "plain text", widget.EscapeText("plain text"))
}
