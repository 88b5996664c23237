package preview

import (
	"strings"
	"testing"
)

func TestRenderPure(t *testing.T) {
	html := `<div class="card"><h1>Team Rocket</h1></div>`
	css := `.card { background: #222; color: #fff; }`

	first := Render(html, css)
	second := Render(html, css)
	if first != second {
		t.Fatal("Render() is not deterministic for identical inputs")
	}
}

func TestRenderStructure(t *testing.T) {
	doc := Render("<p>hello</p>", "p { color: red; }")

	if !strings.HasPrefix(doc, "<!DOCTYPE html>") {
		t.Error("document missing doctype")
	}
	if !strings.Contains(doc, "box-sizing: border-box") {
		t.Error("document missing box-model reset")
	}
	if !strings.Contains(doc, "script-src 'none'") {
		t.Error("document missing script-blocking CSP")
	}

	// Reset must precede the team's CSS
	reset := strings.Index(doc, "box-sizing")
	team := strings.Index(doc, "color: red")
	if reset == -1 || team == -1 || reset > team {
		t.Error("box-model reset must come before team CSS")
	}
}

func TestStripScripts(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		gone  []string
		keeps []string
	}{
		{
			name:  "script block",
			html:  `<div>ok</div><script>alert(1)</script>`,
			gone:  []string{"<script", "alert"},
			keeps: []string{"<div>ok</div>"},
		},
		{
			name:  "uppercase and attributes",
			html:  `<SCRIPT src="evil.js"></SCRIPT><p>text</p>`,
			gone:  []string{"evil.js"},
			keeps: []string{"<p>text</p>"},
		},
		{
			name:  "unterminated script tag",
			html:  `<p>a</p><script src="x.js">`,
			gone:  []string{"<script"},
			keeps: []string{"<p>a</p>"},
		},
		{
			name:  "inline event handler",
			html:  `<button onclick="steal()">hi</button>`,
			gone:  []string{"onclick", "steal"},
			keeps: []string{"<button", ">hi</button>"},
		},
		{
			name:  "javascript url",
			html:  `<a href="javascript:boom()">link</a>`,
			gone:  []string{"javascript:"},
			keeps: []string{"link"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := StripScripts(tt.html)
			for _, s := range tt.gone {
				if strings.Contains(strings.ToLower(out), strings.ToLower(s)) {
					t.Errorf("StripScripts() kept %q in %q", s, out)
				}
			}
			for _, s := range tt.keeps {
				if !strings.Contains(out, s) {
					t.Errorf("StripScripts() dropped %q from %q", s, out)
				}
			}
		})
	}
}

func TestRenderNeutralizesStyleBreakout(t *testing.T) {
	doc := Render("<p>x</p>", "p{}</style><script>alert(1)</script>")
	if strings.Contains(doc, "alert(1)") {
		t.Error("team CSS broke out of the style element")
	}
	if strings.Contains(strings.ToLower(doc), "<script") {
		t.Error("script tag survived in the emitted document")
	}
}

func TestRenderStripsScriptFromCSS(t *testing.T) {
	tests := []struct {
		name string
		css  string
		gone string
	}{
		{"script block in css", `body{}<script>fetch("/steal")</script>`, "fetch"},
		{"orphan script tag in css", `body{}<script src="x.js">`, "x.js"},
		{"breakout then handler", `p{}</style><img onerror="boom()">`, "onerror"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Render("<p>x</p>", tt.css)
			if strings.Contains(strings.ToLower(doc), strings.ToLower(tt.gone)) {
				t.Errorf("Render() kept %q from team CSS in %q", tt.gone, doc)
			}
		})
	}
}
