package markdown

import (
	"strings"
	"testing"
)

func TestRenderEmpty(t *testing.T) {
	if got := Render(""); got != "" {
		t.Errorf("Render(\"\") = %q, want \"\"", got)
	}
}

func TestRenderBasicMarkdown(t *testing.T) {
	html := Render("**Great job** finishing *two* tasks today")
	if !strings.Contains(html, "<strong>Great job</strong>") {
		t.Errorf("Expected <strong>, got: %s", html)
	}
	if !strings.Contains(html, "<em>two</em>") {
		t.Errorf("Expected <em>, got: %s", html)
	}
}

func TestRenderGFMTaskList(t *testing.T) {
	html := Render("- [x] Email professor\n- [ ] Book doctor")
	if !strings.Contains(html, `type="checkbox"`) {
		t.Errorf("Expected checkbox inputs, got: %s", html)
	}
}

func TestRenderHardWraps(t *testing.T) {
	html := Render("line one\nline two")
	if !strings.Contains(html, "<br>") {
		t.Errorf("Expected <br> for hard wrap, got: %s", html)
	}
}

func TestRenderDropsRawHTML(t *testing.T) {
	html := Render("hello <script>alert(1)</script>")
	if strings.Contains(html, "<script>") {
		t.Errorf("Raw HTML should be omitted, got: %s", html)
	}
}

func TestRenderExternalLinks(t *testing.T) {
	html := Render("[breathing exercise](https://example.com/breathe)")
	if !strings.Contains(html, `target="_blank" rel="noopener noreferrer"`) {
		t.Errorf("Expected target=_blank on external link, got: %s", html)
	}
}
