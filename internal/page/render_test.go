package page

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"horizon-ai-go/internal/model"
)

func renderDoc(t *testing.T, s model.Snapshot, history []model.Briefing) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	if err := Render(&buf, s, history); err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestRender_Idle(t *testing.T) {
	doc := renderDoc(t, model.Snapshot{State: model.StateIdle}, nil)

	if got := strings.TrimSpace(doc.Find("h1").Text()); got != "Horizon AI" {
		t.Errorf("title = %q", got)
	}
	if _, disabled := doc.Find("textarea[name=query]").Attr("disabled"); disabled {
		t.Error("textarea should be enabled when idle")
	}
	button := doc.Find("button[type=submit]")
	if _, disabled := button.Attr("disabled"); disabled {
		t.Error("button should be enabled when idle")
	}
	if got := strings.TrimSpace(button.Text()); got != "Get Market Intelligence" {
		t.Errorf("button text = %q", got)
	}
	for _, sel := range []string{"#error", "#result", "#history"} {
		if doc.Find(sel).Length() != 0 {
			t.Errorf("%s should not render when idle", sel)
		}
	}
}

func TestRender_LoadingDisablesControls(t *testing.T) {
	doc := renderDoc(t, model.Snapshot{Query: "NVDA", State: model.StateLoading}, nil)

	if _, disabled := doc.Find("textarea[name=query]").Attr("disabled"); !disabled {
		t.Error("textarea should be disabled while loading")
	}
	button := doc.Find("button[type=submit]")
	if _, disabled := button.Attr("disabled"); !disabled {
		t.Error("button should be disabled while loading")
	}
	if got := strings.TrimSpace(button.Text()); got != "Analyzing..." {
		t.Errorf("button text = %q", got)
	}
	if got := doc.Find("textarea[name=query]").Text(); got != "NVDA" {
		t.Errorf("textarea content = %q", got)
	}
}

func TestRender_ResultRegions(t *testing.T) {
	full := &model.Result{
		Summary:  "Markets rallied.\nAI sentiment strong.",
		ImageURL: "https://cdn.example/chart.png",
		AudioURL: "https://cdn.example/brief.mp3",
	}

	testCases := []struct {
		name   string
		result *model.Result
		want   map[string]bool
	}{
		{"all fields", full, map[string]bool{"#audio-briefing": true, "#visual-insight": true, "#summary": true}},
		{"summary only", &model.Result{Summary: full.Summary}, map[string]bool{"#audio-briefing": false, "#visual-insight": false, "#summary": true}},
		{"image only", &model.Result{ImageURL: full.ImageURL}, map[string]bool{"#audio-briefing": false, "#visual-insight": true, "#summary": false}},
		{"audio only", &model.Result{AudioURL: full.AudioURL}, map[string]bool{"#audio-briefing": true, "#visual-insight": false, "#summary": false}},
		{"empty", &model.Result{}, map[string]bool{"#audio-briefing": false, "#visual-insight": false, "#summary": false}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := renderDoc(t, model.Snapshot{State: model.StateIdle, Result: tc.result}, nil)

			if doc.Find("#result").Length() != 1 {
				t.Fatal("result panel missing")
			}
			if doc.Find("#error").Length() != 0 {
				t.Error("error panel should not render with a result")
			}
			for sel, present := range tc.want {
				if got := doc.Find(sel).Length() == 1; got != present {
					t.Errorf("%s present = %v, want %v", sel, got, present)
				}
			}
		})
	}

	doc := renderDoc(t, model.Snapshot{Result: full}, nil)
	if src, _ := doc.Find("#audio-briefing source").Attr("src"); src != full.AudioURL {
		t.Errorf("audio src = %q", src)
	}
	if typ, _ := doc.Find("#audio-briefing source").Attr("type"); typ != "audio/mpeg" {
		t.Errorf("audio type = %q", typ)
	}
	if src, _ := doc.Find("#visual-insight img").Attr("src"); src != full.ImageURL {
		t.Errorf("img src = %q", src)
	}
	if got := doc.Find("#summary p").Text(); got != full.Summary {
		t.Errorf("summary = %q", got)
	}
}

func TestRender_ErrorMessageVerbatim(t *testing.T) {
	doc := renderDoc(t, model.Snapshot{Error: "bad query"}, nil)

	if doc.Find("#result").Length() != 0 {
		t.Error("result panel should not render with an error")
	}
	if got := doc.Find("#error .message").Text(); got != "bad query" {
		t.Errorf("error message = %q, want %q", got, "bad query")
	}
}

func TestRender_SummaryIsLiteralText(t *testing.T) {
	testCases := []string{
		"Ratio a<b and c>d",
		"Compare <NVDA> with <AMD> today",
		"<tag>",
		`Buy <script>alert(1)</script><b>NVDA</b> & hold`,
	}

	for _, summary := range testCases {
		t.Run(summary, func(t *testing.T) {
			doc := renderDoc(t, model.Snapshot{Result: &model.Result{Summary: summary}}, nil)

			p := doc.Find("#summary p")
			if p.Length() != 1 {
				t.Fatal("summary region missing")
			}
			if got := p.Text(); got != summary {
				t.Errorf("summary = %q, want %q", got, summary)
			}
			if p.Children().Length() != 0 {
				t.Error("summary text must not become elements")
			}
			if doc.Find("script").Length() != 0 {
				t.Error("script element injected")
			}
		})
	}
}

func TestRender_UnsafeURLNeutralised(t *testing.T) {
	doc := renderDoc(t, model.Snapshot{Result: &model.Result{ImageURL: "javascript:alert(1)"}}, nil)

	src, _ := doc.Find("#visual-insight img").Attr("src")
	if strings.HasPrefix(src, "javascript:") {
		t.Errorf("unsafe src rendered: %q", src)
	}
}

func TestRender_History(t *testing.T) {
	history := []model.Briefing{
		{ID: "1", Query: "AI chips", Result: &model.Result{Summary: "x"}, CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)},
		{ID: "2", Query: "oil", Error: "bad query", CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
	}
	doc := renderDoc(t, model.Snapshot{}, history)

	items := doc.Find("#history li")
	if items.Length() != 2 {
		t.Fatalf("history items = %d", items.Length())
	}
	if !items.Eq(0).HasClass("ok") || !items.Eq(1).HasClass("failed") {
		t.Error("history item classes wrong")
	}
	if !strings.Contains(items.Eq(0).Text(), "AI chips") {
		t.Errorf("first item = %q", items.Eq(0).Text())
	}
}
