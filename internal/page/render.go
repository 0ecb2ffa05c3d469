package page

import (
	"embed"
	"html/template"
	"io"

	"horizon-ai-go/internal/model"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// summary 是纯文本，交给模板转义，原样显示
type resultView struct {
	Summary  string
	ImageURL string
	AudioURL string
}

type pageView struct {
	Query   string
	Loading bool
	Error   string
	Result  *resultView
	History []model.Briefing
}

// Render 渲染整个页面
func Render(w io.Writer, s model.Snapshot, history []model.Briefing) error {
	view := pageView{
		Query:   s.Query,
		Loading: s.Loading(),
		Error:   s.Error,
		History: history,
	}
	if s.Result != nil {
		view.Result = &resultView{
			Summary:  s.Result.Summary,
			ImageURL: s.Result.ImageURL,
			AudioURL: s.Result.AudioURL,
		}
	}
	return pageTemplate.Execute(w, view)
}
