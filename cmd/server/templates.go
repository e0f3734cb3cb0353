package main

import (
	"fmt"
	"html/template"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/multitemplate"

	"trendforge/internal/utils"
)

// views 页面模板，名称与 handler 中使用的一致
var views = []string{
	"home.html",
	"about.html",
	"my_posts.html",
	"post_detail.html",
	"my_ideas.html",
	"idea_detail.html",
	"legal.html",
	"error.html",
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...any) (map[string]any, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"timeAgo":   timeAgo,
		"date":      func(t time.Time) string { return t.Format("Jan 2, 2006") },
		"markdown":  utils.RenderMarkdown,
		"excerpt":   excerpt,
		"join":      strings.Join,
		"urlquery":  url.QueryEscape,
		"score": func(f *float64) string {
			if f == nil {
				return "-"
			}
			return fmt.Sprintf("%.1f", *f)
		},
	}
}

// excerpt 渲染 Markdown 后取纯文本前 n 个字符
func excerpt(source string, n int) string {
	text := []rune(utils.StripHTML(string(utils.RenderMarkdown(source))))
	if len(text) <= n {
		return string(text)
	}
	return strings.TrimSpace(string(text[:n])) + "…"
}

func timeAgo(t time.Time) string {
	seconds := int(time.Since(t).Seconds())
	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return plural(seconds/60, "minute")
	case seconds < 86400:
		return plural(seconds/3600, "hour")
	case seconds < 2592000:
		return plural(seconds/86400, "day")
	case seconds < 31536000:
		return plural(seconds/2592000, "month")
	}
	return plural(seconds/31536000, "year")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}
	includes, err := filepath.Glob(templatesDir + "/includes/*.html")
	if err != nil {
		panic(err)
	}

	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+len(includes)+1)
		files = append(files, layouts...)
		files = append(files, includes...)
		return append(files, view)
	}

	funcMap := templateFuncs()
	for _, view := range views {
		r.AddFromFilesFuncs(view, funcMap, assemble(filepath.Join(templatesDir, "views", view))...)
	}
	return r
}
