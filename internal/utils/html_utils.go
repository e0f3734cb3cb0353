package utils

import (
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TOCEntry 目录条目
type TOCEntry struct {
	ID    string
	Title string
	Level int
}

// Document 渲染后的 Markdown 文档
type Document struct {
	Title string
	HTML  template.HTML
	TOC   []TOCEntry
}

// EnhanceHTMLContent 为图片增加懒加载属性，外部链接新窗口打开，并提取目录
func EnhanceHTMLContent(htmlStr string) Document {
	if htmlStr == "" {
		return Document{}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return Document{HTML: template.HTML(htmlStr)}
	}

	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		s.SetAttr("referrerpolicy", "no-referrer")
		s.SetAttr("loading", "lazy")
	})

	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			s.SetAttr("target", "_blank")
			s.SetAttr("rel", "noopener noreferrer")
		}
	})

	out := Document{
		Title: strings.TrimSpace(doc.Find("h1").First().Text()),
		TOC:   tableOfContents(doc),
	}

	// goquery 会补全 html/body 标签，只取 body 内容
	html, _ := doc.Find("body").Html()
	if html == "" {
		html, _ = doc.Html()
	}
	out.HTML = template.HTML(html)
	return out
}

func tableOfContents(doc *goquery.Document) []TOCEntry {
	var toc []TOCEntry
	doc.Find("h2[id], h3[id]").Each(func(i int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		level := 2
		if goquery.NodeName(s) == "h3" {
			level = 3
		}
		toc = append(toc, TOCEntry{
			ID:    id,
			Title: strings.TrimSpace(s.Text()),
			Level: level,
		})
	})
	return toc
}

// StripHTML 去除 HTML 标签，返回纯文本
func StripHTML(htmlStr string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return htmlStr
	}
	return strings.TrimSpace(doc.Text())
}
