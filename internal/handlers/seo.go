package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type SEOHandler struct {
	siteURL string
}

func NewSEOHandler(siteURL string) *SEOHandler {
	return &SEOHandler{siteURL: strings.TrimSuffix(siteURL, "/")}
}

var (
	robotsAllow = []string{
		"/",
		"/about",
		"/terms-and-conditions",
		"/privacy-policy",
		"/my-ideas",
		"/my-posts",
	}
	robotsDisallow = []string{
		"/api/",
		"/auth/",
		"/static/images/",
		"/my-ideas/idea",
		"/my-posts/post",
	}
)

type sitemapEntry struct {
	path       string
	changefreq string
	priority   string
}

var sitemapEntries = []sitemapEntry{
	{"/", "monthly", "1.0"},
	{"/about", "monthly", "0.8"},
	{"/terms-and-conditions", "monthly", "0.8"},
	{"/privacy-policy", "monthly", "0.8"},
	{"/my-ideas", "monthly", "0.8"},
	{"/my-posts", "monthly", "0.8"},
}

// RobotsTxt 返回 robots.txt
func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	for _, p := range robotsAllow {
		fmt.Fprintf(&b, "Allow: %s\n", p)
	}
	for _, p := range robotsDisallow {
		fmt.Fprintf(&b, "Disallow: %s\n", p)
	}
	fmt.Fprintf(&b, "\nSitemap: %s/sitemap.xml\n", h.siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, b.String())
}

// SitemapXML 生成 sitemap.xml
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	now := time.Now().Format("2006-01-02")

	xml := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`
	for _, e := range sitemapEntries {
		loc := h.siteURL + e.path
		if e.path == "/" {
			loc = h.siteURL
		}
		xml += fmt.Sprintf(`  <url>
    <loc>%s</loc>
    <lastmod>%s</lastmod>
    <changefreq>%s</changefreq>
    <priority>%s</priority>
  </url>
`, loc, now, e.changefreq, e.priority)
	}
	xml += `</urlset>`

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, xml)
}
