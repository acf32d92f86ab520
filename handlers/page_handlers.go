package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// PageHandlers renders the site's static pages. Page names are resolved
// against the known-template set; anything else gets the not-found page.
type PageHandlers struct {
	BaseURL string
	pages   map[string]bool
	order   []string
}

// NewPageHandlers builds the renderer for the given page names. "index" is
// served at the site root.
func NewPageHandlers(baseURL string, pages []string) *PageHandlers {
	set := make(map[string]bool, len(pages))
	for _, p := range pages {
		set[p] = true
	}
	return &PageHandlers{
		BaseURL: strings.TrimRight(baseURL, "/"),
		pages:   set,
		order:   pages,
	}
}

func (h *PageHandlers) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

// Page resolves /<page_name>. A trailing ".html" is tolerated since old
// links used full file names.
func (h *PageHandlers) Page(c *gin.Context) {
	name := strings.TrimSuffix(c.Param("page"), ".html")
	if !h.pages[name] {
		h.NotFound(c)
		return
	}
	c.HTML(http.StatusOK, name+".html", gin.H{})
}

// KnownPath reports whether a request path resolves to a renderable page.
// The visitor tracker uses this to keep 404s out of the page-view log.
func (h *PageHandlers) KnownPath(path string) bool {
	if path == "/" {
		return true
	}
	name := strings.TrimSuffix(strings.TrimPrefix(path, "/"), ".html")
	return h.pages[name]
}

func (h *PageHandlers) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", gin.H{})
}

func (h *PageHandlers) RobotsTxt(c *gin.Context) {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", h.BaseURL)
	c.String(http.StatusOK, body)
}

func (h *PageHandlers) SitemapXML(c *gin.Context) {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, page := range h.order {
		loc := h.BaseURL + "/" + page
		if page == "index" {
			loc = h.BaseURL + "/"
		}
		fmt.Fprintf(&b, "  <url><loc>%s</loc></url>\n", loc)
	}
	b.WriteString("</urlset>\n")

	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(b.String()))
}
