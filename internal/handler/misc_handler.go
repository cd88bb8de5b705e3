package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// Robots 输出 robots.txt，后台路径禁止抓取
func (a *API) Robots(c *gin.Context) {
	settings, _ := a.settings.GetSettings()

	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Disallow: /admin/\n")
	if settings.SiteURL != "" {
		fmt.Fprintf(&b, "Sitemap: %s/sitemap.xml\n", settings.SiteURL)
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(b.String()))
}

// QRCode 将给定 URL 编码为 SVG 二维码，用于文章分享
func (a *API) QRCode(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("url"))
	if raw == "" {
		respondError(c, http.StatusBadRequest, "缺少 url 参数")
		return
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		respondError(c, http.StatusBadRequest, "无效的 url 参数")
		return
	}

	code, err := qrcode.New(raw, qrcode.Medium)
	if err != nil {
		respondServerError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/svg+xml", []byte(qrcodeSVG(code.Bitmap())))
}

// qrcodeSVG 将二维码位图序列化为每个黑色模块一个矩形的 SVG。
func qrcodeSVG(bitmap [][]bool) string {
	size := len(bitmap)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" shape-rendering="crispEdges">`, size, size)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#ffffff"/>`, size, size)
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				fmt.Fprintf(&b, `<rect x="%d" y="%d" width="1" height="1" fill="#000000"/>`, x, y)
			}
		}
	}
	b.WriteString("</svg>")
	return b.String()
}
