package handler

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/linkdeck/internal/db"
	"github.com/linkdeck/internal/service"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

const (
	visitorCookieName   = "ld_visitor_id"
	visitorCookieMaxAge = 365 * 24 * 60 * 60
)

// ShowPage 解析并返回公开页面：/:handle 命中默认页，/:handle/:identifier
// 按 default/序号/slug 策略查找。成功且非预览时记录一次浏览。
func (a *API) ShowPage(c *gin.Context) {
	input := service.ResolveInput{
		OwnerHandle: c.Param("handle"),
		Identifier:  c.Param("identifier"),
		CallerID:    currentOwnerID(c),
		Preview:     isPreviewRequest(c),
	}

	resolution, err := a.resolver.Resolve(input)
	if err != nil {
		a.respondResolveError(c, err)
		return
	}

	if !input.Preview {
		visitorID := a.ensureVisitorID(c)
		if err := a.analytics.RecordPageView(resolution.Page.ID, c.ClientIP(), visitorID, time.Now()); err != nil {
			a.log.Errorw("record page view failed", "page_id", resolution.Page.ID, "error", err)
			respondError(c, http.StatusInternalServerError, "记录浏览失败")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"owner": gin.H{
			"handle": resolution.Owner.Handle,
		},
		"page": gin.H{
			"id":         resolution.Page.ID,
			"title":      resolution.Page.Title,
			"slug":       resolution.Page.Slug,
			"index":      resolution.Page.PageIndex,
			"isDefault":  resolution.Page.IsDefault,
			"visibility": resolution.Page.Visibility,
			"views":      resolution.Page.Views,
			"bioHtml":    renderBioHTML(resolution.Page.Bio),
		},
		"links": a.visibleLinks(resolution.Page.ID),
	})
}

func (a *API) respondResolveError(c *gin.Context, err error) {
	switch {
	case err == service.ErrOwnerNotFound:
		respondOutcome(c, http.StatusNotFound, "not_found", "user_not_found")
	case err == service.ErrPageNotFound:
		respondOutcome(c, http.StatusNotFound, "not_found", "page_not_found")
	case err == service.ErrPageInactive:
		respondOutcome(c, http.StatusForbidden, "forbidden", "page_inactive")
	case err == service.ErrPageForbidden:
		respondOutcome(c, http.StatusForbidden, "forbidden", "forbidden")
	default:
		a.log.Errorw("resolve page failed", "error", err)
		respondError(c, http.StatusInternalServerError, "解析页面失败")
	}
}

func isPreviewRequest(c *gin.Context) bool {
	raw := strings.ToLower(strings.TrimSpace(c.Query("preview")))
	return raw == "1" || raw == "true"
}

// ensureVisitorID 读取或生成匿名访客 ID，用于事件行的访客标识。
func (a *API) ensureVisitorID(c *gin.Context) string {
	if existing, err := c.Cookie(visitorCookieName); err == nil && existing != "" {
		return existing
	}

	visitorID := uuid.NewString()
	c.SetCookie(visitorCookieName, visitorID, visitorCookieMaxAge, "/", "", false, true)
	return visitorID
}

func renderBioHTML(markdown string) string {
	trimmed := strings.TrimSpace(markdown)
	if trimmed == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(trimmed), &buf); err != nil {
		return ""
	}
	return sanitizer.Sanitize(buf.String())
}

// visibleLinks 返回页面下可展示的链接集合。
func (a *API) visibleLinks(pageID uint) []gin.H {
	var links []db.Link
	if err := a.db.Where("page_id = ?", pageID).Order("id ASC").Find(&links).Error; err != nil {
		return nil
	}

	items := make([]gin.H, 0, len(links))
	for _, link := range links {
		items = append(items, gin.H{
			"id":     link.ID,
			"title":  link.Title,
			"url":    link.TargetURL,
			"clicks": link.Clicks,
		})
	}
	return items
}
