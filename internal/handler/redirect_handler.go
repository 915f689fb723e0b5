package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linkdeck/internal/service"
)

// RedirectBySlug 按短链 slug 跳转：未知 slug 返回 404，过期返回 410。
// 计数递增先于跳转响应完成，聚合失败不阻塞跳转。
func (a *API) RedirectBySlug(c *gin.Context) {
	now := time.Now()

	redirect, err := a.redirects.GetBySlug(c.Param("slug"), now)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRedirectNotFound):
			respondOutcome(c, http.StatusNotFound, "not_found", "redirect_not_found")
		case errors.Is(err, service.ErrRedirectExpired):
			respondOutcome(c, http.StatusGone, "expired", "redirect_expired")
		default:
			a.log.Errorw("load redirect failed", "slug", c.Param("slug"), "error", err)
			respondError(c, http.StatusInternalServerError, "查询短链失败")
		}
		return
	}

	if err := a.analytics.RecordRedirectClick(redirect.ID, now); err != nil {
		a.log.Errorw("record redirect click failed", "redirect_id", redirect.ID, "error", err)
		respondError(c, http.StatusInternalServerError, "记录点击失败")
		return
	}

	c.Redirect(http.StatusFound, redirect.TargetURL)
}

// RedirectByLink 按链接 ID 跳转，所属页面必须启用且公开，否则一律 404。
func (a *API) RedirectByLink(c *gin.Context) {
	linkID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "链接 ID 非法")
		return
	}

	link, err := a.links.GetForRedirect(linkID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLinkNotFound), errors.Is(err, service.ErrLinkUnavailable):
			respondOutcome(c, http.StatusNotFound, "not_found", "link_not_found")
		default:
			a.log.Errorw("load link failed", "link_id", linkID, "error", err)
			respondError(c, http.StatusInternalServerError, "查询链接失败")
		}
		return
	}

	if err := a.analytics.RecordLinkClick(link.ID, time.Now()); err != nil {
		a.log.Errorw("record link click failed", "link_id", link.ID, "error", err)
		respondError(c, http.StatusInternalServerError, "记录点击失败")
		return
	}

	c.Redirect(http.StatusFound, link.TargetURL)
}

// RecordLinkClick 只记录点击不跳转，供前端脚本调用。
func (a *API) RecordLinkClick(c *gin.Context) {
	linkID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "链接 ID 非法")
		return
	}

	if err := a.analytics.RecordLinkClick(linkID, time.Now()); err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			respondOutcome(c, http.StatusNotFound, "not_found", "link_not_found")
			return
		}
		a.log.Errorw("record link click failed", "link_id", linkID, "error", err)
		respondError(c, http.StatusInternalServerError, "记录点击失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
