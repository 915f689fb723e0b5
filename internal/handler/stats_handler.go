package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linkdeck/internal/service"
)

// PageViewSeries 返回页面逐天浏览序列，from/to 可选，默认最近 30 天。
func (a *API) PageViewSeries(c *gin.Context) {
	pageID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "页面 ID 非法")
		return
	}

	a.respondSeries(c, func(from, to string) ([]service.StatPoint, error) {
		return a.analytics.PageViewSeries(pageID, from, to)
	})
}

// LinkClickSeries 返回链接逐天点击序列。
func (a *API) LinkClickSeries(c *gin.Context) {
	linkID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "链接 ID 非法")
		return
	}

	a.respondSeries(c, func(from, to string) ([]service.StatPoint, error) {
		return a.analytics.LinkClickSeries(linkID, from, to)
	})
}

// RedirectClickSeries 返回短链逐天点击序列。
func (a *API) RedirectClickSeries(c *gin.Context) {
	redirectID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "短链 ID 非法")
		return
	}

	a.respondSeries(c, func(from, to string) ([]service.StatPoint, error) {
		return a.analytics.RedirectClickSeries(redirectID, from, to)
	})
}

func (a *API) respondSeries(c *gin.Context, load func(from, to string) ([]service.StatPoint, error)) {
	series, err := load(c.Query("from"), c.Query("to"))
	if err != nil {
		// 日期串非法按 400 处理，其余按内部错误处理。
		if _, _, parseErr := service.DateRange(c.Query("from"), c.Query("to"), service.DefaultSeriesDays); parseErr != nil {
			respondError(c, http.StatusBadRequest, "日期格式非法")
			return
		}
		a.log.Errorw("load stats series failed", "error", err)
		respondError(c, http.StatusInternalServerError, "查询统计失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"series": series})
}

// Overview 返回当前登录所有者的统计概览。
func (a *API) Overview(c *gin.Context) {
	owner := a.currentOwner(c)
	if owner == nil {
		respondError(c, http.StatusUnauthorized, "需要登录")
		return
	}

	overview, err := a.analytics.Overview(owner.ID, 5)
	if err != nil {
		a.log.Errorw("load overview failed", "owner_id", owner.ID, "error", err)
		respondError(c, http.StatusInternalServerError, "查询概览失败")
		return
	}

	c.JSON(http.StatusOK, overview)
}
