package handler

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/linkdeck/internal/db"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionKeyOwnerID = "owner_id"
	sessionKeyHandle  = "handle"
)

type loginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

// Login 处理所有者登录，成功后在会话中写入身份信息。
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "请求体格式错误") {
		return
	}

	// 查找所有者
	var owner db.Owner
	if err := a.db.Where("handle = ?", strings.TrimSpace(req.Handle)).First(&owner).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "账号或密码错误")
		return
	}

	// 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(owner.Password), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "账号或密码错误")
		return
	}

	// 设置会话
	session := sessions.Default(c)
	session.Set(sessionKeyOwnerID, owner.ID)
	session.Set(sessionKeyHandle, owner.Handle)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"handle": owner.Handle, "role": owner.Role})
}

// Logout 处理所有者登出。
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// AuthRequired 是一个简单的认证中间件
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		ownerID := session.Get(sessionKeyOwnerID)
		if ownerID == nil {
			respondError(c, http.StatusUnauthorized, "需要登录")
			c.Abort()
			return
		}
		c.Next()
	}
}

// currentOwnerID 从会话中解析调用方身份，未登录时返回 nil。
func currentOwnerID(c *gin.Context) *uint {
	session := sessions.Default(c)
	raw := session.Get(sessionKeyOwnerID)
	if raw == nil {
		return nil
	}
	if id, ok := raw.(uint); ok {
		return &id
	}
	return nil
}

// currentOwner 加载会话对应的所有者记录，便于读取角色。
func (a *API) currentOwner(c *gin.Context) *db.Owner {
	id := currentOwnerID(c)
	if id == nil {
		return nil
	}

	var owner db.Owner
	if err := a.db.First(&owner, *id).Error; err != nil {
		return nil
	}
	return &owner
}
