package controller

import (
	"context"
	"net/http"
	"time"

	"gradebook_backend/internal/repository"
	"gradebook_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Store  repository.DocumentStore
	Driver string
}

func NewHealthController(store repository.DocumentStore, driver string) *HealthController {
	return &HealthController{Store: store, Driver: driver}
}

// @Summary 健康检查
// @Description 检查服务与文档存储状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.Store.Ping(pingCtx); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, util.ErrStoreUnavailable.Error())
		return
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"store":  "up",
			"driver": c.Driver,
		},
	})
}
