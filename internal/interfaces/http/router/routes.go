// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, handlers Handlers) {
	// 演示文稿管理
	decks := v1.Group("/decks")
	{
		if handlers.Job != nil {
			decks.POST("", handlers.Job.SubmitJob) // 异步生成
		}
		if handlers.Deck != nil {
			decks.POST("/generate", handlers.Deck.GenerateDeck) // 同步生成
			decks.GET("", handlers.Deck.ListDecks)
			decks.GET("/:id", handlers.Deck.GetDeck)
			decks.DELETE("/:id", handlers.Deck.DeleteDeck)
		}
	}

	// 任务管理
	if handlers.Job != nil {
		jobs := v1.Group("/jobs")
		{
			jobs.GET("/:id", handlers.Job.GetJob)
		}
	}
}
