package api

import (
	"github.com/gin-gonic/gin"

	"github.com/li-xiaohui/classeval/internal/api/handler"
	"github.com/li-xiaohui/classeval/internal/config"
	"github.com/li-xiaohui/classeval/internal/queue"
	"github.com/li-xiaohui/classeval/internal/storage"
)

type Router struct {
	engine *gin.Engine
}

func NewRouter(db *storage.PostgresDB, q *queue.RedisQueue, eval config.EvalConfig) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	predictions := storage.NewPredictionRepo(db)
	evalHandler := handler.NewEvaluationHandler(predictions, q, eval)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/api/v1")
	{
		evaluations := v1.Group("/evaluations")
		{
			evaluations.POST("", evalHandler.Enqueue)
			evaluations.POST("/run", evalHandler.Run)
			evaluations.GET("/:run_id/report", evalHandler.Report)
		}
		v1.GET("/runs", evalHandler.Runs)
	}

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
