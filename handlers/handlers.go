package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"superai/ai"
	"superai/db"
	"superai/session"
)

// @title           SuperAI 智能分析助手 API
// @version         1.0
// @description     Chat with an AI assistant about uploaded CSV/XLSX/TXT data, with chart generation and document Q&A

// @host      localhost:9090
// @BasePath  /

// @schemes   http https

type Handlers struct {
	db          *db.DB
	store       *session.Store
	router      *ai.Router
	productsDir string
	log         *zap.SugaredLogger
}

func New(database *db.DB, store *session.Store, router *ai.Router, productsDir string, log *zap.SugaredLogger) *Handlers {
	return &Handlers{
		db:          database,
		store:       store,
		router:      router,
		productsDir: productsDir,
		log:         log,
	}
}

// userID resolves the caller identity. Use "admin" as default since we don't
// have a user system yet.
func userID(c *gin.Context) string {
	id := c.GetHeader("X-User-ID")
	if id == "" {
		id = "admin"
	}
	return id
}
