package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"coding-showdown/internal/config"
	"coding-showdown/internal/db"
	"coding-showdown/internal/game"
	"coding-showdown/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Server struct {
	engine   *game.Engine
	store    game.Store
	db       *gorm.DB
	cfg      config.Config
	timersMu sync.Mutex
	timers   map[string]*time.Timer
}

// New wires the engine to a gorm store when conn is set and to the in-memory
// store otherwise.
func New(conn *gorm.DB, cfg config.Config) *Server {
	var (
		st   game.Store
		opts []game.Option
	)
	if conn != nil {
		gs := store.NewGorm(conn)
		st = gs
		opts = append(opts, game.WithEventRecorder(gs))
	} else {
		st = store.NewMemory()
	}
	opts = append(opts,
		game.WithWrongDelay(time.Duration(cfg.WrongDelaySeconds)*time.Second),
		game.WithStealWindow(time.Duration(cfg.StealWindowSeconds)*time.Second),
	)
	bank := game.DefaultBank()
	if conn != nil && cfg.QuestionLibrary {
		merged, added, err := db.QuestionBank(conn, bank)
		if err != nil {
			log.Printf("question library load failed error=%v", err)
		} else {
			bank = merged
			log.Printf("question library merged questions=%d total=%d", added, bank.Len())
		}
	}
	return &Server{
		engine: game.NewEngine(st, bank, opts...),
		store:  st,
		db:     conn,
		cfg:    cfg,
		timers: make(map[string]*time.Timer),
	}
}

func (s *Server) Handler() http.Handler {
	registerValidators()
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", s.handleHome)
	router.GET("/healthz", s.handleHealth)
	router.GET("/ws/rooms/:code", s.handleWebsocket)

	api := router.Group("/api/rooms")
	api.POST("", s.handleCreateRoom)
	api.GET("/:code", s.handleGetRoom)
	api.GET("/:code/archives", s.handleArchives)
	api.GET("/:code/scoreboard", s.handleScoreboard)
	api.POST("/:code/join", s.handleJoin)

	player := api.Group("/:code/players/:playerID")
	player.POST("/buzz", s.handleBuzz)
	player.POST("/round2", s.handleSubmitRound2)
	player.POST("/pack", s.handleSetPack)
	player.POST("/quiz-answer", s.handleQuizAnswer)

	teacher := api.Group("/:code/teacher")
	teacher.POST("/round", s.handleSetRound)
	teacher.POST("/question", s.handleSetQuestion)
	teacher.POST("/draw", s.handleDrawQuestion)
	teacher.POST("/clear-question", s.handleClearQuestion)
	teacher.POST("/timer", s.handleStartTimer)
	teacher.POST("/stop-timer", s.handleStopTimer)
	teacher.POST("/round2-timer", s.handleRound2Timer)
	teacher.POST("/round3-timer", s.handleRound3Timer)
	teacher.POST("/score", s.handleUpdateScore)
	teacher.POST("/clear-buzzers", s.handleClearBuzzers)
	teacher.POST("/round1-turn", s.handleRound1Turn)
	teacher.POST("/round3-turn", s.handleRound3Turn)
	teacher.POST("/reveal", s.handleReveal)
	teacher.POST("/grade", s.handleGrade)
	teacher.POST("/pack-slot", s.handlePackSlot)
	teacher.POST("/auto-grade", s.handleAutoGrade)
	teacher.POST("/steal", s.handleActivateSteal)
	teacher.POST("/resolve-steal", s.handleResolveSteal)
	teacher.POST("/show-answer", s.handleToggleAnswer)
	teacher.POST("/viewing", s.handleViewing)
	teacher.POST("/round3-mode", s.handleRound3Mode)
	teacher.POST("/selection-mode", s.handleSelectionMode)
	teacher.POST("/kick", s.handleKick)
	teacher.POST("/end", s.handleEndGame)
	teacher.POST("/reset", s.handleReset)
	return router
}

// Close stops pending phase timers.
func (s *Server) Close() {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	for roomID, timer := range s.timers {
		timer.Stop()
		delete(s.timers, roomID)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
