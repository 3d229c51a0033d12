// Package api is the small HTTP proxy that lets a browser front end create
// demo payments without holding the Stripe secret key.
package api

import (
	"context"
	errs "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/DaanHessen/stripe-guide/internal/content"
	"github.com/DaanHessen/stripe-guide/internal/engine"
	"github.com/DaanHessen/stripe-guide/internal/payments"
)

// Payments is what the handlers need from payments.Service.
type Payments interface {
	Enabled() bool
	Create(ctx context.Context, mode payments.Mode, origin string) (payments.Result, error)
	Recent(ctx context.Context, limit int) ([]payments.Record, error)
}

type Options struct {
	Origin string
	// AllowOrigins defaults to Origin.
	AllowOrigins []string
}

// Server is the demo payment proxy.
type Server struct {
	pay    Payments
	idx    *engine.Index
	opts   Options
	log    zerolog.Logger
	router *gin.Engine
}

func NewServer(pay Payments, idx *engine.Index, opts Options, log zerolog.Logger) *Server {
	if opts.Origin == "" {
		opts.Origin = "http://localhost:5173"
	}
	if len(opts.AllowOrigins) == 0 {
		opts.AllowOrigins = []string{opts.Origin}
	}
	router := gin.New()
	s := &Server{pay: pay, idx: idx, opts: opts, log: log, router: router}

	router.Use(gin.Recovery(), requestLogger(log))
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = opts.AllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/create-checkout-session", s.handleCreateCheckoutSession)
		api.GET("/payments", s.handleListPayments)
		api.GET("/scenes", s.handleScenes)
	}
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info().Str("addr", addr).Bool("stripe", s.pay.Enabled()).Msg("payment proxy listening")
	select {
	case err := <-errCh:
		if errs.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type createRequest struct {
	Mode string `json:"mode"`
}

func (s *Server) handleCreateCheckoutSession(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errs.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	res, err := s.pay.Create(c.Request.Context(), payments.ParseMode(req.Mode), s.opts.Origin)
	switch {
	case errs.Is(err, payments.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if res.Mode == payments.ModeHosted {
		c.JSON(http.StatusOK, gin.H{"url": res.URL})
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientSecret": res.ClientSecret})
}

func (s *Server) handleListPayments(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	recs, err := s.pay.Recent(c.Request.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("list demo payments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list payments"})
		return
	}
	if recs == nil {
		recs = []payments.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"payments": recs})
}

type sceneEntry struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	BranchTarget bool   `json:"branchTarget,omitempty"`
	Emoji        string `json:"emoji,omitempty"`
}

type actEntry struct {
	Act    int          `json:"act"`
	Title  string       `json:"title"`
	Scenes []sceneEntry `json:"scenes"`
}

func (s *Server) handleScenes(c *gin.Context) {
	groups := s.idx.ActGroups()
	out := make([]actEntry, 0, len(groups))
	for _, g := range groups {
		ae := actEntry{Act: g.Act, Title: content.ActTitle(g.Act), Scenes: make([]sceneEntry, 0, len(g.Scenes))}
		for _, n := range g.Scenes {
			se := sceneEntry{ID: n.ID, Title: content.Title(n.ID), BranchTarget: s.idx.IsBranchTarget(n.ID)}
			if b, ok := s.idx.BranchMeta(n.ID); ok {
				se.Emoji = b.Emoji
			}
			ae.Scenes = append(ae.Scenes, se)
		}
		out = append(out, ae)
	}
	c.JSON(http.StatusOK, gin.H{"start": s.idx.Start(), "total": s.idx.Len(), "acts": out})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "stripe": s.pay.Enabled()})
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		ev := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
