package server

import (
	"time"

	"demoengine/internal/conf"
	"demoengine/internal/service"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// NewHTTPServer new an HTTP server.
func NewHTTPServer(c *conf.Server, demo *service.DemoService, admin *service.AdminService, logger log.Logger) *http.Server {
	opts := []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
	}
	if c.HTTP != nil {
		if c.HTTP.Network != "" {
			opts = append(opts, http.Network(c.HTTP.Network))
		}
		if c.HTTP.Addr != "" {
			opts = append(opts, http.Address(c.HTTP.Addr))
		}
		if c.HTTP.TimeoutSeconds > 0 {
			opts = append(opts, http.Timeout(time.Duration(c.HTTP.TimeoutSeconds)*time.Second))
		}
	}
	srv := http.NewServer(opts...)
	registerDemoRoutes(srv, demo)
	registerAdminRoutes(srv, admin)
	return srv
}

func registerDemoRoutes(srv *http.Server, s *service.DemoService) {
	r := srv.Route("/api/v1/demo")

	r.POST("/search", func(ctx http.Context) error {
		var req service.PromptRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		reply, err := s.Search(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.POST("/generate-image", func(ctx http.Context) error {
		var req service.PromptRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		reply, err := s.GenerateImage(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.POST("/generate-realtime", func(ctx http.Context) error {
		var req service.PromptRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		reply, err := s.GenerateRealtime(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.POST("/analyze", func(ctx http.Context) error {
		var req service.PromptRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		reply, err := s.Analyze(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.POST("/moderate", func(ctx http.Context) error {
		var req service.PromptRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		reply, err := s.Moderate(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.GET("/random", func(ctx http.Context) error {
		reply, err := s.RandomDemo(ctx, ctx.Query().Get("category"))
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.GET("/topics/{category}", func(ctx http.Context) error {
		reply, err := s.ListTopics(ctx, ctx.Vars().Get("category"))
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.GET("/styles", func(ctx http.Context) error {
		reply, err := s.ListStyles(ctx)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.GET("/categories", func(ctx http.Context) error {
		reply, err := s.ListCategories(ctx)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.GET("/videos/{category}", func(ctx http.Context) error {
		reply, err := s.ListVideos(ctx, ctx.Vars().Get("category"))
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.GET("/videos/{category}/count", func(ctx http.Context) error {
		reply, err := s.CountVideos(ctx, ctx.Vars().Get("category"))
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.GET("/{id}", func(ctx http.Context) error {
		reply, err := s.GetDemo(ctx, ctx.Vars().Get("id"))
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})
}

func registerAdminRoutes(srv *http.Server, s *service.AdminService) {
	r := srv.Route("/api/v1/admin/block-cache")

	r.GET("/stats", func(ctx http.Context) error {
		reply, err := s.BlockCacheStats(ctx)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.POST("/check", func(ctx http.Context) error {
		var req service.PromptRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		reply, err := s.CheckPrompt(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.GET("/words", func(ctx http.Context) error {
		reply, err := s.ListBlockedWords(ctx)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.POST("/words", func(ctx http.Context) error {
		var req service.BlockWordRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		reply, err := s.AddBlockedWord(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.DELETE("/words", func(ctx http.Context) error {
		var req service.BlockWordRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		reply, err := s.RemoveBlockedWord(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.POST("/clear", func(ctx http.Context) error {
		reply, err := s.ClearBlockCache(ctx)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.POST("/reseed", func(ctx http.Context) error {
		reply, err := s.ReseedBlockCache(ctx)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	d := srv.Route("/api/v1/admin/demos")
	d.POST("/cleanup", func(ctx http.Context) error {
		var req service.CleanupRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		reply, err := s.CleanupDemos(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})
}
