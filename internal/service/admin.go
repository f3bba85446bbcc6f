package service

import (
	"net/http"
	"strings"
	"time"

	"github.com/danmuck/hwcctl/internal/auth"
	"github.com/danmuck/hwcctl/internal/backend"
	"github.com/danmuck/hwcctl/internal/observability"
	"github.com/danmuck/hwcctl/internal/protocol/schema"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// snapshotter is implemented by engines that can report their state.
type snapshotter interface {
	Snapshot() backend.Snapshot
}

// AdminConfig configures the admin HTTP surface. When Token is set, the
// routes exposing service state require it as a bearer token.
type AdminConfig struct {
	CORSOrigins []string
	Token       string
}

// NewAdminRouter builds the HTTP admin surface for svc. srv may be nil.
func NewAdminRouter(svc *Service, srv *Server, cfg AdminConfig) *gin.Engine {
	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(svc.Name()))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CORSOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	appeared := time.Now()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(appeared).String(),
			"service": svc.Name(),
		})
	})

	r.GET("/ready", func(c *gin.Context) {
		ready := svc.Started()
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		body := gin.H{
			"ready":    ready,
			"service":  svc.Name(),
			"controls": svc.ControlsCount(),
		}
		if srv != nil {
			body["clients"] = srv.ActiveConnections()
		}
		c.JSON(status, body)
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": svc.Name(),
			"version": svc.GetHwcVersion(),
		})
	})

	r.GET("/ops", func(c *gin.Context) {
		ops := schema.Ops()
		names := make([]gin.H, 0, len(ops))
		for _, op := range ops {
			names = append(names, gin.H{"type": op.Type, "name": op.Name})
		}
		c.JSON(http.StatusOK, gin.H{"ops": names})
	})

	state := r.Group("/")
	if strings.TrimSpace(cfg.Token) != "" {
		state.Use(requireToken(auth.StaticToken{Token: strings.TrimSpace(cfg.Token)}))
	}

	state.GET("/options", func(c *gin.Context) {
		c.String(http.StatusOK, svc.DumpOptions())
	})

	state.GET("/logview", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"mirroring": svc.trace.Mirroring(),
			"lines":     svc.trace.Lines(),
		})
	})

	state.GET("/state", func(c *gin.Context) {
		snap, ok := svc.Engine().(snapshotter)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "engine does not report state"})
			return
		}
		c.JSON(http.StatusOK, snap.Snapshot())
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func requireToken(v auth.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.Check(v, c.GetHeader("Authorization")); err != nil {
			log.Debug().Err(err).Str("path", c.FullPath()).Msg("admin request rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		out = append(out, origin)
	}
	if len(out) == 0 {
		return []string{"http://localhost:3000"}
	}
	return out
}
