package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicdesk/frontdesk-api/internal/handler"
	"github.com/clinicdesk/frontdesk-api/internal/middleware"
	"github.com/clinicdesk/frontdesk-api/pkg/metrics"
)

// Handler registers its routes on a group
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	CORS      middleware.CORSConfig
	RateLimit middleware.RateLimiterConfig
}

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	authH        Handler
	doctorH      Handler
	patientH     Handler
	appointmentH Handler
	metrics      *metrics.Metrics
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH Handler,
	doctorH Handler,
	patientH Handler,
	appointmentH Handler,
	m *metrics.Metrics,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:       engine,
		auth:         auth,
		authH:        authH,
		doctorH:      doctorH,
		patientH:     patientH,
		appointmentH: appointmentH,
		metrics:      m,
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
	)

	engine.Use(middleware.CORS(config.CORS))

	rateLimiter := middleware.NewRateLimiter(config.RateLimit)
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) Setup() {
	r.engine.GET("/health", handler.HealthCheck)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api")

	// login/logout stay public
	r.authH.RegisterRoutes(api)

	// doctor routes require the bearer form of the token
	doctors := api.Group("")
	doctors.Use(r.auth.AuthenticateBearer())
	r.doctorH.RegisterRoutes(doctors)

	// queue and booking routes accept bearer or cookie
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.patientH.RegisterRoutes(protected)
	r.appointmentH.RegisterRoutes(protected)
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if r.metrics == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		r.metrics.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		r.metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		if c.Writer.Status() >= 500 {
			r.metrics.ErrorTotal.WithLabelValues(c.Request.Method, path).Inc()
		}
	}
}
