package api

import (
	"context"
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/uber-go/tally/v4"

	"github.com/bitmark-inc/geosubmit-api/logmodule"
	"github.com/bitmark-inc/geosubmit-api/store"
	"github.com/bitmark-inc/geosubmit-api/submit"
)

const defaultMaxBodyBytes = 2 << 20

var log *logrus.Entry

func init() {
	log = logrus.WithField("prefix", "gin")

	// keep integers exact when decoding untyped report items
	binding.EnableDecoderUseNumber = true
}

// QueuePinger is implemented by queues which can report their health.
type QueuePinger interface {
	Ping(ctx context.Context) error
}

// QueueSizer is implemented by queues which can report their backlog.
type QueueSizer interface {
	Size(ctx context.Context) (int64, error)
}

// Server to run a http server instance
type Server struct {
	// Server instance
	server *http.Server

	// Stores, nil when api keys are not checked
	store   store.APIKeyStore
	apiKeys store.APIKeys

	// Submission pipeline and its queue
	queue    submit.Queue
	pipeline *submit.Pipeline

	// Metrics
	metrics        tally.Scope
	metricsHandler http.Handler

	maxBodyBytes int64
}

// NewServer new instance of server
func NewServer(
	keyStore store.APIKeyStore,
	queue submit.Queue,
	metrics tally.Scope,
	metricsHandler http.Handler) *Server {
	maxBodyBytes := viper.GetInt64("server.max_body_bytes")
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}

	if metrics == nil {
		metrics = tally.NoopScope
	}

	s := &Server{
		store:          keyStore,
		queue:          queue,
		pipeline:       submit.NewPipeline(queue, nil),
		metrics:        metrics,
		metricsHandler: metricsHandler,
		maxBodyBytes:   maxBodyBytes,
	}
	if keyStore != nil {
		s.apiKeys = store.NewCachedAPIKeys(keyStore,
			viper.GetInt("apikey.cache_size"),
			viper.GetDuration("apikey.cache_ttl"))
	}
	return s
}

// Run to run the server
func (s *Server) Run(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.setupRouter(),
	}

	return s.server.ListenAndServe()
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         10 * time.Second,
	}))

	v2Route := r.Group("/v2")
	v2Route.Use(requestIDMiddleware())
	v2Route.Use(logmodule.Ginrus("API"))
	v2Route.Use(cors.New(cors.Config{
		AllowMethods:    []string{"POST"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		ExposeHeaders:   []string{"Content-Length", "X-Request-Id"},
		AllowAllOrigins: true,
		MaxAge:          12 * time.Hour,
	}))
	v2Route.Use(s.apiKeyMiddleware())
	{
		v2Route.POST("/geosubmit", s.geosubmit)
	}

	if s.metricsHandler != nil {
		metricRoute := r.Group("/metrics")
		metricRoute.Use(logmodule.Ginrus("Metric"))
		if key := viper.GetString("server.apikey.metric"); key != "" {
			metricRoute.Use(s.apikeyAuthentication(key))
		}
		metricRoute.GET("", gin.WrapH(s.metricsHandler))
	}

	r.GET("/healthz", s.healthz)

	return r
}

// Shutdown to shutdown the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// shouldInterupt sends error message and determine if it should interupt the current flow
func shouldInterupt(err error, c *gin.Context) bool {
	if err == nil {
		return false
	}

	log.Error(err)
	abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
	return true
}

func (s *Server) healthz(c *gin.Context) {
	if s.store != nil {
		if shouldInterupt(s.store.Ping(), c) {
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if p, ok := s.queue.(QueuePinger); ok {
		if err := p.Ping(ctx); err != nil {
			log.WithError(err).Error("queue ping failed")
			abortWithEncoding(c, http.StatusServiceUnavailable, errorServiceUnavailable)
			return
		}
	}

	resp := gin.H{
		"status":  "OK",
		"version": viper.GetString("server.version"),
	}
	if q, ok := s.queue.(QueueSizer); ok {
		if size, err := q.Size(ctx); err == nil {
			resp["queue_size"] = size
			s.metrics.Gauge(metricQueueSize).Update(float64(size))
		}
	}
	c.JSON(http.StatusOK, resp)
}

// requestIDMiddleware tags every request with an id, reusing the one sent
// by the client when present.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-Id", requestID)
		c.Next()
	}
}

func responseWithEncoding(c *gin.Context, code int, obj ErrorResponse) {
	acceptEncoding := c.GetHeader("Accept-Encoding")
	switch acceptEncoding {
	default:
		c.JSON(code, obj)
	}
}

func abortWithEncoding(c *gin.Context, code int, obj ErrorResponse, errors ...error) {
	for _, err := range errors {
		c.Error(err)
	}
	responseWithEncoding(c, code, obj)
	c.Abort()
}
