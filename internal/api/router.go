package api

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/aladhefafalquran/tts/internal/config"
	"github.com/aladhefafalquran/tts/internal/relay"
	"github.com/aladhefafalquran/tts/web"
)

func NewRouter(cfg *config.Config, rl *relay.Relay, log zerolog.Logger, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log, "/healthz", "/metrics", "/favicon.ico"))
	r.Use(CORS())

	r.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.html")))

	handler := NewHandler(cfg, rl, log)

	r.GET("/", handler.RenderIndex)
	r.GET("/index.html", handler.RenderIndex)
	r.GET("/favicon.ico", handler.HandleFavicon)
	r.POST("/tts", handler.HandleTTS)
	r.GET("/voices", handler.HandleVoices)
	r.GET("/healthz", handler.HandleHealth)
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	r.NoRoute(handler.HandleNotFound(http.FileServer(http.Dir(cfg.StaticDir))))

	return r
}
