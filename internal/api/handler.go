// Package api is the HTTP front door: UI page, /tts, and the static fallback.
package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/aladhefafalquran/tts/internal/config"
	"github.com/aladhefafalquran/tts/internal/relay"
	"github.com/aladhefafalquran/tts/internal/voices"
)

type Handler struct {
	Config *config.Config
	Relay  *relay.Relay
	log    zerolog.Logger
}

func NewHandler(cfg *config.Config, r *relay.Relay, log zerolog.Logger) *Handler {
	return &Handler{Config: cfg, Relay: r, log: log}
}

// indexData feeds templates/index.html.
type indexData struct {
	Groups       []voices.Group
	DefaultVoice string
	Formats      []string
	MaxLength    int
	MinRate      int
	MaxRate      int
}

func (h *Handler) RenderIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", indexData{
		Groups:       voices.ByLanguage(),
		DefaultVoice: h.Config.DefaultVoice,
		Formats:      relay.Formats,
		MaxLength:    relay.MaxTextLength,
		MinRate:      relay.MinRate,
		MaxRate:      relay.MaxRate,
	})
}

func (h *Handler) HandleFavicon(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// HandleTTS always answers 200; failures travel in the JSON body.
func (h *Handler) HandleTTS(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.Config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.log.Warn().Int64("limit", tooLarge.Limit).Msg("request body too large")
		} else {
			h.log.Error().Err(err).Msg("read request body")
		}
		// Treated like any other unparseable body.
		body = nil
	}
	c.JSON(http.StatusOK, h.Relay.Handle(c.Request.Context(), body))
}

func (h *Handler) HandleVoices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default": h.Config.DefaultVoice,
		"voices":  voices.Catalog,
	})
}

func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "engine": h.Config.Engine})
}

// HandleNotFound serves files from the static directory for GET and HEAD and
// answers 404 for everything else.
func (h *Handler) HandleNotFound(static http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead:
			// NoRoute starts at 404 and directory listings never set a status.
			c.Status(http.StatusOK)
			static.ServeHTTP(c.Writer, c.Request)
		default:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Not found"})
		}
	}
}
