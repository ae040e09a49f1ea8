package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dimiro1/banner"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aladhefafalquran/tts/internal/api"
	"github.com/aladhefafalquran/tts/internal/config"
	"github.com/aladhefafalquran/tts/internal/logging"
	"github.com/aladhefafalquran/tts/internal/metrics"
	"github.com/aladhefafalquran/tts/internal/relay"
	"github.com/aladhefafalquran/tts/internal/scratch"
	"github.com/aladhefafalquran/tts/internal/tts"
	"github.com/aladhefafalquran/tts/internal/voices"
)

const shutdownTimeout = 10 * time.Second

const bannerTemplate = `{{ .Title "Edge TTS" "" 0 }}
Go {{ .GoVersion }} on {{ .GOOS }}/{{ .GOARCH }}
`

func main() {
	bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// 1. Load Config
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		bootLog.Fatal().Err(err).Msg("invalid flags")
	}
	configDir, _ := flags.GetString("config-dir")
	cfg, err := config.LoadConfigWithFlags(configDir, flags)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to build logger")
	}

	// 2. Environment Check
	if fields := strings.Fields(cfg.EdgeCommand); tts.EngineType(cfg.Engine) == tts.EngineEdge && len(fields) > 0 {
		checkDependency(log, fields[0])
	}
	if cfg.ProbeAudio {
		checkDependency(log, "ffprobe")
	}

	// 3. Wire components
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	provider, err := tts.NewTTSProvider(tts.EngineType(cfg.Engine), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create tts provider")
	}

	rl := relay.New(provider, logging.Component(log, "relay"), relay.Options{
		DefaultVoice: cfg.DefaultVoice,
		TempDir:      cfg.TempDir,
		Cleanup:      scratch.Policy{Attempts: cfg.CleanupAttempts, Delay: cfg.CleanupDelay},
		ProbeAudio:   cfg.ProbeAudio,
		Metrics:      m,
	})

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(cfg, rl, logging.Component(log, "http"), reg)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 4. Start Server
	banner.Init(os.Stdout, cfg.LogFormat == "console", true, bytes.NewBufferString(bannerTemplate))
	log.Info().
		Str("url", "http://localhost:"+cfg.Port).
		Str("engine", provider.Name()).
		Str("static_dir", cfg.StaticDir).
		Msg("edge tts server starting")
	log.Info().Strs("voices", voices.Names("English")).Msg("english voices")
	log.Info().Strs("voices", voices.Names("Arabic")).Msg("arabic voices")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			log.Fatal().Str("port", cfg.Port).Msg("port is already in use, set PORT to another value")
		}
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

func checkDependency(log zerolog.Logger, cmdName string) {
	if path, err := exec.LookPath(cmdName); err != nil {
		log.Warn().Str("command", cmdName).Msg("not installed or not in PATH, synthesis may fail")
	} else {
		log.Info().Str("command", cmdName).Str("path", path).Msg("dependency ok")
	}
}
