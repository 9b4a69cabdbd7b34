// Command mockbackend stands in for the hospital registration backend
// when exercising the http gateway locally.
package main

import (
	"context"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/frontdesk-api/internal/model"
)

func main() {
	addr := flag.String("addr", ":9000", "listen address")
	failRate := flag.Float64("fail-rate", 0, "fraction of requests answered with 503")
	delay := flag.Duration("delay", 0, "artificial latency per request")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.POST("/registrations", registrationsHandler(*failRate, *delay))

	srv := &http.Server{Addr: *addr, Handler: engine}
	go func() {
		log.Info().Str("addr", *addr).Float64("fail_rate", *failRate).Msg("mock backend listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start mock backend")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("mock backend forced to shutdown")
	}
}

func registrationsHandler(failRate float64, delay time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload model.RegistrationPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.String(http.StatusBadRequest, "malformed registration: %v", err)
			return
		}

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-c.Request.Context().Done():
				return
			}
		}

		if failRate > 0 && rand.Float64() < failRate {
			log.Warn().Msg("injected failure")
			c.String(http.StatusServiceUnavailable, "backend unavailable")
			return
		}

		id := "REG-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
		log.Info().
			Str("registration_id", id).
			Str("department", payload.Appointment.Department).
			Int("orders", len(payload.Orders)).
			Msg("registration accepted")
		c.JSON(http.StatusOK, model.RegistrationResult{RegistrationID: id})
	}
}
