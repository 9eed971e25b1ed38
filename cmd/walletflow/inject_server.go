package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/wire"
	"github.com/pandodao/walletflow/core"
	"github.com/pandodao/walletflow/handler/api"
	"github.com/pandodao/walletflow/handler/hc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/viper"
)

var serverSet = wire.NewSet(
	api.New,
	provideServer,
)

func provideServer(
	v *viper.Viper,
	apiHandler *api.Server,
	tokens core.TokenStore,
	reg *prometheus.Registry,
) *http.Server {
	v.SetDefault("api.port", 8080)

	m := chi.NewMux()
	m.Use(middleware.RealIP)
	m.Use(middleware.Logger)
	m.Use(middleware.Recoverer)
	m.Use(cors.AllowAll().Handler)

	m.Mount("/api", apiHandler.Handler())
	m.Mount("/hc", hc.Handler(version, tokens))
	m.Mount("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", v.GetInt("api.port")),
		Handler: m,
	}
}
