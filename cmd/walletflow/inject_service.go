package main

import (
	"github.com/google/wire"
	"github.com/pandodao/walletflow/core"
	"github.com/pandodao/walletflow/metrics"
	"github.com/pandodao/walletflow/service/camera"
	"github.com/pandodao/walletflow/service/token"
	"github.com/pandodao/walletflow/service/transfer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
)

var serviceSet = wire.NewSet(
	provideTokenConfig,
	token.New,
	provideTransferConfig,
	provideTransferService,
	provideCameraConfig,
	provideCamera,
	provideRegistry,
	provideRecorder,
)

func provideTokenConfig(v *viper.Viper) (token.Config, error) {
	var cfg token.Config
	if err := v.UnmarshalKey("tokens", &cfg.Tokens); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func provideTransferConfig(v *viper.Viper) transfer.Config {
	v.SetDefault("submitter.latency", "2s")

	return transfer.Config{
		Latency: v.GetDuration("submitter.latency"),
		Reject:  v.GetBool("submitter.reject"),
	}
}

func provideTransferService(cfg transfer.Config) core.TransferService {
	return transfer.Dedupe(transfer.NewSimulated(cfg))
}

func provideCameraConfig(v *viper.Viper) camera.Config {
	v.SetDefault("camera.permission", "granted")
	v.SetDefault("camera.torch", true)

	return camera.Config{
		Permission:  v.GetString("camera.permission"),
		Torch:       v.GetBool("camera.torch"),
		PromptDelay: v.GetDuration("camera.prompt_delay"),
	}
}

func provideCamera(cfg camera.Config) core.Camera {
	return camera.Exclusive(camera.NewVirtual(cfg))
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

func provideRecorder(reg *prometheus.Registry) metrics.Recorder {
	return metrics.NewPrometheus(reg)
}
