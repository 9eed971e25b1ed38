package main

import (
	"github.com/google/wire"
	"github.com/pandodao/walletflow/worker/syncer"
	"github.com/spf13/viper"
)

var workerSet = wire.NewSet(
	provideSyncerConfig,
	syncer.New,
)

func provideSyncerConfig(v *viper.Viper) syncer.Config {
	v.SetDefault("syncer.interval", "10s")

	return syncer.Config{
		Interval: v.GetDuration("syncer.interval"),
	}
}
