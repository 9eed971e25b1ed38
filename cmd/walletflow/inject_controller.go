package main

import (
	"github.com/google/wire"
	"github.com/pandodao/walletflow/controller/scan"
	"github.com/pandodao/walletflow/controller/send"
	"github.com/spf13/viper"
)

var controllerSet = wire.NewSet(
	provideScanConfig,
	provideSendConfig,
)

func provideScanConfig(v *viper.Viper) scan.Config {
	v.SetDefault("scan.error_window", "3s")

	return scan.Config{
		ErrorWindow: v.GetDuration("scan.error_window"),
	}
}

func provideSendConfig(v *viper.Viper) send.Config {
	v.SetDefault("send.success_window", "3s")
	v.SetDefault("send.memo_limit", 200)

	return send.Config{
		SuccessWindow: v.GetDuration("send.success_window"),
		MemoLimit:     v.GetInt("send.memo_limit"),
	}
}
