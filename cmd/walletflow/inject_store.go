package main

import (
	"github.com/google/wire"
	"github.com/pandodao/walletflow/store/token"
)

var storeSet = wire.NewSet(
	token.New,
)
