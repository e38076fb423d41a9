package main

import (
	"github.com/dwarvesf/wallet-tracker/internal/server"
)

func main() {
	server.Init()
}
