package main

import (
	"os"

	"github.com/joho/godotenv"

	servecmder "github.com/papercomputeco/resumini/cmd/resumini/serve"
)

func main() {
	_ = godotenv.Load()

	cmd := servecmder.NewServeCmd()
	cmd.Use = "resuminiapi"
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to the .resumini/ config directory")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
