package main

import (
	"os"

	"github.com/joho/godotenv"

	resuminicmder "github.com/papercomputeco/resumini/cmd/resumini"
)

func main() {
	// A missing .env is fine; the environment may already carry the keys.
	_ = godotenv.Load()

	cmd := resuminicmder.NewResuminiCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
