package main

import (
	"github.com/joho/godotenv"

	"github.com/KaramelBytes/tablerag-cli/cmd"
)

func main() {
	// Optional .env for local development (TABLERAG_* variables).
	_ = godotenv.Load()
	cmd.Execute()
}
