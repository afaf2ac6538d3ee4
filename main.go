package main

import (
	"github.com/joho/godotenv"
	"retail_backoffice/cmd"
)

func init() {
	_ = godotenv.Load()
}

func main() {
	cmd.Execute()
}
