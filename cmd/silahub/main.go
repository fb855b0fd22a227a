package main

import (
	"log"

	"github.com/silahub/site/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ silahub failed: %v", err)
	}
}
