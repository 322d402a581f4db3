package main

import (
	"log"

	"github.com/ndelvaux/handleforge/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ handleforge failed to start: %v", err)
	}
}
