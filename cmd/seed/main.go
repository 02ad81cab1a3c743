package main

import (
	"log"

	tool "github.com/restofleet/pos-admin-api/internal/tools/seed"
)

func main() {
	if err := tool.NewRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
