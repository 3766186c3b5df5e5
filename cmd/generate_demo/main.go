// Command generate_demo creates a demo catalog database with sample data.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/mrlokans/library-catalog/internal/demo"
)

const defaultDemoDatabasePath = "./demo-catalog.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo catalog at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	if err := demo.Generate(*dbPath); err != nil {
		log.Fatalf("Failed to generate demo catalog: %v", err)
	}
}
