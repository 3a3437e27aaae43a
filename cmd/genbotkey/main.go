package main

import (
	"fmt"
	"log"

	"rsbackend/core"
)

func main() {
	log.Printf("🔑 Generating new bot API key...")

	// Generate a new secret key with "bot" prefix for the webhook relay
	apiKey, err := core.NewSecretKey("bot")
	if err != nil {
		log.Fatalf("❌ Failed to generate API key: %v", err)
	}

	fmt.Printf("Generated API Key: %s\n", apiKey)
	log.Printf("✅ Successfully generated bot API key")
}
