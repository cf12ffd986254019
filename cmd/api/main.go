package main

import (
	_ "nexus_pix/docs"
	"nexus_pix/internal/adapter/http/routes"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Nexus PIX Relay API
// @version         1.0
// @description     Relays storefront checkouts to the PIX gateway and reports charge status.

// @contact.name   Nexus Store
// @contact.url    https://nexus-store.com

// @host localhost:3001

// @BasePath  /

func main() {
	routes.Run()
}
