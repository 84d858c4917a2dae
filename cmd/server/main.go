package main

import (
	"log"
	"net/http"
	"os"

	"github.com/MEMOUE/ApiLanayaGo/internal/config"
	"github.com/MEMOUE/ApiLanayaGo/internal/controllers"
	"github.com/MEMOUE/ApiLanayaGo/internal/logger"
	"github.com/MEMOUE/ApiLanayaGo/internal/middleware"
	"github.com/MEMOUE/ApiLanayaGo/internal/routes"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	// Wire stores and services onto the database handle
	controllers.Setup(config.GetDB())

	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8080"
	}

	log.Println("🚀 Server running at " + addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
