// Command apackd serves aPLib compression over HTTP.
package main

import (
	"log"

	"github.com/apack/pack/internal/api"
	"github.com/apack/pack/internal/config"
	"github.com/gin-gonic/gin"
)

func main() {
	log.SetPrefix("apackd: ")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxFileSize
	api.SetupRoutes(router, cfg)

	log.Printf("listening on :%s (max file size %d bytes, window %d)", cfg.Port, cfg.MaxFileSize, cfg.Window)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
