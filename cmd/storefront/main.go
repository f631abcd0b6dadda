package main

import (
	"log"

	"github.com/Art-Code2025/perfumes-sub001/internal/routers"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"
)

func main() {
	util.InitDatabases()

	router := routers.InitRoute()
	err := router.Run("0.0.0.0:8080")
	if err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
