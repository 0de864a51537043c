package main

import (
	"fmt"
	"log"

	"github.com/jaivial/backofficereact-sub001/configs"
	"github.com/jaivial/backofficereact-sub001/middlewares"
	"github.com/jaivial/backofficereact-sub001/repository"
	"github.com/jaivial/backofficereact-sub001/routes"
	"github.com/jaivial/backofficereact-sub001/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := configs.LoadConfig()

	// DB
	configs.ConnectionDB(cfg.DBSource)
	db := configs.DB()

	// migrate
	configs.SetupDatabase()

	if err := configs.SeedStaff(); err != nil {
		log.Fatalf("seed staff failed: %v", err)
	}
	if err := configs.SeedDemoMenu(); err != nil {
		log.Fatalf("seed demo menu failed: %v", err)
	}

	// Push hub สำหรับ enhancement job
	hub := ws.NewJobHub(repository.NewJobRepository(db), cfg.JWTSecret)
	go hub.Run()

	// HTTP
	r := gin.Default()

	r.Use(middlewares.CORSMiddleware())

	// Serve รูปที่อัปโหลด/generate แล้ว
	r.Static("/uploads", cfg.UploadDir)

	routes.RegisterRoutes(r, db, cfg, hub)

	port := cfg.Port
	addr := fmt.Sprintf(":%s", port)
	log.Println("🚀 Backoffice API running at", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
