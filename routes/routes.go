package routes

import (
	"github.com/jaivial/backofficereact-sub001/configs"
	"github.com/jaivial/backofficereact-sub001/controllers"
	"github.com/jaivial/backofficereact-sub001/middlewares"
	"github.com/jaivial/backofficereact-sub001/repository"
	"github.com/jaivial/backofficereact-sub001/services"
	"github.com/jaivial/backofficereact-sub001/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *configs.Config, hub *ws.JobHub) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Repositories
	menuRepo := repository.NewMenuRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	jobRepo := repository.NewJobRepository(db)

	// Services
	authSvc := services.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL)
	editorSvc := services.NewMenuEditorService(menuRepo, sectionRepo, catalogRepo)
	enhanceSvc := services.NewEnhanceService(jobRepo, hub, cfg.UploadDir, cfg.EnhanceDelay)

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc)
	editorCtrl := controllers.NewMenuEditorController(editorSvc)
	catalogCtrl := controllers.NewCatalogController(editorSvc, catalogRepo)
	imageCtrl := controllers.NewImageController(sectionRepo, enhanceSvc, cfg.UploadDir)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/login", authCtrl.Login)
	}

	// Backoffice editor (owner/admin)
	bo := r.Group("/backoffice", middlewares.AuthMiddleware(cfg.JWTSecret, "owner", "admin"))
	{
		bo.GET("/menus/:id", editorCtrl.Get)
		bo.PATCH("/menus/:id/basics", editorCtrl.PatchBasics)
		bo.PUT("/menus/:id/sections", editorCtrl.PutSections)
		bo.PUT("/menus/:id/sections/:sectionId/dishes", editorCtrl.PutSectionDishes)
		bo.PATCH("/menus/:id/sections/:sectionId/dishes/:dishId", editorCtrl.PatchSectionDish)
		bo.POST("/menus/:id/publish", editorCtrl.Publish)

		bo.POST("/menus/:id/sections/:sectionId/dishes/:dishId/image", imageCtrl.UploadDishImage)
		bo.POST("/menus/:id/sections/:sectionId/dishes/:dishId/image/enhance", imageCtrl.RequestEnhance)

		bo.POST("/catalog/dishes", catalogCtrl.Upsert)
		bo.GET("/catalog/dishes", catalogCtrl.Search)
	}

	// Push channel ของ enhancement job (token ทาง query — ตรวจใน hub เพื่อให้
	// client เห็น close code ตอนโดนปฏิเสธสิทธิ์)
	r.GET("/ws/menus/:id/jobs", hub.HandleWebSocket)
}
