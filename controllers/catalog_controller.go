package controllers

import (
	"strconv"

	"github.com/jaivial/backofficereact-sub001/entity"
	"github.com/jaivial/backofficereact-sub001/pkg/resp"
	"github.com/jaivial/backofficereact-sub001/repository"
	"github.com/jaivial/backofficereact-sub001/services"
	"github.com/jaivial/backofficereact-sub001/utils"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	Editor  *services.MenuEditorService
	Catalog *repository.CatalogRepository
}

func NewCatalogController(editor *services.MenuEditorService, catalog *repository.CatalogRepository) *CatalogController {
	return &CatalogController{Editor: editor, Catalog: catalog}
}

// POST /backoffice/catalog/dishes — upsert จานเข้าแคตตาล็อกกลาง
func (ctl *CatalogController) Upsert(c *gin.Context) {
	restID := utils.CurrentRestaurantID(c)

	var req entity.CatalogDishPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	id, err := ctl.Editor.UpsertCatalogDish(restID, req)
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, gin.H{"id": id})
}

// GET /backoffice/catalog/dishes?q=&limit=
func (ctl *CatalogController) Search(c *gin.Context) {
	restID := utils.CurrentRestaurantID(c)
	limit, _ := strconv.Atoi(c.Query("limit"))

	rows, err := ctl.Catalog.Search(restID, c.Query("q"), limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": rows})
}
