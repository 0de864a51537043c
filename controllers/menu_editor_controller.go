package controllers

import (
	"errors"
	"strconv"

	"github.com/jaivial/backofficereact-sub001/entity"
	"github.com/jaivial/backofficereact-sub001/pkg/resp"
	"github.com/jaivial/backofficereact-sub001/services"
	"github.com/jaivial/backofficereact-sub001/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MenuEditorController struct {
	Editor *services.MenuEditorService
}

func NewMenuEditorController(editor *services.MenuEditorService) *MenuEditorController {
	return &MenuEditorController{Editor: editor}
}

func paramUint(c *gin.Context, name string) uint {
	v, _ := strconv.ParseUint(c.Param(name), 10, 64)
	return uint(v)
}

// GET /backoffice/menus/:id — เปิด editor
func (ctl *MenuEditorController) Get(c *gin.Context) {
	restID := utils.CurrentRestaurantID(c)
	menuID := paramUint(c, "id")

	doc, err := ctl.Editor.GetDocument(restID, menuID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "menu not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, doc)
}

// PATCH /backoffice/menus/:id/basics
func (ctl *MenuEditorController) PatchBasics(c *gin.Context) {
	restID := utils.CurrentRestaurantID(c)
	menuID := paramUint(c, "id")

	var req entity.MenuBasicsPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	if err := ctl.Editor.PatchBasics(restID, menuID, req); err != nil {
		if errors.Is(err, services.ErrEmptyMenuTitle) {
			resp.BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "menu not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"updated": true})
}

// PUT /backoffice/menus/:id/sections — bulk replace โครง section ทั้งเมนู
func (ctl *MenuEditorController) PutSections(c *gin.Context) {
	restID := utils.CurrentRestaurantID(c)
	menuID := paramUint(c, "id")

	var req struct {
		Sections []entity.SectionPayload `json:"sections"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	sections, err := ctl.Editor.ReplaceSections(restID, menuID, req.Sections)
	if err != nil {
		if errors.Is(err, services.ErrNoSections) {
			resp.BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "menu not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"sections": sections})
}

// PUT /backoffice/menus/:id/sections/:sectionId/dishes — bulk replace จานทั้ง section
func (ctl *MenuEditorController) PutSectionDishes(c *gin.Context) {
	restID := utils.CurrentRestaurantID(c)
	menuID := paramUint(c, "id")
	sectionID := paramUint(c, "sectionId")

	var req struct {
		Dishes []entity.DishPayload `json:"dishes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	dishes, err := ctl.Editor.ReplaceDishes(restID, menuID, sectionID, req.Dishes)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "section not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"dishes": dishes})
}

// PATCH /backoffice/menus/:id/sections/:sectionId/dishes/:dishId — incremental patch
func (ctl *MenuEditorController) PatchSectionDish(c *gin.Context) {
	restID := utils.CurrentRestaurantID(c)
	menuID := paramUint(c, "id")
	sectionID := paramUint(c, "sectionId")
	dishID := paramUint(c, "dishId")

	var req entity.DishPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	dish, err := ctl.Editor.PatchDish(restID, menuID, sectionID, dishID, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "dish not found")
			return
		}
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, gin.H{"dish": dish})
}

// POST /backoffice/menus/:id/publish
func (ctl *MenuEditorController) Publish(c *gin.Context) {
	restID := utils.CurrentRestaurantID(c)
	menuID := paramUint(c, "id")

	if err := ctl.Editor.Publish(restID, menuID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "menu not found")
			return
		}
		if errors.Is(err, services.ErrEmptyMenuTitle) || errors.Is(err, services.ErrNoSections) {
			resp.BadRequest(c, err.Error())
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"published": true})
}
