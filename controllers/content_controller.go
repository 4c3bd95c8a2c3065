package controllers

import (
	"fmt"
	"net/http"

	"farm-shop/models"
	"farm-shop/services"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	content *services.ContentService
}

func NewContentController(content *services.ContentService) *ContentController {
	return &ContentController{content: content}
}

// @Summary List recipes
// @Tags Recipes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Success 200 {object} models.PaginationResponse
// @Router /shop/recipes [get]
func (ctrl *ContentController) Recipes(c *gin.Context) {
	recipes, meta, err := ctrl.content.Recipes(c.Request.Context(), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.PaginationResponse{
		Success: true,
		Message: "Recipes retrieved",
		Data:    recipes,
		Meta:    meta,
	})
}

// @Summary Recipe detail
// @Tags Recipes
// @Produce json
// @Param slug path string true "Recipe slug"
// @Success 200 {object} models.Response{data=models.Recipe}
// @Failure 404 {object} models.ErrorResponse
// @Router /shop/recipe/{slug} [get]
func (ctrl *ContentController) Recipe(c *gin.Context) {
	recipe, err := ctrl.content.Recipe(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Recipe retrieved",
		"data": gin.H{
			"recipe":           recipe,
			"total_time":       recipe.TotalTime(),
			"difficulty_label": models.DifficultyLabel(recipe.Difficulty),
		},
	})
}

// @Summary Download recipe as PDF
// @Tags Recipes
// @Produce application/pdf
// @Param slug path string true "Recipe slug"
// @Success 200 {file} file
// @Failure 404 {object} models.ErrorResponse
// @Router /shop/recipe/{slug}/download-pdf [get]
func (ctrl *ContentController) RecipePDF(c *gin.Context) {
	recipe, pdf, err := ctrl.content.RecipePDF(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, recipe.Slug))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// @Summary Instagram gallery
// @Tags Gallery
// @Produce json
// @Success 200 {object} models.Response{data=[]models.GalleryCategory}
// @Router /gallery [get]
func (ctrl *ContentController) Gallery(c *gin.Context) {
	categories, err := ctrl.content.Gallery(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Gallery retrieved", "data": categories})
}

// @Summary Approved testimonials
// @Tags Testimonials
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Testimonial}
// @Router /testimonials [get]
func (ctrl *ContentController) Testimonials(c *gin.Context) {
	testimonials, err := ctrl.content.Testimonials(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Testimonials retrieved", "data": testimonials})
}

// @Summary Submit a testimonial
// @Tags Testimonials
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body models.TestimonialRequest true "Testimonial"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /submit-testimonial [post]
func (ctrl *ContentController) SubmitTestimonial(c *gin.Context) {
	var req models.TestimonialRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	t, err := ctrl.content.SubmitTestimonial(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Thank you for your testimonial! It will be visible after approval.",
		"data":    t,
	})
}
