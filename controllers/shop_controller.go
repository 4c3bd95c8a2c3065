package controllers

import (
	"net/http"

	"farm-shop/models"
	"farm-shop/services"

	"github.com/gin-gonic/gin"
)

type ShopController struct {
	products *services.ProductService
}

func NewShopController(products *services.ProductService) *ShopController {
	return &ShopController{products: products}
}

// @Summary Home page
// @Description Featured, hot and new products
// @Tags Shop
// @Produce json
// @Success 200 {object} models.Response{data=models.HomePage}
// @Router / [get]
func (ctrl *ShopController) Home(c *gin.Context) {
	home, err := ctrl.products.Home(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Home retrieved", "data": home})
}

// @Summary List products
// @Description Available products, newest first, twelve per page
// @Tags Shop
// @Produce json
// @Param page query int false "Page number" default(1)
// @Success 200 {object} models.Response{data=models.ShopPage}
// @Router /shop [get]
func (ctrl *ShopController) Shop(c *gin.Context) {
	shop, err := ctrl.products.Shop(c.Request.Context(), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Products retrieved", "data": shop})
}

// @Summary Products in a category
// @Tags Shop
// @Produce json
// @Param slug path string true "Category slug"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} models.Response{data=models.CategoryPage}
// @Failure 404 {object} models.ErrorResponse
// @Router /shop/category/{slug} [get]
func (ctrl *ShopController) Category(c *gin.Context) {
	page, err := ctrl.products.Category(c.Request.Context(), c.Param("slug"), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category retrieved", "data": page})
}

// @Summary Product detail
// @Tags Shop
// @Produce json
// @Param slug path string true "Product slug"
// @Success 200 {object} models.Response{data=models.ProductDetail}
// @Failure 404 {object} models.ErrorResponse
// @Router /shop/product/{slug} [get]
func (ctrl *ShopController) Product(c *gin.Context) {
	detail, err := ctrl.products.Detail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product retrieved", "data": detail})
}

// @Summary Submit a review
// @Description Reviews are held for moderation unless auto approval is enabled
// @Tags Shop
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param slug path string true "Product slug"
// @Param request body models.ReviewRequest true "Review"
// @Success 201 {object} models.Response{data=models.Review}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /shop/product/{slug}/reviews [post]
func (ctrl *ShopController) SubmitReview(c *gin.Context) {
	var req models.ReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	review, err := ctrl.products.SubmitReview(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Thank you! Your review is awaiting approval."
	if review.IsApproved {
		message = "Thank you for your review!"
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message, "data": review})
}
