package controllers

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"farm-shop/config"
	"farm-shop/middleware"
	"farm-shop/models"
	"farm-shop/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InvoiceResolver maps a stored invoice reference to a local file path.
type InvoiceResolver interface {
	Resolve(ref string) (string, error)
}

type AdminController struct {
	orders   *services.OrderService
	products *services.ProductService
	content  *services.ContentService
	invoices InvoiceResolver
}

func audit(c *gin.Context, action string, id int64) {
	config.Logger.Info(action, zap.Int64("id", id), zap.String("admin", middleware.AdminEmail(c)))
}

func NewAdminController(orders *services.OrderService, products *services.ProductService, content *services.ContentService, invoices InvoiceResolver) *AdminController {
	return &AdminController{orders: orders, products: products, content: content, invoices: invoices}
}

// @Summary List orders
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} models.PaginationResponse
// @Router /admin/orders [get]
func (ctrl *AdminController) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	orders, meta, err := ctrl.orders.List(c.Request.Context(), pageQuery(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.PaginationResponse{
		Success: true,
		Message: "Orders retrieved",
		Data:    orders,
		Meta:    meta,
	})
}

// @Summary Get order
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/orders/{id} [get]
func (ctrl *AdminController) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := ctrl.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order retrieved",
		"data":    gin.H{"order": order, "total": order.Total()},
	})
}

// @Summary Download order invoice
// @Description Serves the stored invoice, redirects to it when it lives in remote storage, or renders it again when none was stored
// @Tags Admin
// @Security BearerAuth
// @Produce application/pdf
// @Param id path int true "Order ID"
// @Success 200 {file} file
// @Success 302
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/orders/{id}/invoice [get]
func (ctrl *AdminController) OrderInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := ctrl.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("invoice_%d.pdf", order.OrderID)
	if order.Invoice != nil {
		ref := *order.Invoice
		if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
			c.Redirect(http.StatusFound, ref)
			return
		}
		if path, err := ctrl.invoices.Resolve(ref); err == nil {
			if _, err := os.Stat(path); err == nil {
				c.FileAttachment(path, filename)
				return
			}
		}
	}

	_, pdf, err := ctrl.orders.RenderInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// @Summary Mark order as sent on WhatsApp
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/orders/{id}/notified [patch]
func (ctrl *AdminController) MarkOrderNotified(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.orders.MarkNotified(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	audit(c, "order marked notified", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order marked as notified"})
}

// @Summary Create product
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateProductRequest true "Product"
// @Success 201 {object} models.Response{data=models.Product}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/products [post]
func (ctrl *AdminController) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	product, err := ctrl.products.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Product created", "data": product})
}

// @Summary Update product
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body models.UpdateProductRequest true "Fields to change"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/products/{id} [patch]
func (ctrl *AdminController) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req models.UpdateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	product, err := ctrl.products.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product updated", "data": product})
}

// @Summary Delete product
// @Description Carts holding the product drop it the next time they are read
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/products/{id} [delete]
func (ctrl *AdminController) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.products.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	audit(c, "product deleted", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
}

// @Summary Upload product image
// @Tags Admin
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Product ID"
// @Param image formData file true "Image file"
// @Param alt_text formData string false "Alt text"
// @Param is_main formData bool false "Use as main image"
// @Success 201 {object} models.Response{data=models.ProductImage}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/products/{id}/images [post]
func (ctrl *AdminController) UploadProductImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Image file is required"})
		return
	}
	isMain, _ := strconv.ParseBool(c.PostForm("is_main"))

	img, err := ctrl.products.AddProductImage(c.Request.Context(), id, header, c.PostForm("alt_text"), isMain)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Image uploaded", "data": img})
}

// @Summary Delete product image
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Param image_id path int true "Image ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/products/{id}/images/{image_id} [delete]
func (ctrl *AdminController) DeleteProductImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseIDParam(c, "image_id")
	if !ok {
		return
	}
	if err := ctrl.products.DeleteProductImage(c.Request.Context(), id, imageID); err != nil {
		respondError(c, err)
		return
	}
	audit(c, "product image deleted", imageID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Image deleted"})
}

// @Summary Approve review
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/reviews/{id}/approve [patch]
func (ctrl *AdminController) ApproveReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.products.ApproveReview(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	audit(c, "review approved", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review approved"})
}

// @Summary Approve testimonial
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Testimonial ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/testimonials/{id}/approve [patch]
func (ctrl *AdminController) ApproveTestimonial(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.content.ApproveTestimonial(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	audit(c, "testimonial approved", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Testimonial approved"})
}
