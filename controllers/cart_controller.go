package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"farm-shop/middleware"
	"farm-shop/models"
	"farm-shop/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	carts    *services.CartService
	checkout *services.CheckoutService
	shipping models.ShippingTable
	currency string
}

func NewCartController(carts *services.CartService, checkout *services.CheckoutService, shipping models.ShippingTable, currency string) *CartController {
	return &CartController{carts: carts, checkout: checkout, shipping: shipping, currency: currency}
}

// @Summary Get cart
// @Description Session cart with live product data, shipping and totals. Entries for deleted products are dropped.
// @Tags Cart
// @Produce json
// @Success 200 {object} models.Response{data=models.CartView}
// @Router /cart [get]
func (ctrl *CartController) Detail(c *gin.Context) {
	view, err := ctrl.carts.View(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart retrieved", "data": view})
}

// @Summary Add to cart
// @Description Adds quantity (default 1) of a product, snapshotting its current price
// @Tags Cart
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param product_id path int true "Product ID"
// @Param request body models.AddToCartRequest false "Quantity"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/add/{product_id} [post]
func (ctrl *CartController) Add(c *gin.Context) {
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}

	var req models.AddToCartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBind(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	quantity := 1
	if raw := strings.TrimSpace(req.Quantity.String()); raw != "" {
		q, err := models.ParseQuantity(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		quantity = q
	}

	product, cart, err := ctrl.carts.Add(c.Request.Context(), middleware.SessionID(c), productID, quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("%q added to cart!", product.Name),
		"data": gin.H{
			"cart_count": cart.TotalItemCount(),
			"subtotal":   cart.TotalPrice(),
		},
	})
}

// @Summary Remove from cart
// @Tags Cart
// @Produce json
// @Param product_id path int true "Product ID"
// @Success 200 {object} models.Response
// @Router /cart/remove/{product_id} [post]
func (ctrl *CartController) Remove(c *gin.Context) {
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}
	if err := ctrl.carts.Remove(c.Request.Context(), middleware.SessionID(c), productID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item removed from cart."})
}

// @Summary Update cart quantities
// @Description Form fields quantity_<product_id>; zero or less removes the line. Unparseable fields are reported under rejected.
// @Tags Cart
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Success 200 {object} models.Response{data=models.BulkUpdateResult}
// @Router /cart/update [post]
func (ctrl *CartController) Update(c *gin.Context) {
	fields, err := quantityFields(c)
	if err != nil {
		respondBindError(c, err)
		return
	}

	result, err := ctrl.carts.BulkUpdate(c.Request.Context(), middleware.SessionID(c), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart updated!", "data": result})
}

// quantityFields reads quantity_<id> pairs from a form body or a flat JSON
// object of strings or numbers.
func quantityFields(c *gin.Context) (map[string]string, error) {
	fields := map[string]string{}
	if c.ContentType() == gin.MIMEJSON {
		dec := json.NewDecoder(c.Request.Body)
		dec.UseNumber()
		var body map[string]interface{}
		if err := dec.Decode(&body); err != nil {
			return nil, err
		}
		for k, v := range body {
			switch v := v.(type) {
			case json.Number:
				fields[k] = v.String()
			case string:
				fields[k] = v
			default:
				fields[k] = fmt.Sprint(v)
			}
		}
		return fields, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}
	return fields, nil
}

// @Summary Set delivery zone
// @Description Unknown or empty zones clear the selection
// @Tags Cart
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param request body models.SetShippingRequest true "Zone"
// @Success 200 {object} models.Response
// @Router /cart/set-shipping [post]
func (ctrl *CartController) SetShipping(c *gin.Context) {
	var req models.SetShippingRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	selected, err := ctrl.carts.SetShippingZone(c.Request.Context(), middleware.SessionID(c), req.ShippingZone)
	if err != nil {
		respondError(c, err)
		return
	}
	if !selected {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Delivery zone cleared."})
		return
	}

	fee := ctrl.shipping.Fee(req.ShippingZone)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Delivery zone set: %s (+%s %s)", req.ShippingZone, ctrl.currency, fee.String()),
		"data":    models.ShippingZone{Name: req.ShippingZone, Fee: fee},
	})
}

// @Summary Checkout over WhatsApp
// @Description Stores the order, renders the invoice, clears the cart and returns the WhatsApp deep link
// @Tags Cart
// @Produce json
// @Success 201 {object} models.Response{data=models.CheckoutResult}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /cart/create-whatsapp-order [post]
func (ctrl *CartController) CreateWhatsAppOrder(c *gin.Context) {
	result, err := ctrl.checkout.CreateOrder(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Order created", "data": result})
}
