package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"samarithanna-api/internal/service"
)

type ProductController struct {
	Products *service.ProductService
}

func NewProductController(products *service.ProductService) *ProductController {
	return &ProductController{Products: products}
}

// GET /api/products
func (ctl *ProductController) List(c *gin.Context) {
	products, err := ctl.Products.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GET /api/products/slug/:slug
func (ctl *ProductController) GetBySlug(c *gin.Context) {
	product, err := ctl.Products.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
