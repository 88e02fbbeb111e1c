package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"samarithanna-api/internal/repository"
	"samarithanna-api/internal/service"
)

// fail traduce errores de negocio a HTTP. Cualquier cosa no mapeada sale
// como 500 genérico; el detalle se queda en el log, no en la respuesta.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrNotAdmitted),
		errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrBadQuantity),
		errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}
