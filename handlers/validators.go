package handlers

import (
	"bitbucket.org/mmdatafocus/store_backend/models"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// custom binding validations, registered once at startup
func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("purchase_status", func(fl validator.FieldLevel) bool {
		return models.PurchaseStatus(fl.Field().String()).Valid()
	})
}
