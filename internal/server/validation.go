package server

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var clockLayouts = []string{"15:04:05", "15:04"}

// timeOfDay validates fields tagged binding:"timeofday", the wall-clock
// format events store their start and end times in.
func timeOfDay(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, layout := range clockLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

// RegisterValidators installs custom binding validators on gin's
// validator engine. Must run before the router serves requests.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("timeofday", timeOfDay)
	}
}
