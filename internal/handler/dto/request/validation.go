package request

import (
	"sync"
	"time"

	"room-contention/internal/domain/stay"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the custom tags on gin's validator engine.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		err = v.RegisterValidation("stayrange", validateStayRange)
	})
	return err
}

// validateStayRange checks a check-out date against the sibling field named
// by the tag parameter: both must be dates and check-out strictly later.
func validateStayRange(fl validator.FieldLevel) bool {
	checkOut, err := time.Parse(stay.DateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	sibling := fl.Parent().FieldByName(fl.Param())
	if !sibling.IsValid() {
		return false
	}
	checkIn, err := time.Parse(stay.DateLayout, sibling.String())
	if err != nil {
		return false
	}
	return checkIn.Before(checkOut)
}
