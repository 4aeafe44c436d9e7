package server

import (
	"sync"

	"pears2pears/internal/game"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("nickname", func(fl validator.FieldLevel) bool {
			_, err := game.ValidateNickname(fl.Field().String())
			return err == nil
		})
		_ = engine.RegisterValidation("code", func(fl validator.FieldLevel) bool {
			return game.IsValidCode(fl.Field().String())
		})
	})
}
