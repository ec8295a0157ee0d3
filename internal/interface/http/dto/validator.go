package dto

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/xiebiao/litshop/internal/domain/book"
)

var registerOnce sync.Once

// RegisterValidators 在gin的validator引擎上注册自定义校验
// - book_isbn: ISBN-10/ISBN-13,允许连字符,只检查位数
// - book_condition: new | used
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("gin validator引擎类型不是*validator.Validate")
			return
		}
		if err = v.RegisterValidation("book_isbn", validateISBN); err != nil {
			return
		}
		err = v.RegisterValidation("book_condition", validateCondition)
	})
	return err
}

func validateISBN(fl validator.FieldLevel) bool {
	return book.IsValidISBN(fl.Field().String())
}

func validateCondition(fl validator.FieldLevel) bool {
	return book.Condition(fl.Field().String()).Valid()
}
