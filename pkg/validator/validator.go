package validator

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"web3-core/pkg/bip39"
	"web3-core/pkg/errno"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// instance 懒加载校验器并注册自定义规则
func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("mnemonic_language", func(fl validator.FieldLevel) bool {
			lang := fl.Field().String()
			return lang == "" || bip39.SupportedLanguage(bip39.Language(lang))
		})
	})
	return validate
}

// Struct 校验结构体的 validate 标签，失败时返回 errno.ErrInvalidParameter
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return errno.ErrInvalidParameter.WithMessage("%s", GetErrorMsg(verrs))
	}
	return errno.ErrInvalidParameter.Wrap(err)
}

// GetErrorMsg 将校验错误转换为可读信息
func GetErrorMsg(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %v", fe.Field(), fe.Param(), fe.Value()))
		case "gte", "min":
			msgs = append(msgs, fmt.Sprintf("%s must be >= %s, got %v", fe.Field(), fe.Param(), fe.Value()))
		case "lt", "max":
			msgs = append(msgs, fmt.Sprintf("%s must be < %s, got %v", fe.Field(), fe.Param(), fe.Value()))
		case "mnemonic_language":
			msgs = append(msgs, fmt.Sprintf("%s %v is not a supported wordlist", fe.Field(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
