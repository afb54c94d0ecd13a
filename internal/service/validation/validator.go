// Package validation 表单校验
// 一次遍历收集所有字段错误，返回 Result 而不是抛出第一个错误
package validation

import (
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dumeirei/dorm-admin-backend/internal/common/utils"
	"github.com/dumeirei/dorm-admin-backend/internal/models"
)

// DefaultBuildings 未配置楼栋时使用
var DefaultBuildings = []string{"A", "B", "C", "D"}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

// Result 校验结果
type Result struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

func valid() Result {
	return Result{IsValid: true, Errors: map[string]string{}}
}

func (r *Result) add(field, msg string) {
	if _, exists := r.Errors[field]; exists {
		return
	}
	r.Errors[field] = msg
	r.IsValid = false
}

// Validator 表单校验器
type Validator struct {
	validate  *validator.Validate
	buildings []string
}

// New 创建校验器，buildings 为允许的楼栋
func New(buildings []string) *Validator {
	if len(buildings) == 0 {
		buildings = DefaultBuildings
	}
	v := &Validator{validate: validator.New(validator.WithRequiredStructEnabled()), buildings: buildings}

	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.validate.RegisterValidation("building", func(fl validator.FieldLevel) bool {
		return utils.Contains(v.buildings, fl.Field().String())
	})
	_ = v.validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		n, ok := parseNumber(fl.Field().String())
		return ok && n >= 0
	})
	_ = v.validate.RegisterValidation("positive_money", func(fl validator.FieldLevel) bool {
		// 按分取整后仍需大于 0，与落库金额一致
		if _, ok := parseNumber(fl.Field().String()); !ok {
			return false
		}
		return ParseMoney(fl.Field().String()) > 0
	})
	_ = v.validate.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := models.ParseTime(s)
		return err == nil
	})
	return v
}

// Buildings 允许的楼栋
func (v *Validator) Buildings() []string {
	return v.buildings
}

func parseNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// ParseMoney 解析已通过校验的金额字段，空串为 0
func ParseMoney(s string) float64 {
	n, _ := parseNumber(s)
	return math.Round(n*100) / 100
}

// check 执行结构体校验并翻译全部字段错误
func (v *Validator) check(form interface{}) Result {
	res := valid()
	err := v.validate.Struct(form)
	if err == nil {
		return res
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.add("form", err.Error())
		return res
	}
	for _, fe := range fieldErrs {
		res.add(fe.Field(), message(fe))
	}
	return res
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "不能为空"
	case "oneof":
		return "必须是以下之一: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "min":
		if fe.Kind() == reflect.Slice {
			return "至少选择 " + fe.Param() + " 项"
		}
		return "不能小于 " + fe.Param()
	case "max":
		return "不能超过 " + fe.Param()
	case "email":
		return "邮箱格式不正确"
	case "phone":
		return "手机号格式不正确"
	case "building":
		return "楼栋不在可选范围内"
	case "money":
		return "必须是不小于 0 的数字"
	case "positive_money":
		return "必须是大于 0 的数字"
	case "date":
		return "日期格式不正确"
	case "url":
		return "链接格式不正确"
	}
	return "格式不正确"
}
