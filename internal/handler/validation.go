package handler

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"contact_keeper/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldMessages maps a JSON field name to the message reported when any of its rules fail
type FieldMessages map[string]string

var (
	registerMessages = FieldMessages{
		"name":     "Name is required",
		"email":    "Please include a valid email",
		"password": "Please enter a password with 6 or more charaters",
	}
	loginMessages = FieldMessages{
		"email":    "Please use a valid email address",
		"password": "Please enter a password",
	}
	contactMessages = FieldMessages{
		"name": service.MsgNameRequired,
		"type": service.MsgInvalidType,
	}
)

// ValidationItem is one entry of the {"error": [...]} response
type ValidationItem struct {
	Msg      string `json:"msg"`
	Param    string `json:"param"`
	Location string `json:"location"`
	Value    any    `json:"value"`
}

var registerTagNameOnce sync.Once

// useJSONFieldNames makes validator report fields by their json tag
func useJSONFieldNames() {
	registerTagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSON decodes and validates the request body into obj.
// On failure it writes the 400 response and returns false. An empty body is validated as {}.
func bindJSON(c *gin.Context, obj any, messages FieldMessages) bool {
	if err := decodeJSON(c, obj); err != nil {
		writeBindError(c, err, messages)
		return false
	}
	return true
}

func decodeJSON(c *gin.Context, obj any) error {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(obj)
	}
	return err
}

// writeBindError answers 400 with the validation array, or with a plain message when the body did not parse
func writeBindError(c *gin.Context, err error, messages FieldMessages) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": translateValidation(verrs, messages)})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
}

func translateValidation(verrs validator.ValidationErrors, messages FieldMessages) []ValidationItem {
	items := make([]ValidationItem, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = "Invalid value"
		}
		items = append(items, ValidationItem{
			Msg:      msg,
			Param:    fe.Field(),
			Location: "body",
			Value:    derefValue(fe.Value()),
		})
	}
	return items
}

func serviceValidationItems(verr *service.ValidationError) []ValidationItem {
	items := make([]ValidationItem, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		items = append(items, ValidationItem{
			Msg:      fe.Message,
			Param:    fe.Field,
			Location: "body",
			Value:    fe.Value,
		})
	}
	return items
}

func derefValue(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		return rv.Elem().Interface()
	}
	return v
}
