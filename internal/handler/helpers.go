package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report JSON field paths (orderDetails[0].gift) instead of Go names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// decodeAndValidate unmarshals body into req and runs the validator tags.
// Every failure comes back as an *apierror.ValidationError.
func decodeAndValidate(body []byte, req interface{}) error {
	if err := json.Unmarshal(body, req); err != nil {
		return apierror.Invalid("body", "invalid JSON")
	}
	if err := validate.Struct(req); err != nil {
		return validationError("", err)
	}
	return nil
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, apierror.Invalid("body", "invalid JSON"))
		return false
	}
	if err := validate.Struct(req); err != nil {
		respondError(c, validationError("", err))
		return false
	}
	return true
}

// bindRows binds a JSON array and validates each element.
func bindRows[T any](c *gin.Context) ([]T, bool) {
	var rows []T
	if err := c.ShouldBindJSON(&rows); err != nil {
		respondError(c, apierror.Invalid("body", "expected a JSON array"))
		return nil, false
	}
	for i := range rows {
		if err := validate.Struct(&rows[i]); err != nil {
			respondError(c, validationError(fmt.Sprintf("[%d]", i), err))
			return nil, false
		}
	}
	return rows, true
}

// validationError flattens validator output into "path: tag" messages.
func validationError(prefix string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierror.Invalid("body", err.Error())
	}
	fields := make(map[string]string, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		path := fieldPath(fe.Namespace())
		if prefix != "" {
			path = prefix + "." + path
		}
		fields[path] = fe.Tag()
		msgs = append(msgs, path+": "+fe.Tag())
	}
	sort.Strings(msgs)
	ve := apierror.NewValidation(fields)
	ve.Detail = strings.Join(msgs, "; ")
	return ve
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// respondError writes the status and body apierror.Resolve maps err to.
// Server errors are also attached to the context for ErrorHandler to log.
func respondError(c *gin.Context, err error) {
	status, body := apierror.Resolve(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, body)
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, apierror.Invalid(name, "must be a positive integer"))
		return 0, false
	}
	return id, true
}

// bindQuery binds query parameters into filter.
func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		respondError(c, apierror.Invalid("query", "invalid query parameters"))
		return false
	}
	return true
}
