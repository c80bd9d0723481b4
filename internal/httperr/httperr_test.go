package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestBusinessError(t *testing.T) {
	err := fmt.Errorf("update: %w", ErrBusiness("order_not_found"))

	assert.True(t, IsBusiness(err, "order_not_found"))
	assert.False(t, IsBusiness(err, "invalid_status"))
	assert.False(t, IsBusiness(errors.New("order_not_found"), "order_not_found"))

	code, ok := Code(err)
	assert.True(t, ok)
	assert.Equal(t, "order_not_found", code)
}

func TestWrite(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Write(c, http.StatusForbidden, "forbidden_role", "only senders can create orders")

	assert.Equal(t, http.StatusForbidden, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "forbidden_role", body["error"])
	assert.Equal(t, "only senders can create orders", body["message"])
}

func TestValidation_FieldMap(t *testing.T) {
	type payload struct {
		Weight float64 `validate:"gt=0"`
		Phone  string  `validate:"required"`
	}

	err := validator.New().Struct(payload{})
	require.Error(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Validation(c, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body ValidationError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Code)
	assert.Equal(t, []string{"This field is required."}, body.Fields["Phone"])
	assert.Equal(t, []string{"Ensure this value is greater than 0."}, body.Fields["Weight"])
}

func TestValidation_NonValidatorError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Validation(c, errors.New("unexpected EOF"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"invalid_body"`)
}
