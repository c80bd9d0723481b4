package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/trucking-desk/internal/httperr"
)

// fieldCodes are business codes that describe one bad request field.
var fieldCodes = map[string][2]string{
	"departure_point_not_found":   {"departure_point", "Invalid pk - object does not exist."},
	"destination_point_not_found": {"destination_point", "Invalid pk - object does not exist."},
	"cargo_type_not_found":        {"cargo_type", "Invalid pk - object does not exist."},
	"driver_not_found":            {"driver", "Invalid pk - object does not exist."},
	"driver_invalid_role":         {"driver", "User is not a driver."},
	"plan_not_found":              {"plan_id", "Invalid pk - object does not exist."},
	"user_not_driver":             {"user_id", "Subscriptions are for drivers only."},
	"invalid_status":              {"status", "Not a valid status."},
	"invalid_weight":              {"weight", "Ensure this value is greater than 0."},
}

func init() {
	for _, f := range []string{"length", "width", "height"} {
		fieldCodes["invalid_"+f] = [2]string{f, "Ensure this value is greater than 0."}
	}
	for _, f := range []string{"distance_km", "estimated_time_hours", "total_cost"} {
		fieldCodes["invalid_"+f] = [2]string{f, "Ensure this value is greater than or equal to 0."}
	}
}

var statusByCode = map[string]int{
	"forbidden_role":            http.StatusForbidden,
	"status_change_forbidden":   http.StatusForbidden,
	"driver_change_forbidden":   http.StatusForbidden,
	"invalid_status_transition": http.StatusBadRequest,
	"invalid_credentials":       http.StatusUnauthorized,
	"token_not_valid":           http.StatusUnauthorized,
	"token_blacklisted":         http.StatusUnauthorized,
	"already_reviewed":          http.StatusBadRequest,
	"order_has_no_driver":       http.StatusBadRequest,
	"invalid_page":              http.StatusNotFound,
}

var messageByCode = map[string]string{
	"forbidden_role":            "Your role cannot perform this action.",
	"status_change_forbidden":   "You cannot move this order to that status.",
	"driver_change_forbidden":   "Only administrators can assign drivers.",
	"invalid_status_transition": "This status change is not allowed.",
	"invalid_credentials":       "Invalid phone number or password.",
	"token_not_valid":           "Token is invalid or expired.",
	"token_blacklisted":         "Token is blacklisted.",
	"already_reviewed":          "You have already reviewed this order.",
	"order_has_no_driver":       "The order has no driver to review.",
	"invalid_page":              "Invalid page.",
}

// writeError maps use case errors to responses. Unknown errors are logged
// and reported as 500.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	var fe httperr.FieldErrors
	if errors.As(err, &fe) {
		httperr.Fields(c, fe)
		return
	}

	code, ok := httperr.Code(err)
	if !ok {
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		httperr.Internal(c, "internal_error", "Internal server error.")
		return
	}

	if f, ok := fieldCodes[code]; ok {
		httperr.Field(c, f[0], f[1])
		return
	}
	if status, ok := statusByCode[code]; ok {
		httperr.Write(c, status, code, messageByCode[code])
		return
	}
	if strings.HasSuffix(code, "_not_found") {
		httperr.NotFound(c, code, "Not found.")
		return
	}

	httperr.BadRequest(c, code, "")
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		httperr.NotFound(c, "not_found", "Not found.")
		return 0, false
	}
	return uint(id), true
}

// queryID parses an optional numeric filter. ok is false when the value
// was present but malformed; a 400 has already been written.
func queryID(c *gin.Context, name string) (*uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.Field(c, name, "Enter a number.")
		return nil, false
	}
	v := uint(id)
	return &v, true
}

func queryBool(c *gin.Context, name string) (*bool, bool) {
	raw := strings.ToLower(strings.TrimSpace(c.Query(name)))
	switch raw {
	case "":
		return nil, true
	case "true", "1":
		v := true
		return &v, true
	case "false", "0":
		v := false
		return &v, true
	}
	httperr.Field(c, name, "Must be a valid boolean.")
	return nil, false
}
