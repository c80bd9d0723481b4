package order

import (
	"time"

	"github.com/BruksfildServices01/trucking-desk/internal/domain/access"
	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Ref(o *models.Order) access.OrderRef {
	return access.OrderRef{SenderID: o.SenderID, DriverID: o.DriverID}
}

// SetStatus moves o to the given status and stamps the milestone timestamp
// when the caller has not already supplied one.
func SetStatus(o *models.Order, to Status, now time.Time) {
	o.Status = string(to)

	switch to {
	case StatusAccepted:
		if o.AcceptedAt == nil {
			o.AcceptedAt = &now
		}
	case StatusDelivered:
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
	}
}
