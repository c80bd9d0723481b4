package order

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

// Notifier stores in-app notifications. Delivery is not this package's job.
type Notifier interface {
	Notify(ctx context.Context, n *models.Notification) error
}

func statusNotification(o *models.Order, to string) *models.Notification {
	id := o.ID

	switch to {
	case "ACCEPTED":
		return &models.Notification{
			UserID:  o.SenderID,
			Type:    models.NotificationOrderAccepted,
			Title:   "Order accepted",
			Message: fmt.Sprintf("Order #%d was accepted by a driver.", o.ID),
			OrderID: &id,
		}
	case "DELIVERED":
		return &models.Notification{
			UserID:  o.SenderID,
			Type:    models.NotificationOrderDelivered,
			Title:   "Order delivered",
			Message: fmt.Sprintf("Order #%d was delivered.", o.ID),
			OrderID: &id,
		}
	}
	return nil
}

func assignmentNotification(o *models.Order) *models.Notification {
	id := o.ID
	return &models.Notification{
		UserID:  *o.DriverID,
		Type:    models.NotificationNewOrder,
		Title:   "New order",
		Message: fmt.Sprintf("Order #%d from %s to %s was assigned to you.", o.ID, o.DeparturePoint.CityName, o.DestinationPoint.CityName),
		OrderID: &id,
	}
}
