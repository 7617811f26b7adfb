package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"carpool/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationRiderJoined    NotificationType = "RIDER_JOINED"
	NotificationRiderLeft      NotificationType = "RIDER_LEFT"
	NotificationOfferFull      NotificationType = "OFFER_FULL"
	NotificationOfferCancelled NotificationType = "OFFER_CANCELLED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// In a real system, this would have:
	// - Push notification client (FCM, APNS)
	// - SMS client (Twilio)
	// - Email client (SendGrid)
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyRiderJoined tells the driver a rider took a seat, and that the
// offer filled up if it did.
func (s *NotificationService) NotifyRiderJoined(ctx context.Context, offer *domain.CarpoolOffer, riderID string) error {
	notification := Notification{
		Type:        NotificationRiderJoined,
		RecipientID: offer.DriverID,
		Title:       "Rider Joined",
		Message:     fmt.Sprintf("A rider joined your %s → %s ride (%d/%d seats taken)", offer.Origin, offer.Destination, len(offer.Passengers), offer.SeatsAvailable),
		Data: map[string]interface{}{
			"offer_id": offer.ID,
			"rider_id": riderID,
			"seats":    len(offer.Passengers),
		},
		CreatedAt: time.Now(),
	}
	if err := s.send(ctx, notification); err != nil {
		return err
	}

	if offer.Status == domain.OfferStatusFull {
		full := Notification{
			Type:        NotificationOfferFull,
			RecipientID: offer.DriverID,
			Title:       "Offer Full",
			Message:     fmt.Sprintf("Your %s → %s ride is now full", offer.Origin, offer.Destination),
			Data:        map[string]interface{}{"offer_id": offer.ID},
			CreatedAt:   time.Now(),
		}
		return s.send(ctx, full)
	}
	return nil
}

// NotifyRiderLeft tells the driver a rider gave up their seat.
func (s *NotificationService) NotifyRiderLeft(ctx context.Context, offer *domain.CarpoolOffer, riderID string) error {
	notification := Notification{
		Type:        NotificationRiderLeft,
		RecipientID: offer.DriverID,
		Title:       "Rider Left",
		Message:     fmt.Sprintf("A rider left your %s → %s ride (%d/%d seats taken)", offer.Origin, offer.Destination, len(offer.Passengers), offer.SeatsAvailable),
		Data: map[string]interface{}{
			"offer_id": offer.ID,
			"rider_id": riderID,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyOfferCancelled tells every confirmed passenger the ride is off.
func (s *NotificationService) NotifyOfferCancelled(ctx context.Context, offer *domain.CarpoolOffer) error {
	for _, riderID := range offer.Passengers {
		notification := Notification{
			Type:        NotificationOfferCancelled,
			RecipientID: riderID,
			Title:       "Ride Cancelled",
			Message:     fmt.Sprintf("The driver cancelled the %s → %s ride", offer.Origin, offer.Destination),
			Data:        map[string]interface{}{"offer_id": offer.ID},
			CreatedAt:   time.Now(),
		}
		if err := s.send(ctx, notification); err != nil {
			return err
		}
	}
	return nil
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	// In a real implementation, this would store the notification and
	// push it via FCM/APNS, SMS or email.
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)

	return nil
}
