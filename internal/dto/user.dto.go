package dto

import (
	"time"

	"github.com/BruksfildServices01/trucking-desk/internal/models"
)

type RegisterRequest struct {
	PhoneNumber     string `json:"phone_number" binding:"required,phone"`
	Email           string `json:"email" binding:"omitempty,email,max=254"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
	Role            string `json:"role" binding:"omitempty,role"`
	ReferralCode    string `json:"referral_code" binding:"omitempty,max=10"`
}

type LoginRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type VerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

// UpdateProfileRequest is what a user may change about themselves.
type UpdateProfileRequest struct {
	Email           *string           `json:"email" binding:"omitempty,email,max=254"`
	PhoneNumber     *string           `json:"phone_number" binding:"omitempty,phone"`
	DriverLicense   *string           `json:"driver_license" binding:"omitempty,max=50"`
	VehicleType     *string           `json:"vehicle_type" binding:"omitempty,max=100"`
	VehicleCapacity Optional[float64] `json:"vehicle_capacity"`
}

// AdminUpdateUserRequest adds the fields only administrators may write.
type AdminUpdateUserRequest struct {
	UpdateProfileRequest
	Role                 *string `json:"role" binding:"omitempty,role"`
	IsSubscriptionActive *bool   `json:"is_subscription_active"`
	IsActive             *bool   `json:"is_active"`
}

type AdminCreateUserRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required,phone"`
	Email       string `json:"email" binding:"omitempty,email,max=254"`
	Password    string `json:"password" binding:"required"`
	Role        string `json:"role" binding:"omitempty,role"`
}

type UserResponse struct {
	ID                   uint      `json:"id"`
	Username             string    `json:"username"`
	Email                string    `json:"email"`
	Role                 string    `json:"role"`
	PhoneNumber          string    `json:"phone_number"`
	IsSubscriptionActive bool      `json:"is_subscription_active"`
	ReferralCode         *string   `json:"referral_code"`
	DateJoined           time.Time `json:"date_joined"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:                   u.ID,
		Username:             u.Username,
		Email:                u.Email,
		Role:                 u.Role,
		PhoneNumber:          u.PhoneNumber,
		IsSubscriptionActive: u.IsSubscriptionActive,
		ReferralCode:         u.ReferralCode,
		DateJoined:           u.CreatedAt,
	}
}

func NewUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

// ProfileResponse is the self view, which also carries driver details.
type ProfileResponse struct {
	UserResponse
	DriverLicense   string   `json:"driver_license"`
	VehicleType     string   `json:"vehicle_type"`
	VehicleCapacity *float64 `json:"vehicle_capacity"`
	ReferredBy      *uint    `json:"referred_by"`
}

func NewProfileResponse(u *models.User) ProfileResponse {
	return ProfileResponse{
		UserResponse:    NewUserResponse(u),
		DriverLicense:   u.DriverLicense,
		VehicleType:     u.VehicleType,
		VehicleCapacity: u.VehicleCapacity,
		ReferredBy:      u.ReferredByID,
	}
}

type AuthResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    UserResponse `json:"user"`
}
