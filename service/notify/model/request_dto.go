package model

type RequestUpdateFcmTokenDTO struct {
	FcmToken string `json:"fcm_token" binding:"required"` // FCM registration token of the device
	UID      string `json:"uid"`                           // defaults to the signed-in member
	Role     string `json:"role"`                          // "admin" or "cashier", defaults to the member's role
}
