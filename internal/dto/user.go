package dto

type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
}

type AvatarResponse struct {
	AvatarURL string `json:"avatarUrl"`
}
