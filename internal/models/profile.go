package models

type Profile struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	Name      string `json:"name"`
	Country   string `json:"country,omitempty"`
	City      string `json:"city,omitempty"`
	AvatarURL string `json:"avatar,omitempty"`
}
