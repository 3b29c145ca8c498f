package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type ResetPasswordMailData struct {
	DisplayName string `json:"displayName"`
	OTP         string `json:"otp"`
	Expiration  int    `json:"expiration"`
}

type ChangeEmailMailData struct {
	DisplayName string `json:"displayName"`
	OTP         string `json:"otp"`
	Expiration  int    `json:"expiration"`
}
