package user

// AvatarInput is the body of PUT /api/user/avatar.
type AvatarInput struct {
	Avatar string `json:"avatar" validate:"required,max=64"`
}
