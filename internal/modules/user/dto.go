package user

// UpdateProfileRequest — оба поля необязательны, но хотя бы одно должно быть
type UpdateProfileRequest struct {
	UserName  *string `json:"userName" binding:"omitempty,min=1,max=100"`
	UserImage *string `json:"userImage" binding:"omitempty,min=1"`
}
