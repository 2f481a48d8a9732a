package domain

type Comment struct {
	ID          string    `json:"_id,omitempty"`
	LessonID    string    `json:"lessonId" validate:"required"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName,omitempty"`
	UserImage   string    `json:"userImage,omitempty"`
	CommentText string    `json:"commentText" validate:"required,max=2000"`
	CreatedAt   Timestamp `json:"createdAt"`
	// Pending marks an optimistic entry that the backend has not confirmed yet.
	Pending bool `json:"pending,omitempty"`
}
