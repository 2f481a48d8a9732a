package comment

type CreateCommentRequest struct {
	CommentText string `json:"commentText" binding:"required,max=2000"`
}
