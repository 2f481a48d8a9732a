package domain

// Favorite связывает пользователя с уроком.
// Поля урока денормализованы, чтобы рейтинг "самых сохранённых" строился без
// дополнительных запросов.
type Favorite struct {
	ID                string    `json:"_id,omitempty"`
	UserID            string    `json:"userId" validate:"required"`
	LessonID          string    `json:"lessonId" validate:"required"`
	LessonTitle       string    `json:"lessonTitle,omitempty"`
	LessonCategory    string    `json:"lessonCategory,omitempty"`
	LessonTone        string    `json:"lessonTone,omitempty"`
	LessonImage       string    `json:"lessonImage,omitempty"`
	LessonDescription string    `json:"lessonDescription,omitempty"`
	CreatedAt         Timestamp `json:"createdAt"`
}

// SavedLesson is one row of the most-saved ranking.
type SavedLesson struct {
	LessonID   string `json:"_id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	Tone       string `json:"tone"`
	Image      string `json:"userImage"`
	SavedCount int    `json:"savedCount"`
}
