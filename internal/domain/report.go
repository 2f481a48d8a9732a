package domain

import (
	"slices"
	"time"
)

// Причины жалобы, которые принимает бэкенд.
const (
	ReasonInappropriate = "Inappropriate Content"
	ReasonHate          = "Hate Speech or Harassment"
	ReasonMisleading    = "Misleading or False Information"
	ReasonSpam          = "Spam or Promotional Content"
	ReasonSensitive     = "Sensitive or Disturbing Content"
	ReasonOther         = "Other"
)

var reportReasons = []string{
	ReasonInappropriate,
	ReasonHate,
	ReasonMisleading,
	ReasonSpam,
	ReasonSensitive,
	ReasonOther,
}

// ReportReasons returns the fixed list of report reasons in display order.
func ReportReasons() []string {
	return slices.Clone(reportReasons)
}

func IsReportReason(r string) bool {
	return slices.Contains(reportReasons, r)
}

type LessonReport struct {
	LessonID         string    `json:"lessonId" validate:"required"`
	LessonTitle      string    `json:"lessonTitle"`
	ReporterUserID   string    `json:"reporterUserId"`
	ReporterEmail    string    `json:"reporterEmail" validate:"required,email"`
	ReporterUserName string    `json:"reporterUserName"`
	Reason           []string  `json:"reason" validate:"min=1,dive,required"`
	Timestamp        time.Time `json:"timestamp"`
}
