package lesson

// ReportRequest — причина должна быть одной из фиксированного списка
type ReportRequest struct {
	Reason string `json:"reason" binding:"required"`
}
