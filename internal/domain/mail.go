package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ShiftAssignedMailData struct {
	FullName  string `json:"fullName"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	TimeRange string `json:"timeRange"`
}

type ShiftCancelledMailData struct {
	FullName  string `json:"fullName"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	TimeRange string `json:"timeRange"`
}
