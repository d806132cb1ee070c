package httptransport

type SubmitApplicationRequest struct {
	LoanType   string `json:"loan_type"`
	LoanAmount string `json:"loan_amount"`
	TermMonths int    `json:"term_months"`
	Currency   string `json:"currency"`
}

type ApplicationDTO struct {
	ApplicationID string `json:"application_id"`
	BorrowerID    string `json:"borrower_id"`
	LoanType      string `json:"loan_type"`
	LoanAmount    string `json:"loan_amount"`
	TermMonths    int    `json:"term_months"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	Version       int64  `json:"version"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type SubmitApplicationResponse struct {
	Item ApplicationDTO `json:"item"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
}

type ChangeStatusResponse struct {
	Item      ApplicationDTO `json:"item"`
	OldStatus string         `json:"old_status"`
}

type GetApplicationResponse struct {
	Item ApplicationDTO `json:"item"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
