package models

// LoanState is the loan status of a LoanItem.
type LoanState string

const (
	StateAvailable LoanState = "available"
	StateOnLoan    LoanState = "on_loan"
)

// LoanItem is a catalog entry that can be lent to one holder at a time.
type LoanItem struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Author *string `json:"author"`
	HeldBy *string `json:"held_by"`
}

// State derives the loan status from HeldBy.
func (l LoanItem) State() LoanState {
	if l.HeldBy != nil {
		return StateOnLoan
	}
	return StateAvailable
}

// NewLoanItem carries the caller-supplied fields of an item to add.
type NewLoanItem struct {
	Title  string  `json:"title"`
	Author *string `json:"author"`
}
