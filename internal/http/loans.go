package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-catalog/internal/auth"
	"github.com/mrlokans/library-catalog/internal/database"
	"github.com/mrlokans/library-catalog/internal/entities"
	"github.com/mrlokans/library-catalog/internal/validator"
)

// InstanceStore is the book copy data access used by the controller.
// Implemented by internal/database/instances.Repository.
type InstanceStore interface {
	Create(instance *entities.BookInstance) error
	GetByID(id string) (*entities.BookInstance, error)
	ListOnLoan(page, pageSize int) ([]entities.BookInstance, int64, error)
	ListOnLoanByBorrower(borrowerID uint, page, pageSize int) ([]entities.BookInstance, int64, error)
	UpdateDueBack(id string, dueBack time.Time) error
	MarkReturned(id string) error
	LoanOut(id string, borrowerID uint, dueBack time.Time) error
}

// LoansOptions carries the renewal window settings for the loans controller.
type LoansOptions struct {
	PageSize     int
	DefaultWeeks int
	MaxWeeks     int
}

// LoansController serves the loan listings and the copy lifecycle endpoints.
type LoansController struct {
	store InstanceStore
	opts  LoansOptions
	now   func() time.Time
}

// NewLoansController creates a new loans controller.
func NewLoansController(store InstanceStore, opts LoansOptions) *LoansController {
	return &LoansController{store: store, opts: opts, now: time.Now}
}

// loanView is the payload shape for a copy on loan.
type loanView struct {
	ID       string  `json:"id"`
	BookID   uint    `json:"book_id"`
	Title    string  `json:"title"`
	BookURL  string  `json:"book_url"`
	Imprint  string  `json:"imprint"`
	Status   string  `json:"status"`
	DueBack  *string `json:"due_back"`
	Borrower *string `json:"borrower"`
}

func newLoanView(i entities.BookInstance) loanView {
	view := loanView{
		ID:      i.ID,
		Imprint: i.Imprint,
		Status:  string(i.Status),
		DueBack: formatDate(i.DueBack),
	}
	if i.Book.ID != 0 {
		view.BookID = i.Book.ID
		view.Title = i.Book.Title
		view.BookURL = i.Book.DetailURL()
	}
	if i.Borrower != nil {
		view.Borrower = &i.Borrower.Username
	}
	return view
}

// MyBooks lists the copies the authenticated user currently has on loan,
// soonest due first. An empty page is a normal result for users with no
// loans.
func (lc *LoansController) MyBooks(c *gin.Context) {
	page := parsePageParam(c)
	instances, total, err := lc.store.ListOnLoanByBorrower(auth.GetUserID(c), page, lc.opts.PageSize)
	if err != nil {
		respondInternalError(c, err, "list borrowed copies")
		return
	}

	views := make([]loanView, 0, len(instances))
	for _, i := range instances {
		views = append(views, newLoanView(i))
	}
	c.JSON(http.StatusOK, paginated(views, page, lc.opts.PageSize, total))
}

// AllBorrowed lists every copy on loan across all borrowers, soonest due
// first, with the borrower resolved per row.
func (lc *LoansController) AllBorrowed(c *gin.Context) {
	page := parsePageParam(c)
	instances, total, err := lc.store.ListOnLoan(page, lc.opts.PageSize)
	if err != nil {
		respondInternalError(c, err, "list borrowed copies")
		return
	}

	views := make([]loanView, 0, len(instances))
	for _, i := range instances {
		views = append(views, newLoanView(i))
	}
	c.JSON(http.StatusOK, paginated(views, page, lc.opts.PageSize, total))
}

// RenewPrompt presents the renewal form for a copy with a proposed date. The
// proposal is a business default, recomputed against today on every display.
func (lc *LoansController) RenewPrompt(c *gin.Context) {
	instance, err := lc.store.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "book copy")
			return
		}
		respondInternalError(c, err, "get book copy")
		return
	}

	proposed := ProposedRenewalDate(lc.now(), lc.opts.DefaultWeeks)
	c.JSON(http.StatusOK, gin.H{
		"instance":              newLoanView(*instance),
		"proposed_renewal_date": proposed.Format(DateLayout),
		"form":                  RenewForm{RenewalDate: proposed.Format(DateLayout)},
	})
}

// Renew sets a new due date for a copy. Dates outside the allowed window are
// field errors and write nothing; concurrent renewals are last-write-wins.
func (lc *LoansController) Renew(c *gin.Context) {
	instance, err := lc.store.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "book copy")
			return
		}
		respondInternalError(c, err, "get book copy")
		return
	}

	var form RenewForm
	if err := c.ShouldBind(&form); err != nil {
		respondBadRequest(c, "invalid renewal form")
		return
	}

	v := validator.New()
	date := form.Validate(v, lc.now(), lc.opts.MaxWeeks)
	if !v.Valid() {
		respondValidationError(c, v.Errors)
		return
	}

	if err := lc.store.UpdateDueBack(instance.ID, date); err != nil {
		respondInternalError(c, err, "renew book copy")
		return
	}

	c.Redirect(http.StatusSeeOther, "/borrowed/")
}

// instanceForm carries the submitted fields for copy creation.
type instanceForm struct {
	BookID  uint   `form:"book_id" json:"book_id"`
	Imprint string `form:"imprint" json:"imprint"`
	Status  string `form:"status" json:"status"`
}

// CreateInstance registers a new physical copy of a book.
func (lc *LoansController) CreateInstance(c *gin.Context) {
	var form instanceForm
	if err := c.ShouldBind(&form); err != nil {
		respondBadRequest(c, "invalid copy form")
		return
	}

	status := entities.LoanStatus(form.Status)
	if form.Status == "" {
		status = entities.StatusMaintenance
	}

	v := validator.New()
	v.Check(form.BookID != 0, "book_id", "must be provided")
	v.Check(len(form.Imprint) <= 200, "imprint", "must not exceed 200 characters")
	v.Check(status.Valid(), "status", "must be one of m, o, a, r")
	if !v.Valid() {
		respondValidationError(c, v.Errors)
		return
	}

	instance := &entities.BookInstance{
		BookID:  form.BookID,
		Imprint: form.Imprint,
		Status:  status,
	}
	err := lc.store.Create(instance)
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("/book/%d", instance.BookID))
	case errors.Is(err, database.ErrReferentialViolation):
		v.AddError("book_id", "unknown book")
		respondValidationError(c, v.Errors)
	default:
		respondInternalError(c, err, "create book copy")
	}
}

// Return marks a copy as back on the shelf, clearing its borrower and due
// date.
func (lc *LoansController) Return(c *gin.Context) {
	err := lc.store.MarkReturned(c.Param("id"))
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, "/borrowed/")
	case errors.Is(err, database.ErrNotFound):
		respondNotFound(c, "book copy")
	default:
		respondInternalError(c, err, "return book copy")
	}
}

// loanOutForm carries the submitted fields for loaning a copy out.
type loanOutForm struct {
	BorrowerID uint   `form:"borrower_id" json:"borrower_id"`
	DueBack    string `form:"due_back" json:"due_back"`
}

// LoanOut hands a copy to a borrower until the given due date.
func (lc *LoansController) LoanOut(c *gin.Context) {
	var form loanOutForm
	if err := c.ShouldBind(&form); err != nil {
		respondBadRequest(c, "invalid loan form")
		return
	}

	v := validator.New()
	v.Check(form.BorrowerID != 0, "borrower_id", "must be provided")
	due := parseOptionalDate(v, "due_back", form.DueBack)
	v.Check(form.DueBack != "", "due_back", "must be provided")
	if !v.Valid() {
		respondValidationError(c, v.Errors)
		return
	}

	err := lc.store.LoanOut(c.Param("id"), form.BorrowerID, *due)
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, "/borrowed/")
	case errors.Is(err, database.ErrNotFound):
		respondNotFound(c, "book copy")
	default:
		respondInternalError(c, err, "loan out book copy")
	}
}
