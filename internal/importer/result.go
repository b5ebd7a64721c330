package importer

import "fmt"

type FailureReason string

const (
	ReasonTermSaveFailed    FailureReason = "term_save_failed"
	ReasonProductSaveFailed FailureReason = "product_save_failed"
	ReasonTechsFailed       FailureReason = "techs_failed"
)

// Failure - запись, которую не удалось обработать. Пакет при этом не прерывается.
type Failure struct {
	RemoteID int
	SKU      string
	Reason   FailureReason
	Err      error
}

func (f Failure) Error() string {
	if f.SKU != "" {
		return fmt.Sprintf("%s (remote id %d, sku %q): %v", f.Reason, f.RemoteID, f.SKU, f.Err)
	}
	return fmt.Sprintf("%s (remote id %d): %v", f.Reason, f.RemoteID, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

type PageResult struct {
	Page int
	// Window - сколько записей фида попало в окно страницы; 0 значит страницы кончились.
	Window   int
	Created  []int
	Skipped  int
	Failures []Failure
}

type StockResult struct {
	Updated  int
	Matched  int
	Drafted  int
	Failures []Failure
}

type TechResult struct {
	Updated  int
	Skipped  int
	Failures []Failure
}
