package pos

import "errors"

var (
	// ErrUnauthorized means the server rejected the credential. The session
	// tears itself down when it sees this.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRemote wraps any server failure that is not an auth rejection.
	ErrRemote = errors.New("remote error")

	ErrOutOfStock        = errors.New("product out of stock")
	ErrInsufficientStock = errors.New("not enough stock for another unit")

	ErrNoCustomerSelected = errors.New("no customer selected")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidAmount      = errors.New("payment amount must be positive")
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Feedback is what the terminal shows the operator for a failed action.
type Feedback struct {
	Message  string
	Severity Severity
}

// FeedbackFromError maps an operation error to operator-facing feedback.
// Validation slips are warnings the operator can fix; remote and auth
// failures are errors.
func FeedbackFromError(err error) Feedback {
	switch {
	case err == nil:
		return Feedback{}
	case errors.Is(err, ErrOutOfStock):
		return Feedback{Message: "Produto sem estoque.", Severity: SeverityWarning}
	case errors.Is(err, ErrInsufficientStock):
		return Feedback{Message: "Estoque insuficiente para mais uma unidade.", Severity: SeverityWarning}
	case errors.Is(err, ErrNoCustomerSelected):
		return Feedback{Message: "Selecione um cliente antes de finalizar.", Severity: SeverityWarning}
	case errors.Is(err, ErrEmptyCart):
		return Feedback{Message: "O carrinho está vazio.", Severity: SeverityWarning}
	case errors.Is(err, ErrInvalidAmount):
		return Feedback{Message: "Informe um valor de pagamento positivo.", Severity: SeverityWarning}
	case errors.Is(err, ErrUnauthorized):
		return Feedback{Message: "Sessão expirada. Entre novamente.", Severity: SeverityError}
	default:
		return Feedback{Message: "Falha ao comunicar com o servidor.", Severity: SeverityError}
	}
}
