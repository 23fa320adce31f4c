package payment

const (
	MethodBankTransfer = "bank_transfer"
	MethodEWallet      = "e_wallet"
	MethodQRIS         = "qris"
	MethodCreditCard   = "credit_card"
)

const BankTransferFee int64 = 4000

type Option struct {
	Code string `json:"code" example:"bca"`
	Name string `json:"name" example:"BCA Virtual Account"`
}

type Method struct {
	Code     string   `json:"code" example:"bank_transfer"`
	Name     string   `json:"name" example:"Bank Transfer"`
	AdminFee int64    `json:"admin_fee" example:"4000"`
	Options  []Option `json:"options,omitempty"`
}

var methods = []Method{
	{
		Code:     MethodBankTransfer,
		Name:     "Bank Transfer",
		AdminFee: BankTransferFee,
		Options: []Option{
			{Code: "bca", Name: "BCA Virtual Account"},
			{Code: "bni", Name: "BNI Virtual Account"},
			{Code: "bri", Name: "BRI Virtual Account"},
			{Code: "mandiri", Name: "Mandiri Virtual Account"},
		},
	},
	{
		Code: MethodEWallet,
		Name: "E-Wallet",
		Options: []Option{
			{Code: "gopay", Name: "GoPay"},
			{Code: "ovo", Name: "OVO"},
			{Code: "dana", Name: "DANA"},
			{Code: "shopeepay", Name: "ShopeePay"},
		},
	},
	{Code: MethodQRIS, Name: "QRIS"},
	{Code: MethodCreditCard, Name: "Credit Card"},
}

func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

func MethodByCode(code string) (Method, bool) {
	for _, m := range methods {
		if m.Code == code {
			return m, true
		}
	}
	return Method{}, false
}

// RequiresDetail reports whether the method needs a bank or wallet choice.
func (m Method) RequiresDetail() bool {
	return len(m.Options) > 0
}

func (m Method) HasOption(code string) bool {
	for _, o := range m.Options {
		if o.Code == code {
			return true
		}
	}
	return false
}
