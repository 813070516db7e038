package enum

// Exchange identifies the venue a tick originated from.
type Exchange uint8

const (
	ExchangeUnknown Exchange = iota
	ExchangeNYSE
	ExchangeNASDAQ
	ExchangeCME
)

func (e Exchange) IsAvailable() bool {
	return e > ExchangeUnknown && e <= ExchangeCME
}

func (e Exchange) String() string {
	switch e {
	case ExchangeNYSE:
		return "NYSE"
	case ExchangeNASDAQ:
		return "NASDAQ"
	case ExchangeCME:
		return "CME"
	default:
		return "UNKNOWN"
	}
}
