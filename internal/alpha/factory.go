package alpha

import "github.com/yanun0323/errors"

// Strategy type names accepted by the factory.
const (
	TypeMeanReversion = "MeanReversion"
	TypeMomentum      = "Momentum"
)

// NewStrategy builds a strategy by type name. param is the window or
// lookback; zero selects the type default.
func NewStrategy(alphaType, alphaID string, param int) (Strategy, error) {
	switch alphaType {
	case TypeMeanReversion:
		return NewMeanReversion(alphaID, param), nil
	case TypeMomentum:
		return NewMomentum(alphaID, param), nil
	default:
		return nil, errors.Errorf("unknown alpha type: %s", alphaType)
	}
}
