package enums

import "fmt"

// ActorModel discriminates which principal model an actor reference points at.
type ActorModel string

const (
	ActorModelCustomer ActorModel = "customer"
	ActorModelUser     ActorModel = "user"
)

var validActorModels = []ActorModel{
	ActorModelCustomer,
	ActorModelUser,
}

// String implements fmt.Stringer.
func (a ActorModel) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActorModel.
func (a ActorModel) IsValid() bool {
	for _, candidate := range validActorModels {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActorModel converts raw input into an ActorModel.
func ParseActorModel(value string) (ActorModel, error) {
	for _, candidate := range validActorModels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid actor model %q", value)
}
