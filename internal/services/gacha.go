package services

import (
	crand "crypto/rand"
	"encoding/binary"
	mrand "math/rand"

	"github.com/mroth/weightedrand/v2"
)

type ServiceGacha[T any] struct {
	chooser *weightedrand.Chooser[T, int]
	rng     *mrand.Rand
}

// NewServiceGacha builds a chooser with its own crypto-seeded source so
// draws across calls are not correlated.
func NewServiceGacha[T any](choices []weightedrand.Choice[T, int]) (*ServiceGacha[T], error) {
	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return nil, err
	}

	var seed [8]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return nil, err
	}
	rng := mrand.New(mrand.NewSource(int64(binary.LittleEndian.Uint64(seed[:]))))

	return &ServiceGacha[T]{chooser, rng}, nil
}

func (service *ServiceGacha[T]) Pick() T {
	return service.chooser.PickSource(service.rng)
}
