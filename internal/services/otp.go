package services

import (
	"fmt"
	"math/rand"
)

// OTPGenerator produces the short numeric codes used for account activation.
type OTPGenerator interface {
	Generate() string
}

type otpGenerator struct {
	rnd *rand.Rand
}

func NewOTPGenerator(seed int64) OTPGenerator {
	return &otpGenerator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate returns a 6-digit code, zero-padded.
func (g *otpGenerator) Generate() string {
	return fmt.Sprintf("%06d", g.rnd.Intn(1000000))
}
