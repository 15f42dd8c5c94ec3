package ident

import (
	"fmt"
	"math/rand"
	"time"
)

// Business number prefixes
const (
	ProformaPrefix = "PRO"
	ContractPrefix = "CONT"
)

// ProformaNumber returns a new human-readable proforma number.
// Format: PRO-<epoch millis>-<0..999>. Uniqueness is probabilistic; the
// unique index on the column is the only backstop against a collision.
func ProformaNumber() string {
	return number(ProformaPrefix)
}

// ContractNumber returns a new human-readable contract number.
func ContractNumber() string {
	return number(ContractPrefix)
}

func number(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixMilli(), rand.Intn(1000))
}
