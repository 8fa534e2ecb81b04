package util

import (
	"time"

	"github.com/google/uuid"
)

type UUIDGenerator struct{}

func (g UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// 時刻は全部UTCで扱う
type RealClock struct{}

func (c RealClock) Now() time.Time {
	return time.Now().UTC()
}
