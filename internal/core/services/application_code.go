package services

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxApplicationCodeAttempts bounds how often a colliding application code is redrawn on submit.
const maxApplicationCodeAttempts = 3

const (
	applicationCodeLen   = 6
	applicationCodeSpace = 36 * 36 * 36 * 36 * 36 * 36
)

// NewApplicationCode draws a human readable code of the form ADM-<yy>-<6 base36 characters>.
func NewApplicationCode(now time.Time) string {
	u := uuid.New()
	n := binary.BigEndian.Uint64(u[:8]) % applicationCodeSpace
	suffix := strings.ToUpper(strconv.FormatUint(n, 36))
	if len(suffix) < applicationCodeLen {
		suffix = strings.Repeat("0", applicationCodeLen-len(suffix)) + suffix
	}
	return fmt.Sprintf("ADM-%02d-%s", now.Year()%100, suffix)
}
