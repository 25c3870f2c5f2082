package orders

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	ReceiptOrg         = "ECSS"
	NamespaceGeneral   = "FR"
	NamespacePanettone = "Panettone"

	// MaxReceiptSequence is the largest sequence that fits three digits.
	MaxReceiptSequence = 999
)

var ReceiptPattern = regexp.MustCompile(`^ECSS/(FR|Panettone)/\d{3}/\d{2}$`)

var ErrReceiptSequenceExhausted = errors.New("receipt sequence exceeds three digits")

// ReceiptAllocator derives receipt numbers of the form
// ECSS/<namespace>/<seq>/<yy>, where seq is the order's position in the
// order dataset plus one.
type ReceiptAllocator struct {
	Clock func() time.Time
}

func NewReceiptAllocator(clock func() time.Time) ReceiptAllocator {
	if clock == nil {
		clock = time.Now
	}
	return ReceiptAllocator{Clock: clock}
}

// Allocate returns o's receipt number. An existing number is returned
// unchanged with allocated=false. Positions whose sequence would need a
// fourth digit get ErrReceiptSequenceExhausted and no number.
func (a ReceiptAllocator) Allocate(o Order, position int) (number string, allocated bool, err error) {
	if o.ReceiptNumber != "" {
		return o.ReceiptNumber, false, nil
	}
	seq := position + 1
	if position < 0 || seq > MaxReceiptSequence {
		return "", false, fmt.Errorf("position %d: %w", position, ErrReceiptSequenceExhausted)
	}
	now := time.Now
	if a.Clock != nil {
		now = a.Clock
	}
	return fmt.Sprintf("%s/%s/%03d/%02d", ReceiptOrg, Namespace(o.Items), seq, now().Year()%100), true, nil
}

// Namespace is Panettone when any item names a panettone, FR otherwise.
func Namespace(items []LineItem) string {
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.ProductName), "panettone") {
			return NamespacePanettone
		}
	}
	return NamespaceGeneral
}
