package orders

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/angelmondragon/laundry-backend/pkg/enums"
)

const (
	ticketNameLen  = 3
	ticketMinDigit = 1000
	ticketMaxDigit = 9999
)

// digitSource returns an integer in [0, n).
type digitSource func(n int) int

func defaultDigits(n int) int {
	return rand.IntN(n)
}

// BuildTicketNumber renders `{J|A} {NAM} {dddd}`: the kind prefix, the first
// three letters of the upper-cased name padded with X, and four digits.
func BuildTicketNumber(kind enums.TaskKind, name string, digits digitSource) string {
	if digits == nil {
		digits = defaultDigits
	}
	return fmt.Sprintf("%s %s %d", kind.TicketPrefix(), ticketNameFragment(name),
		ticketMinDigit+digits(ticketMaxDigit-ticketMinDigit+1))
}

func ticketNameFragment(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if b.Len() == ticketNameLen {
			break
		}
		if unicode.IsLetter(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	for b.Len() < ticketNameLen {
		b.WriteByte('X')
	}
	return b.String()
}

// BuildNotes folds the service selection and free-text notes into catatan_khusus.
func BuildNotes(product, service, fragrance, notes string) string {
	out := fmt.Sprintf("Produk: %s, Jenis: %s, Parfum: %s",
		strings.TrimSpace(product), strings.TrimSpace(service), strings.TrimSpace(fragrance))
	if n := strings.TrimSpace(notes); n != "" {
		out += " | Catatan: " + n
	}
	return out
}
