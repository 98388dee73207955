package storage

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const keySuffixLength = 12

// BuildObjectKey derives the storage key for a book upload. The key embeds
// owner and record id plus a random suffix, so keys never collide and
// cannot be guessed from a book id alone.
func BuildObjectKey(ownerID, bookID string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:keySuffixLength]
	return fmt.Sprintf("%s/%s-%s.epub", ownerID, bookID, suffix)
}
