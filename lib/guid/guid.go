/*
	`guid.New` generates a string that functions as a unique identifier.

	IDs generated are roughly chronologically sortable (they'll occur in
	runs, anyway; in the long run they'll loop, because we don't *really*
	care about monotonicity guarantees; we're really just after some loose
	clustering behavior as a politeness to humans debugging).
	They're also lowercase and punctuation free except for some
	non-semantic dashes that are just there to make visual breaks.

	These are *not* uids in any rfc4122 sense of the word.

	The guids are returned as ascii strings.
	It's strongly advised that consumers define some other type alias for
	various kinds of IDs to keep them clearly separated.
*/
package guid

import (
	realrand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"
)

// base32 space; case insensitive; ascii-ordered; characters that read like vertical lines removed with prejudice.
var pushChars = [32]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'k', 'm', 'n', 'o', 'p', 'q', 'r', 's', 't', 'v', 'w', 'x', 'y', 'z'}

const radix = 32

const randLen = 16

// timexxxx-randpt1x-randpt2x
const size = 8 + 1 + 8 + 1 + 8

var (
	lastPushTimeMs int64
	lastRandChars  [randLen]byte
	mu             sync.Mutex
	rnd            *rand.Rand
)

func init() {
	var seed int64
	binary.Read(realrand.Reader, binary.LittleEndian, &seed)
	rnd = rand.New(rand.NewSource(seed))
	for i := 0; i < randLen; i++ {
		lastRandChars[i] = byte(rnd.Intn(radix))
	}
}

func New() string {
	var id [size]byte
	id[17] = '-'
	id[8] = '-'
	mu.Lock()
	timeMs := time.Now().UTC().UnixNano() / 1e6
	if timeMs == lastPushTimeMs {
		// multiple requests in the same millisecond get incremented instead of re-rolled.
		for i := 0; i < randLen; i++ {
			lastRandChars[i]++
			if lastRandChars[i] < radix {
				break
			}
			lastRandChars[i] = 0
		}
	} else {
		lastPushTimeMs = timeMs
		for i := 0; i < randLen; i++ {
			lastRandChars[i] = byte(rnd.Intn(radix))
		}
	}
	for i := 0; i < 8; i++ {
		id[size-i-1] = pushChars[lastRandChars[i]]
	}
	for i := 8; i < 16; i++ {
		id[size-i-2] = pushChars[lastRandChars[i]]
	}
	mu.Unlock()

	// current time at the beginning; rolls over sometime in 2039, so
	// consider this clustering behavior, not true sortability.
	for i := 7; i >= 0; i-- {
		n := int(timeMs % radix)
		id[i] = pushChars[n]
		timeMs = timeMs / radix
	}

	return string(id[:])
}
