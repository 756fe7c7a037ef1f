// Package keygen produces short, pronounceable paste identifiers.
package keygen

import "math/rand"

const (
	Vowels     = "aeiou"
	Consonants = "bcdfghjklmnpqrstvwxyz"
)

// Generate returns a key of exactly length characters alternating between
// consonants and vowels. Which class comes first is chosen at random.
// Uniqueness is not checked.
func Generate(length int) string {
	if length <= 0 {
		return ""
	}

	odd := rand.Intn(2)
	key := make([]byte, length)
	for i := range key {
		if i%2 == odd {
			key[i] = Consonants[rand.Intn(len(Consonants))]
		} else {
			key[i] = Vowels[rand.Intn(len(Vowels))]
		}
	}
	return string(key)
}
