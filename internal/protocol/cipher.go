package protocol

// InitialKey is the starting key of the Kasa XOR autokey cipher.
const InitialKey byte = 171

// Encrypt obfuscates plaintext with the Kasa autokey cipher.
// Each output byte becomes the key for the next input byte.
func Encrypt(plaintext []byte) []byte {
	key := InitialKey
	out := make([]byte, len(plaintext))
	for i, b := range plaintext {
		c := key ^ b
		key = c
		out[i] = c
	}
	return out
}

// Decrypt reverses Encrypt. The key for each byte is the previous ciphertext byte.
func Decrypt(ciphertext []byte) []byte {
	key := InitialKey
	out := make([]byte, len(ciphertext))
	for i, c := range ciphertext {
		out[i] = key ^ c
		key = c
	}
	return out
}
