package auth

import (
	"crypto/rand"
	"fmt"
)

// stateAlphabet はstateトークンに使用する文字集合（英大文字＋数字）。
const stateAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// stateLength はstateトークンの文字数。
const stateLength = 32

// stateByteLimit 以上のバイト値は棄却する。256は36で割り切れないため、
// 剰余をそのまま使うと先頭の文字が僅かに出やすくなる。252 = 36 * 7。
const stateByteLimit = 252

// GenerateState はCSRF対策用のワンタイムstateトークンを生成する。
// 英大文字と数字からなる32文字のランダム文字列を返す。
func GenerateState() (string, error) {
	token := make([]byte, 0, stateLength)
	buf := make([]byte, stateLength)
	for len(token) < stateLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		token = appendStateChars(token, buf)
	}
	return string(token[:stateLength]), nil
}

// appendStateChars はランダムバイト列をstateAlphabetの文字に変換してdstへ追加する。
// 一様性を保つため、stateByteLimit以上の値は棄却サンプリングで読み飛ばす。
func appendStateChars(dst, src []byte) []byte {
	for _, b := range src {
		if int(b) >= stateByteLimit {
			continue
		}
		dst = append(dst, stateAlphabet[int(b)%len(stateAlphabet)])
	}
	return dst
}
